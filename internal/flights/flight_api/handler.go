package flight_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"skybook/internal/auth"
	"skybook/internal/changefeed"
	"skybook/internal/flights"
	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	Service  *flights.Service
	Emitter  *changefeed.FlightEmitter
	Validate *validator.Validate
	Logger   *logger.Logger
}

func NewHandler(service *flights.Service, emitter *changefeed.FlightEmitter, log *logger.Logger) *Handler {
	return &Handler{
		Service:  service,
		Emitter:  emitter,
		Validate: validator.New(),
		Logger:   log,
	}
}

// Search handles GET /flights. Every query parameter is optional; all
// supplied filters are ANDed together.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Search: bad query: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid query parameters", err.Error()))
		return
	}

	results, err := h.Service.Search(r.Context(), params)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Search: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Flights retrieved successfully", results))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	flightID := chi.URLParam(r, "flightId")

	flight, err := h.Service.GetByID(r.Context(), flightID)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("GetByID: flight %s: %v", flightID, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Flight retrieved successfully", flight))
}

// StreamStatus handles GET /flights/{flightId}/status as an SSE stream.
// The current row is pushed immediately, then every change delivered by
// the database feed until the client disconnects.
func (h *Handler) StreamStatus(w http.ResponseWriter, r *http.Request) {
	flightID := chi.URLParam(r, "flightId")

	flight, err := h.Service.GetByID(r.Context(), flightID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Streaming unsupported", "response writer does not support flushing"))
		return
	}

	setupSSEHeaders(w)

	ctx := r.Context()
	updates := h.Emitter.Subscribe(ctx, flightID)

	h.Logger.Info("SSE", fmt.Sprintf("client connected to status stream for flight %s", flightID))

	writeFlightEvent(w, *flight)
	flusher.Flush()

	for {
		select {
		case updated, open := <-updates:
			if !open {
				h.Logger.Debug("SSE", fmt.Sprintf("stream channel closed for flight %s", flightID))
				return
			}
			writeFlightEvent(w, updated)
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("client disconnected from flight %s", flightID))
			return
		}
	}
}

// UpdateStatus handles PUT /flights/{flightId}/status for admins. The
// database trigger picks the change up and fans it out to every stream
// attached to the flight.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity := auth.RequestIdentity(r.Context())
	if identity == nil || identity.Role != string(models.RoleAdmin) {
		utils.WriteError(w, models.ErrForbidden)
		return
	}

	var req models.UpdateFlightStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	flightID := chi.URLParam(r, "flightId")
	if err := h.Service.UpdateStatus(r.Context(), flightID, models.FlightStatus(req.Status)); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("UpdateStatus: flight %s: %v", flightID, err))
		utils.WriteError(w, err)
		return
	}

	flight, err := h.Service.GetByID(r.Context(), flightID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	h.Logger.Info("FLIGHT", fmt.Sprintf("flight %s status set to %s by %s", flightID, req.Status, identity.ID))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Flight status updated successfully", flight))
}

func writeFlightEvent(w http.ResponseWriter, flight models.Flight) {
	data, err := json.Marshal(flight)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}

func parseSearchParams(r *http.Request) (models.FlightSearchParams, error) {
	q := r.URL.Query()

	params := models.FlightSearchParams{
		Origin:        q.Get("origin"),
		Destination:   q.Get("destination"),
		DepartureDate: q.Get("departure_date"),
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, fmt.Errorf("min_price must be a number")
		}
		params.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, fmt.Errorf("max_price must be a number")
		}
		params.MaxPrice = &v
	}
	if raw := q.Get("available_seats"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return params, fmt.Errorf("available_seats must be a non-negative integer")
		}
		params.AvailableSeats = &v
	}

	return params, nil
}
