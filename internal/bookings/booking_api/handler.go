package booking_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"skybook/internal/auth"
	"skybook/internal/bookings"
	"skybook/internal/bookings/boardingpass"
	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/utils"

	"github.com/go-playground/validator/v10"
)

type Handler struct {
	Service  *bookings.Service
	Pass     *boardingpass.Generator
	Validate *validator.Validate
	Logger   *logger.Logger
}

func NewHandler(service *bookings.Service, pass *boardingpass.Generator, log *logger.Logger) *Handler {
	return &Handler{
		Service:  service,
		Pass:     pass,
		Validate: validator.New(),
		Logger:   log,
	}
}

// Create handles POST /bookings for the authenticated caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.RequestIdentity(r.Context())

	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Create: bad request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Create: validation failed: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	booking, err := h.Service.Create(r.Context(), identity.ID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Create: booking failed for user %s: %v", identity.ID, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Booking created successfully", booking))
}

// List handles GET /bookings, returning the caller's bookings with
// flight detail, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.RequestIdentity(r.Context())

	results, err := h.Service.ListByUser(r.Context(), identity.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("List: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Bookings retrieved successfully", results))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.ownedBooking(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Booking retrieved successfully", booking))
}

// Cancel handles PUT /bookings/{bookingId}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	booking, err := h.ownedBooking(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.Service.Cancel(r.Context(), booking.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Cancel: booking %s: %v", booking.ID, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Booking cancelled successfully", updated))
}

// Confirm handles PUT /bookings/{bookingId}/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	booking, err := h.ownedBooking(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.Service.Confirm(r.Context(), booking.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Confirm: booking %s: %v", booking.ID, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Booking confirmed successfully", updated))
}

// BoardingPass handles GET /bookings/{bookingId}/pass, returning the
// encrypted QR as a PNG. Only confirmed bookings have a pass.
func (h *Handler) BoardingPass(w http.ResponseWriter, r *http.Request) {
	booking, err := h.ownedBooking(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if booking.Status != models.BookingConfirmed {
		utils.WriteJSON(w, http.StatusBadRequest,
			utils.ErrorResponse("Boarding pass unavailable", "booking is not confirmed"))
		return
	}
	if booking.Flight == nil {
		h.Logger.Error("API", fmt.Sprintf("BoardingPass: booking %s has no flight detail", booking.ID))
		utils.WriteError(w, models.ErrFlightNotFound)
		return
	}

	png, err := h.Pass.GeneratePNG(*booking, *booking.Flight)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("BoardingPass: failed to render pass for %s: %v", booking.ID, err))
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
