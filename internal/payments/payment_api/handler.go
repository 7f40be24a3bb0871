package payment_api

import (
	"fmt"
	"net/http"

	"skybook/internal/auth"
	"skybook/internal/bookings"
	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/payments"
	"skybook/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service  *payments.Service
	Bookings *bookings.Service
	Logger   *logger.Logger
}

func NewHandler(service *payments.Service, bookingService *bookings.Service, log *logger.Logger) *Handler {
	return &Handler{
		Service:  service,
		Bookings: bookingService,
		Logger:   log,
	}
}

// List handles GET /payments, scoped to the caller's bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.RequestIdentity(r.Context())

	results, err := h.Service.ListByUser(r.Context(), identity.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("List: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Payments retrieved successfully", results))
}

// GetByBooking handles GET /payments/booking/{bookingId}.
func (h *Handler) GetByBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	if err := h.verifyBookingOwnership(r, bookingID); err != nil {
		utils.WriteError(w, err)
		return
	}

	payment, err := h.Service.GetByBooking(r.Context(), bookingID)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("GetByBooking: booking %s: %v", bookingID, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Payment retrieved successfully", payment))
}

// Process handles POST /payments/{paymentId}/process.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	payment, err := h.ownedPayment(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.Service.Process(r.Context(), payment.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Process: payment %s: %v", payment.ID, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Payment processed successfully", updated))
}

// Refund handles POST /payments/{paymentId}/refund.
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	payment, err := h.ownedPayment(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	updated, err := h.Service.Refund(r.Context(), payment.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Refund: payment %s: %v", payment.ID, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Payment refunded successfully", updated))
}

// ownedPayment loads the payment in the URL and checks its booking
// belongs to the caller. Someone else's payment reads as not found.
func (h *Handler) ownedPayment(r *http.Request) (*models.Payment, error) {
	paymentID := chi.URLParam(r, "paymentId")

	payment, err := h.Service.GetByID(r.Context(), paymentID)
	if err != nil {
		return nil, err
	}

	if err := h.verifyBookingOwnership(r, payment.BookingID); err != nil {
		return nil, models.ErrPaymentNotFound
	}
	return payment, nil
}

func (h *Handler) verifyBookingOwnership(r *http.Request, bookingID string) error {
	identity := auth.RequestIdentity(r.Context())

	booking, err := h.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != identity.ID && identity.Role != string(models.RoleAdmin) {
		return models.ErrBookingNotFound
	}
	return nil
}
