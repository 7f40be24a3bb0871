package booking_api

import (
	"net/http"

	"skybook/internal/auth"
	"skybook/internal/models"

	"github.com/go-chi/chi/v5"
)

// ownedBooking loads the booking in the URL and checks it belongs to the
// caller. A booking owned by someone else reads as not found, so the
// endpoint does not reveal which ids exist.
func (h *Handler) ownedBooking(r *http.Request) (*models.Booking, error) {
	bookingID := chi.URLParam(r, "bookingId")
	identity := auth.RequestIdentity(r.Context())

	booking, err := h.Service.GetByID(r.Context(), bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != identity.ID && identity.Role != string(models.RoleAdmin) {
		return nil, models.ErrBookingNotFound
	}
	return booking, nil
}
