package utils

import (
	"errors"
	"net/http"

	"skybook/internal/models"
)

// StatusForError maps a domain error to an HTTP status. Anything not
// recognized is a 500; callers log the detail and send a generic body.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrFlightNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrPaymentNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNotEnoughSeats),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrBookingNotPending):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteError sends the envelope for a domain error. Unrecognized errors
// get a sanitized body so backend detail never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		WriteJSON(w, status, ErrorResponse("Internal server error", "an unexpected error occurred"))
		return
	}
	WriteJSON(w, status, ErrorResponse(http.StatusText(status), err.Error()))
}
