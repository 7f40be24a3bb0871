package models

import "errors"

// Domain errors. Handlers map these to HTTP classes: not-found → 404,
// rule violations → 400, auth failures → 401. Anything else from the
// backend is a 500 with the detail logged, never echoed to the client.
var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrNotEnoughSeats = errors.New("not enough seats available")
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// Returned only when strict booking transitions are enabled.
	ErrBookingNotPending = errors.New("booking is not pending")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("invalid or missing token")
	ErrForbidden          = errors.New("insufficient permissions")
)
