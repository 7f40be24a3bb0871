package models

// Request bodies are explicit tagged structs validated at the handler
// boundary before anything reaches a service.

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"omitempty,max=120"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateBookingRequest struct {
	FlightID      string `json:"flight_id" validate:"required,uuid4"`
	NumberOfSeats int    `json:"number_of_seats" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal bank_transfer"`
}

type UpdateFlightStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled delayed cancelled completed"`
}

// FlightSearchParams carries the optional /flights query filters. Zero
// values mean "no constraint"; the pointer fields distinguish an omitted
// bound from an explicit zero.
type FlightSearchParams struct {
	Origin         string
	Destination    string
	DepartureDate  string // YYYY-MM-DD, expanded to [date 00:00, date+1 00:00)
	MinPrice       *float64
	MaxPrice       *float64
	AvailableSeats *int
}
