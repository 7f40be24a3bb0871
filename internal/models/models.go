package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type FlightStatus string

const (
	FlightScheduled FlightStatus = "scheduled"
	FlightDelayed   FlightStatus = "delayed"
	FlightCancelled FlightStatus = "cancelled"
	FlightCompleted FlightStatus = "completed"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// User is the profile row kept alongside the auth identity. The auth
// backend owns credentials; this table only carries profile data.
type User struct {
	bun.BaseModel `bun:"table:users,alias:user"`

	ID          string    `bun:"id,pk" json:"id"`
	Email       string    `bun:"email,notnull,unique" json:"email"`
	FullName    string    `bun:"full_name,nullzero" json:"full_name,omitempty"`
	PhoneNumber string    `bun:"phone_number,nullzero" json:"phone_number,omitempty"`
	Role        UserRole  `bun:"role,notnull,default:'user'" json:"role"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

type Flight struct {
	bun.BaseModel `bun:"table:flights,alias:flight"`

	ID             string       `bun:"id,pk" json:"id"`
	FlightNumber   string       `bun:"flight_number,notnull" json:"flight_number"`
	Airline        string       `bun:"airline,notnull" json:"airline"`
	Origin         string       `bun:"origin,notnull" json:"origin"`
	Destination    string       `bun:"destination,notnull" json:"destination"`
	DepartureTime  time.Time    `bun:"departure_time,notnull" json:"departure_time"`
	ArrivalTime    time.Time    `bun:"arrival_time,notnull" json:"arrival_time"`
	Price          float64      `bun:"price,notnull" json:"price"`
	TotalSeats     int          `bun:"total_seats,notnull" json:"total_seats"`
	AvailableSeats int          `bun:"available_seats,notnull" json:"available_seats"`
	Status         FlightStatus `bun:"status,notnull,default:'scheduled'" json:"status"`
	CreatedAt      time.Time    `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time    `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:booking"`

	ID               string        `bun:"id,pk" json:"id"`
	UserID           string        `bun:"user_id,notnull" json:"user_id"`
	FlightID         string        `bun:"flight_id,notnull" json:"flight_id"`
	BookingReference string        `bun:"booking_reference,notnull" json:"booking_reference"`
	NumberOfSeats    int           `bun:"number_of_seats,notnull" json:"number_of_seats"`
	TotalAmount      float64       `bun:"total_amount,notnull" json:"total_amount"`
	Status           BookingStatus `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt        time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time     `bun:"updated_at,nullzero" json:"updated_at,omitempty"`

	// Joined flight detail, populated by the list/detail queries.
	Flight *Flight `bun:"rel:belongs-to,join:flight_id=id" json:"flight,omitempty"`
}

type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:payment"`

	ID            string        `bun:"id,pk" json:"id"`
	BookingID     string        `bun:"booking_id,notnull" json:"booking_id"`
	Amount        float64       `bun:"amount,notnull" json:"amount"`
	PaymentMethod string        `bun:"payment_method,notnull" json:"payment_method"`
	TransactionID string        `bun:"transaction_id,nullzero" json:"transaction_id,omitempty"`
	Status        PaymentStatus `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt     time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time     `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// Identity is the resolved caller attached to the request context by the
// auth middleware.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the token payload the auth backend returns on sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}
