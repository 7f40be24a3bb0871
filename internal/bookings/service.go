package bookings

import (
	"context"
	"fmt"

	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/utils"

	"github.com/google/uuid"
)

type DBLayer interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}

type FlightStore interface {
	GetByID(ctx context.Context, id string) (*models.Flight, error)
	ReserveSeats(ctx context.Context, id string, seats int) error
	ReleaseSeats(ctx context.Context, id string, seats int) error
}

type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
}

type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking models.Booking) error
	PublishBookingConfirmed(ctx context.Context, booking models.Booking) error
	PublishBookingCancelled(ctx context.Context, booking models.Booking) error
}

// Service runs the booking workflow against the external backend.
type Service struct {
	DB       DBLayer
	Flights  FlightStore
	Payments PaymentStore
	Events   EventPublisher
	Log      *logger.Logger

	// StrictTransitions rejects cancel/confirm on bookings that are no
	// longer pending. Off by default: repeated cancels stay idempotent.
	StrictTransitions bool
}

func NewService(db DBLayer, flights FlightStore, payments PaymentStore, events EventPublisher, log *logger.Logger, strict bool) *Service {
	return &Service{
		DB:                db,
		Flights:           flights,
		Payments:          payments,
		Events:            events,
		Log:               log,
		StrictTransitions: strict,
	}
}

// Create books seats on a flight and opens the dependent payment.
//
// The seat decrement is a single conditional update, so the availability
// check cannot race a concurrent booking. Booking and payment inserts are
// still two separate calls against the backend: if the payment insert
// fails, the booking is cancelled as a compensating action, and if that
// cancel fails too the inconsistency is logged for reconciliation.
func (s *Service) Create(ctx context.Context, userID string, req models.CreateBookingRequest) (*models.Booking, error) {
	flight, err := s.Flights.GetByID(ctx, req.FlightID)
	if err != nil {
		return nil, err
	}

	if flight.AvailableSeats < req.NumberOfSeats {
		return nil, models.ErrNotEnoughSeats
	}

	if err := s.Flights.ReserveSeats(ctx, flight.ID, req.NumberOfSeats); err != nil {
		return nil, err
	}

	totalAmount := flight.Price * float64(req.NumberOfSeats)

	booking := &models.Booking{
		ID:               uuid.NewString(),
		UserID:           userID,
		FlightID:         flight.ID,
		BookingReference: utils.GenerateBookingReference(),
		NumberOfSeats:    req.NumberOfSeats,
		TotalAmount:      totalAmount,
		Status:           models.BookingPending,
	}

	if err := s.DB.Create(ctx, booking); err != nil {
		if relErr := s.Flights.ReleaseSeats(ctx, flight.ID, req.NumberOfSeats); relErr != nil {
			s.Log.LogReconciliation("flight", flight.ID,
				fmt.Sprintf("failed to release %d seats after booking insert failure: %v", req.NumberOfSeats, relErr))
		}
		return nil, err
	}

	payment := &models.Payment{
		ID:            uuid.NewString(),
		BookingID:     booking.ID,
		Amount:        totalAmount,
		PaymentMethod: req.PaymentMethod,
		Status:        models.PaymentPending,
	}

	if err := s.Payments.Create(ctx, payment); err != nil {
		// Compensating action, not a transaction. The original error is
		// what the caller sees.
		if _, cancelErr := s.DB.UpdateStatus(ctx, booking.ID, models.BookingCancelled); cancelErr != nil {
			s.Log.LogReconciliation("booking", booking.ID,
				fmt.Sprintf("payment insert failed AND compensating cancel failed, booking orphaned as pending: cancel error: %v", cancelErr))
		} else if relErr := s.Flights.ReleaseSeats(ctx, flight.ID, req.NumberOfSeats); relErr != nil {
			s.Log.LogReconciliation("flight", flight.ID,
				fmt.Sprintf("failed to release %d seats for cancelled booking %s: %v", req.NumberOfSeats, booking.ID, relErr))
		}
		return nil, err
	}

	if err := s.Events.PublishBookingCreated(ctx, *booking); err != nil {
		s.Log.Warn("BOOKING", fmt.Sprintf("failed to publish booking_created for %s: %v", booking.ID, err))
	}

	s.Log.LogBooking("CREATE", booking.ID,
		fmt.Sprintf("%d seats on flight %s, total %.2f", booking.NumberOfSeats, booking.FlightID, booking.TotalAmount))
	return booking, nil
}

// ListByUser returns the caller's bookings with flight detail, newest
// first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.DB.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.DB.GetByID(ctx, id)
}

// Cancel flips a booking to cancelled and returns its seats. Without
// strict transitions a repeat cancel succeeds silently.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	current, err := s.DB.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.StrictTransitions && current.Status != models.BookingPending {
		return nil, models.ErrBookingNotPending
	}

	updated, err := s.DB.UpdateStatus(ctx, id, models.BookingCancelled)
	if err != nil {
		return nil, err
	}

	// Seats go back only on the first transition out of an active state.
	if current.Status != models.BookingCancelled {
		if relErr := s.Flights.ReleaseSeats(ctx, current.FlightID, current.NumberOfSeats); relErr != nil {
			s.Log.LogReconciliation("flight", current.FlightID,
				fmt.Sprintf("failed to release %d seats for cancelled booking %s: %v", current.NumberOfSeats, id, relErr))
		}
	}

	if err := s.Events.PublishBookingCancelled(ctx, *updated); err != nil {
		s.Log.Warn("BOOKING", fmt.Sprintf("failed to publish booking_cancelled for %s: %v", id, err))
	}
	return updated, nil
}

// Confirm flips a booking to confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (*models.Booking, error) {
	current, err := s.DB.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.StrictTransitions && current.Status != models.BookingPending {
		return nil, models.ErrBookingNotPending
	}

	// A cancelled booking already gave its seats back. Confirming it
	// takes them again, and fails if the flight has filled up since.
	if current.Status == models.BookingCancelled {
		if err := s.Flights.ReserveSeats(ctx, current.FlightID, current.NumberOfSeats); err != nil {
			return nil, err
		}
	}

	updated, err := s.DB.UpdateStatus(ctx, id, models.BookingConfirmed)
	if err != nil {
		if current.Status == models.BookingCancelled {
			if relErr := s.Flights.ReleaseSeats(ctx, current.FlightID, current.NumberOfSeats); relErr != nil {
				s.Log.LogReconciliation("flight", current.FlightID,
					fmt.Sprintf("failed to release %d seats after confirm of booking %s failed: %v", current.NumberOfSeats, id, relErr))
			}
		}
		return nil, err
	}

	if err := s.Events.PublishBookingConfirmed(ctx, *updated); err != nil {
		s.Log.Warn("BOOKING", fmt.Sprintf("failed to publish booking_confirmed for %s: %v", id, err))
	}
	return updated, nil
}
