package bookings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skybook/internal/models"

	"github.com/uptrace/bun"
)

// Store wraps the bookings table.
type Store struct {
	Bun *bun.DB
}

func NewStore(bunDB *bun.DB) *Store {
	return &Store{Bun: bunDB}
}

func (s *Store) Create(ctx context.Context, booking *models.Booking) error {
	_, err := s.Bun.NewInsert().Model(booking).Exec(ctx)
	return err
}

// GetByID fetches a booking with its joined flight detail.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := s.Bun.NewSelect().
		Model(&booking).
		Relation("Flight").
		Where("booking.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// ListByUser returns a user's bookings with flight detail, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	err := s.Bun.NewSelect().
		Model(&bookings).
		Relation("Flight").
		Where("booking.user_id = ?", userID).
		Order("booking.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus flips the status unconditionally and returns the updated
// row. Not-found surfaces as ErrBookingNotFound.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	res, err := s.Bun.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, models.ErrBookingNotFound
	}
	return s.GetByID(ctx, id)
}
