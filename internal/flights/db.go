package flights

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"skybook/internal/models"

	"github.com/uptrace/bun"
)

// Store wraps the flights table in the hosted Postgres.
type Store struct {
	Bun *bun.DB
}

func NewStore(bunDB *bun.DB) *Store {
	return &Store{Bun: bunDB}
}

// Search composes the optional filters over the base predicate
// status = 'scheduled'. Results come back in storage order, which is not
// guaranteed to be stable.
func (s *Store) Search(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error) {
	flights := make([]models.Flight, 0)

	q := s.Bun.NewSelect().
		Model(&flights).
		Where("status = ?", models.FlightScheduled)

	if params.Origin != "" {
		q = q.Where("LOWER(origin) LIKE ?", "%"+strings.ToLower(params.Origin)+"%")
	}
	if params.Destination != "" {
		q = q.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(params.Destination)+"%")
	}
	if params.DepartureDate != "" {
		day, err := time.Parse("2006-01-02", params.DepartureDate)
		if err != nil {
			return nil, err
		}
		// Half-open day window: [date 00:00, date+1 00:00).
		q = q.Where("departure_time >= ?", day).
			Where("departure_time < ?", day.AddDate(0, 0, 1))
	}
	if params.MinPrice != nil {
		q = q.Where("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		q = q.Where("price <= ?", *params.MaxPrice)
	}
	if params.AvailableSeats != nil {
		q = q.Where("available_seats >= ?", *params.AvailableSeats)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return flights, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Flight, error) {
	var flight models.Flight
	err := s.Bun.NewSelect().
		Model(&flight).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrFlightNotFound
		}
		return nil, err
	}
	return &flight, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status models.FlightStatus) error {
	res, err := s.Bun.NewUpdate().
		Model((*models.Flight)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrFlightNotFound
	}
	return nil
}

// ReserveSeats decrements the seat count as a single conditional update.
// The availability check and the decrement share one statement, so two
// concurrent bookings cannot both take the last seats.
func (s *Store) ReserveSeats(ctx context.Context, id string, seats int) error {
	res, err := s.Bun.NewUpdate().
		Model((*models.Flight)(nil)).
		Set("available_seats = available_seats - ?", seats).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("available_seats >= ?", seats).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotEnoughSeats
	}
	return nil
}

// ReleaseSeats returns seats to the pool after a cancel or a failed
// booking workflow.
func (s *Store) ReleaseSeats(ctx context.Context, id string, seats int) error {
	res, err := s.Bun.NewUpdate().
		Model((*models.Flight)(nil)).
		Set("available_seats = available_seats + ?", seats).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrFlightNotFound
	}
	return nil
}
