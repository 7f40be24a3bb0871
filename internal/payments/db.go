package payments

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skybook/internal/models"

	"github.com/uptrace/bun"
)

// Store wraps the payments table.
type Store struct {
	Bun *bun.DB
}

func NewStore(bunDB *bun.DB) *Store {
	return &Store{Bun: bunDB}
}

func (s *Store) Create(ctx context.Context, payment *models.Payment) error {
	_, err := s.Bun.NewInsert().Model(payment).Exec(ctx)
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := s.Bun.NewSelect().
		Model(&payment).
		Where("payment.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (s *Store) GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.Bun.NewSelect().
		Model(&payment).
		Where("payment.booking_id = ?", bookingID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ListByUser joins payments through bookings to filter by the booking
// owner. Order is unspecified.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	payments := make([]models.Payment, 0)
	err := s.Bun.NewSelect().
		Model(&payments).
		Join("JOIN bookings AS b ON b.id = payment.booking_id").
		Where("b.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// SetStatus flips the payment status, stamping a transaction id when one
// is supplied, and returns the updated row.
func (s *Store) SetStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string) (*models.Payment, error) {
	q := s.Bun.NewUpdate().
		Model((*models.Payment)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id)
	if transactionID != "" {
		q = q.Set("transaction_id = ?", transactionID)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, models.ErrPaymentNotFound
	}
	return s.GetByID(ctx, id)
}
