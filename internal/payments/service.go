package payments

import (
	"context"
	"fmt"

	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/utils"
)

type DBLayer interface {
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
	SetStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string) (*models.Payment, error)
}

// Service simulates payment processing by flipping status fields. The
// production replacement is an external gateway call with its own retry
// and idempotency-key discipline; nothing here guards against
// double-processing.
type Service struct {
	DB  DBLayer
	Log *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Log: log}
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.DB.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return s.DB.GetByID(ctx, id)
}

func (s *Service) GetByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	return s.DB.GetByBookingID(ctx, bookingID)
}

// Process marks a payment completed and stamps a synthetic transaction
// id. The current status is not checked.
func (s *Service) Process(ctx context.Context, id string) (*models.Payment, error) {
	transactionID := utils.GenerateTransactionID()
	payment, err := s.DB.SetStatus(ctx, id, models.PaymentCompleted, transactionID)
	if err != nil {
		return nil, err
	}

	s.Log.Info("PAYMENT", fmt.Sprintf("payment %s completed with transaction %s", id, transactionID))
	return payment, nil
}

// Refund marks a payment refunded. The current status is not checked, so
// refunding a pending payment succeeds.
func (s *Service) Refund(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.DB.SetStatus(ctx, id, models.PaymentRefunded, "")
	if err != nil {
		return nil, err
	}

	s.Log.Info("PAYMENT", fmt.Sprintf("payment %s refunded", id))
	return payment, nil
}
