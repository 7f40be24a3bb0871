package flights

import (
	"context"

	"skybook/internal/models"
)

type DBLayer interface {
	Search(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error)
	GetByID(ctx context.Context, id string) (*models.Flight, error)
	UpdateStatus(ctx context.Context, id string, status models.FlightStatus) error
}

type Cache interface {
	Get(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error)
	Set(ctx context.Context, params models.FlightSearchParams, flights []models.Flight) error
}

type Service struct {
	DB    DBLayer
	Cache Cache
}

func NewService(db DBLayer, cache Cache) *Service {
	return &Service{DB: db, Cache: cache}
}

// Search returns scheduled flights matching every supplied filter. An
// empty result is not an error.
func (s *Service) Search(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, params); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.DB.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		_ = s.Cache.Set(ctx, params, flights)
	}
	return flights, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Flight, error) {
	return s.DB.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status models.FlightStatus) error {
	return s.DB.UpdateStatus(ctx, id, status)
}
