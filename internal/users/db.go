package users

import (
	"context"
	"database/sql"
	"errors"

	"skybook/internal/models"

	"github.com/uptrace/bun"
)

// Store wraps the users profile table. Credentials live in the auth
// backend, not here.
type Store struct {
	Bun *bun.DB
}

func NewStore(bunDB *bun.DB) *Store {
	return &Store{Bun: bunDB}
}

func (s *Store) Create(ctx context.Context, user *models.User) error {
	_, err := s.Bun.NewInsert().Model(user).Exec(ctx)
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no profile exists, mirroring a
// maybe-single lookup.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.Bun.NewSelect().
		Model(&user).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
