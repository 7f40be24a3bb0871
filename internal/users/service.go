package users

import (
	"context"
	"fmt"

	"skybook/internal/logger"
	"skybook/internal/models"
)

type DBLayer interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthProvider is the slice of the auth backend the identity service
// needs: provisioning and credential checks.
type AuthProvider interface {
	AdminCreateUser(ctx context.Context, email, password string) (string, error)
	PasswordGrant(ctx context.Context, email, password string) (*models.Session, error)
}

type Service struct {
	DB       DBLayer
	Provider AuthProvider
	Log      *logger.Logger
}

func NewService(db DBLayer, provider AuthProvider, log *logger.Logger) *Service {
	return &Service{DB: db, Provider: provider, Log: log}
}

// SignUp provisions an auth identity and writes the matching profile row.
//
// Known gap: if the profile insert fails after the identity was created,
// the auth backend is left with an orphaned identity. No compensating
// deletion is performed; the event is logged for reconciliation.
func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	existing, err := s.DB.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrDuplicateEmail
	}

	identityID, err := s.Provider.AdminCreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          identityID,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        models.RoleUser,
	}

	if err := s.DB.Create(ctx, user); err != nil {
		s.Log.LogReconciliation("auth-identity", identityID,
			fmt.Sprintf("profile insert failed after identity creation, identity orphaned: %v", err))
		return nil, err
	}

	s.Log.Info("USER", fmt.Sprintf("created account %s", identityID))
	return user, nil
}

// SignIn delegates the credential check to the auth backend and passes
// its session through.
func (s *Service) SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error) {
	return s.Provider.PasswordGrant(ctx, req.Email, req.Password)
}

func (s *Service) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.DB.GetByID(ctx, id)
}
