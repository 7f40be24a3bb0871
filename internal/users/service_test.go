package users_test

import (
	"context"
	"errors"
	"testing"

	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserDB struct {
	mock.Mock
}

func (m *MockUserDB) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserDB) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserDB) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) AdminCreateUser(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthProvider) PasswordGrant(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func newUserService(t *testing.T) (*users.Service, *MockUserDB, *MockAuthProvider) {
	t.Helper()
	mockDB := new(MockUserDB)
	mockProvider := new(MockAuthProvider)
	return users.NewService(mockDB, mockProvider, logger.NewLogger()), mockDB, mockProvider
}

func TestSignUpCreatesIdentityAndProfile(t *testing.T) {
	svc, mockDB, mockProvider := newUserService(t)
	ctx := context.Background()

	req := models.SignUpRequest{Email: "a@example.com", Password: "secret-password", FullName: "A Person"}

	mockDB.On("GetByEmail", ctx, "a@example.com").Return(nil, nil)
	mockProvider.On("AdminCreateUser", ctx, "a@example.com", "secret-password").Return("identity-1", nil)
	mockDB.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.SignUp(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "identity-1", user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "A Person", user.FullName)
	mockProvider.AssertExpectations(t)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, mockDB, mockProvider := newUserService(t)
	ctx := context.Background()

	existing := &models.User{ID: "identity-1", Email: "a@example.com"}
	mockDB.On("GetByEmail", ctx, "a@example.com").Return(existing, nil)

	_, err := svc.SignUp(ctx, models.SignUpRequest{Email: "a@example.com", Password: "secret-password"})
	assert.True(t, errors.Is(err, models.ErrDuplicateEmail))

	// The duplicate is caught before any identity is provisioned.
	mockProvider.AssertNotCalled(t, "AdminCreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUpLeavesIdentityOrphanedOnProfileFailure(t *testing.T) {
	svc, mockDB, mockProvider := newUserService(t)
	ctx := context.Background()

	insertErr := errors.New("profile insert failed")

	mockDB.On("GetByEmail", ctx, "a@example.com").Return(nil, nil)
	mockProvider.On("AdminCreateUser", ctx, "a@example.com", "secret-password").Return("identity-1", nil)
	mockDB.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(insertErr)

	// No compensating identity deletion happens: the auth identity stays
	// behind and the insert error is what the caller sees.
	_, err := svc.SignUp(ctx, models.SignUpRequest{Email: "a@example.com", Password: "secret-password"})
	assert.True(t, errors.Is(err, insertErr))
	mockProvider.AssertExpectations(t)
}

func TestSignInDelegatesToAuthBackend(t *testing.T) {
	svc, _, mockProvider := newUserService(t)
	ctx := context.Background()

	session := &models.Session{AccessToken: "token-1", TokenType: "bearer", ExpiresIn: 3600}
	mockProvider.On("PasswordGrant", ctx, "a@example.com", "secret-password").Return(session, nil)

	got, err := svc.SignIn(ctx, models.SignInRequest{Email: "a@example.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", got.AccessToken)
}

func TestSignInInvalidCredentials(t *testing.T) {
	svc, _, mockProvider := newUserService(t)
	ctx := context.Background()

	mockProvider.On("PasswordGrant", ctx, "a@example.com", "wrong").Return(nil, models.ErrInvalidCredentials)

	_, err := svc.SignIn(ctx, models.SignInRequest{Email: "a@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
}

func TestGetProfileNotFound(t *testing.T) {
	svc, mockDB, _ := newUserService(t)
	ctx := context.Background()

	mockDB.On("GetByID", ctx, "missing").Return(nil, models.ErrUserNotFound)

	_, err := svc.GetProfile(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrUserNotFound))
}
