package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"skybook/internal/auth"
	"skybook/internal/config"
	"skybook/internal/logger"
	"skybook/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configWithMode(mode string) config.AuthConfig {
	return config.AuthConfig{Mode: mode, Issuer: "http://localhost:9999"}
}

func protectedHandler(t *testing.T, captured **models.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = auth.RequestIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	var captured *models.Identity
	handler := auth.Middleware(auth.LocalVerifier{}, logger.NewLogger())(protectedHandler(t, &captured))

	r := httptest.NewRequest("GET", "/bookings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured)
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	var captured *models.Identity
	handler := auth.Middleware(auth.LocalVerifier{}, logger.NewLogger())(protectedHandler(t, &captured))

	r := httptest.NewRequest("GET", "/bookings", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured)
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@example.com",
	})

	var captured *models.Identity
	handler := auth.Middleware(auth.LocalVerifier{}, logger.NewLogger())(protectedHandler(t, &captured))

	r := httptest.NewRequest("GET", "/bookings", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-1", captured.ID)
	assert.Equal(t, "a@example.com", captured.Email)
}

func TestRequestIdentityWithoutMiddleware(t *testing.T) {
	r := httptest.NewRequest("GET", "/flights", nil)
	assert.Nil(t, auth.RequestIdentity(r.Context()))
}

func TestNewVerifierUnknownMode(t *testing.T) {
	_, err := auth.NewVerifier(t.Context(), configWithMode("magic"), nil, nil, logger.NewLogger())
	assert.Error(t, err)
}

func TestNewVerifierLocalMode(t *testing.T) {
	v, err := auth.NewVerifier(t.Context(), configWithMode("local"), nil, nil, logger.NewLogger())
	require.NoError(t, err)
	assert.IsType(t, auth.LocalVerifier{}, v)
}
