package user_api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skybook/internal/auth"
	"skybook/internal/config"
	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/users"
	"skybook/internal/users/user_api"
	"skybook/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// fakeAuthBackend stands in for the managed auth service.
func fakeAuthBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/admin/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "11111111-0000-4000-8000-000000000001"})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "correct-password" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(models.Session{AccessToken: "session-token", TokenType: "bearer", ExpiresIn: 3600})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupUserRouter(t *testing.T) (*chi.Mux, *users.Store) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.User)(nil)))

	log := logger.NewLogger()
	backend := fakeAuthBackend(t)
	provider := auth.NewProvider(config.AuthConfig{BackendURL: backend.URL}, http.DefaultClient, log)

	store := users.NewStore(bunDB)
	service := users.NewService(store, provider, log)
	handler := user_api.NewHandler(service, log)

	r := chi.NewRouter()
	r.Post("/auth/signup", handler.SignUp)
	r.Post("/auth/signin", handler.SignIn)
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(auth.LocalVerifier{}, log))
		r.Get("/auth/profile", handler.Profile)
	})

	return r, store
}

func postJSON(t *testing.T, router *chi.Mux, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestSignUpEndpoint(t *testing.T) {
	router, store := setupUserRouter(t)

	w := postJSON(t, router, "/auth/signup", models.SignUpRequest{
		Email:    "a@example.com",
		Password: "correct-password",
		FullName: "A Person",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Profile row exists with the backend identity id and forced role.
	user, err := store.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "11111111-0000-4000-8000-000000000001", user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	router, _ := setupUserRouter(t)

	req := models.SignUpRequest{Email: "a@example.com", Password: "correct-password"}
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/auth/signup", req).Code)

	w := postJSON(t, router, "/auth/signup", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user with this email already exists", resp.Error)
}

func TestSignUpValidation(t *testing.T) {
	router, _ := setupUserRouter(t)

	for _, req := range []models.SignUpRequest{
		{Email: "not-an-email", Password: "correct-password"},
		{Email: "a@example.com", Password: "short"},
		{},
	} {
		w := postJSON(t, router, "/auth/signup", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestSignInEndpoint(t *testing.T) {
	router, _ := setupUserRouter(t)

	w := postJSON(t, router, "/auth/signin", models.SignInRequest{
		Email:    "a@example.com",
		Password: "correct-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var session models.Session
	require.NoError(t, json.Unmarshal(raw, &session))
	assert.Equal(t, "session-token", session.AccessToken)
}

func TestSignInWrongPassword(t *testing.T) {
	router, _ := setupUserRouter(t)

	w := postJSON(t, router, "/auth/signin", models.SignInRequest{
		Email:    "a@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileEndpoint(t *testing.T) {
	router, store := setupUserRouter(t)

	user := models.User{ID: "user-1", Email: "a@example.com", Role: models.RoleUser}
	require.NoError(t, store.Create(context.Background(), &user))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/auth/profile", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileMissingRow(t *testing.T) {
	router, _ := setupUserRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ghost"})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/auth/profile", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
