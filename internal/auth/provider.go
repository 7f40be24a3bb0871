package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"skybook/internal/config"
	"skybook/internal/logger"
	"skybook/internal/models"
)

// Provider is the HTTP client for the managed auth backend. It owns
// credential checks and identity provisioning; this service never sees a
// password hash.
type Provider struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	client         *http.Client
	log            *logger.Logger
}

func NewProvider(cfg config.AuthConfig, client *http.Client, log *logger.Logger) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		baseURL:        cfg.BackendURL,
		anonKey:        cfg.AnonKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		client:         client,
		log:            log,
	}
}

type providerUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// GetUser resolves the identity behind a raw access token by round-tripping
// it to the backend's user endpoint.
func (p *Provider) GetUser(ctx context.Context, token string) (*models.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", p.anonKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.ErrUnauthorized
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	if user.ID == "" {
		return nil, models.ErrUnauthorized
	}

	role := user.Role
	if role == "" {
		role = "user"
	}
	return &models.Identity{ID: user.ID, Email: user.Email, Role: role}, nil
}

// AdminCreateUser provisions an auth identity through the administrative
// endpoint, skipping email confirmation. Requires the service role key.
func (p *Provider) AdminCreateUser(ctx context.Context, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/admin/users", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.serviceRoleKey)
	req.Header.Set("apikey", p.serviceRoleKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(resp.Body)
		p.log.Error("AUTH", fmt.Sprintf("admin user creation failed with status %d: %s", resp.StatusCode, detail))
		return "", fmt.Errorf("auth backend rejected user creation: status %d", resp.StatusCode)
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("failed to decode created user: %w", err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("no user id returned from auth backend")
	}
	return user.ID, nil
}

// PasswordGrant exchanges credentials for a session. The backend does the
// actual check; any rejection is reported as invalid credentials.
func (p *Provider) PasswordGrant(ctx context.Context, email, password string) (*models.Session, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.ErrInvalidCredentials
	}

	var session models.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}
