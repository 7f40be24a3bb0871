package auth

import (
	"context"
	"fmt"
	"net/http"

	"skybook/internal/config"
	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/utils"

	"github.com/coreos/go-oidc/v3/oidc"
)

type contextKey string

const identityKey contextKey = "identity"

// Verifier turns a raw bearer token into a resolved identity.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*models.Identity, error)
}

// LocalVerifier trusts the token's claim set without checking the
// signature.
type LocalVerifier struct{}

func (LocalVerifier) Verify(_ context.Context, rawToken string) (*models.Identity, error) {
	return ExtractIdentityFromJWT(rawToken)
}

// BackendVerifier forwards the token to the auth backend and trusts its
// answer. Verified identities are cached briefly.
type BackendVerifier struct {
	Provider *Provider
	Cache    *IdentityCache
}

func (v *BackendVerifier) Verify(ctx context.Context, rawToken string) (*models.Identity, error) {
	if cached, err := v.Cache.Get(ctx, rawToken); err == nil && cached != nil {
		return cached, nil
	}

	identity, err := v.Provider.GetUser(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	_ = v.Cache.Set(ctx, rawToken, identity)
	return identity, nil
}

// OIDCVerifier checks the token signature against the issuer's published
// keys before trusting any claim.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCVerifier(ctx context.Context, issuer string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{SkipClientIDCheck: true}),
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*models.Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	if claims.Sub == "" {
		return nil, models.ErrUnauthorized
	}

	role := claims.Role
	if role == "" {
		role = "user"
	}
	return &models.Identity{ID: claims.Sub, Email: claims.Email, Role: role}, nil
}

// NewVerifier builds the verifier for the configured auth mode.
func NewVerifier(ctx context.Context, cfg config.AuthConfig, provider *Provider, cache *IdentityCache, log *logger.Logger) (Verifier, error) {
	switch cfg.Mode {
	case "local":
		log.LogSecurity("AUTH_MODE", "local token decode enabled: signatures are NOT verified")
		return LocalVerifier{}, nil
	case "backend":
		return &BackendVerifier{Provider: provider, Cache: cache}, nil
	case "oidc":
		return NewOIDCVerifier(ctx, cfg.Issuer)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// Middleware rejects requests without a valid bearer token and attaches
// the resolved identity to the request context.
func Middleware(verifier Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractTokenFromRequest(r)
			if err != nil {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", err.Error()))
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.LogSecurity("TOKEN_REJECTED", err.Error())
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIdentity returns the identity attached by Middleware, or nil on
// an unauthenticated request.
func RequestIdentity(ctx context.Context) *models.Identity {
	if identity, ok := ctx.Value(identityKey).(*models.Identity); ok {
		return identity
	}
	return nil
}
