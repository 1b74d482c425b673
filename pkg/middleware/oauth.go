package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"imagehub/pkg/logging"
	"imagehub/pkg/service"

	"github.com/coreos/go-oidc/v3/oidc"
)

type OAuthConfig struct {
	IssuerURL string
	Audience  string
}

type OAuthMiddleware struct {
	verifier *oidc.IDTokenVerifier
	logger   *logging.Logger
}

type AuthClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Scope string `json:"scope"`
}

type contextKey string

const identityKey contextKey = "identity"

// NewOAuthMiddleware discovers the provider at config.IssuerURL. ID tokens
// must carry config.Audience.
func NewOAuthMiddleware(ctx context.Context, config OAuthConfig, logger *logging.Logger) (*OAuthMiddleware, error) {
	provider, err := oidc.NewProvider(ctx, config.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.Audience,
	})

	return NewOAuthMiddlewareWithVerifier(verifier, logger), nil
}

func NewOAuthMiddlewareWithVerifier(verifier *oidc.IDTokenVerifier, logger *logging.Logger) *OAuthMiddleware {
	return &OAuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate rejects requests without a valid bearer ID token and stores
// the caller's service.Identity in the request context.
func (m *OAuthMiddleware) Authenticate(requiredScopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := m.verifier.Verify(ctx, tokenString)
			if err != nil {
				m.logger.Warn(ctx, "token verification failed", "error", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			claims, err := m.extractClaims(token)
			if err != nil || claims.Sub == "" {
				http.Error(w, "failed to extract claims", http.StatusUnauthorized)
				return
			}

			if len(requiredScopes) > 0 && !m.checkScopes(claims.Scope, requiredScopes) {
				m.logger.LogAuthEvent(ctx, "insufficient_scope", claims.Sub, false)
				http.Error(w, "insufficient scope", http.StatusForbidden)
				return
			}

			m.logger.LogAuthEvent(ctx, "authenticated", claims.Sub, true)

			identity := service.Identity{UserID: claims.Sub, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}

func (m *OAuthMiddleware) extractClaims(token *oidc.IDToken) (*AuthClaims, error) {
	var claims AuthClaims
	if err := token.Claims(&claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (m *OAuthMiddleware) checkScopes(tokenScopes string, requiredScopes []string) bool {
	scopes := strings.Fields(tokenScopes)
	scopeMap := make(map[string]bool)
	for _, s := range scopes {
		scopeMap[s] = true
	}

	for _, required := range requiredScopes {
		if !scopeMap[required] {
			return false
		}
	}
	return true
}

func WithIdentity(ctx context.Context, identity service.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated caller, or the zero Identity
// for anonymous requests.
func IdentityFromContext(ctx context.Context) service.Identity {
	if identity, ok := ctx.Value(identityKey).(service.Identity); ok {
		return identity
	}
	return service.Identity{}
}
