package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	csrfTokenTTL      = 15 * time.Minute
	sessionCookieName = "session_id"
	// CSRFFormField is the form field the share passcode form posts the token in.
	CSRFFormField = "csrf_token"
)

// CSRFTokenManager keeps one token per browser session.
type CSRFTokenManager struct {
	tokens *gocache.Cache
}

func NewCSRFTokenManager() *CSRFTokenManager {
	return &CSRFTokenManager{
		tokens: gocache.New(csrfTokenTTL, 2*csrfTokenTTL),
	}
}

func (c *CSRFTokenManager) GenerateToken(sessionID string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}

	token := base64.URLEncoding.EncodeToString(tokenBytes)
	c.tokens.Set(sessionID, token, gocache.DefaultExpiration)
	return token, nil
}

func (c *CSRFTokenManager) ValidateToken(sessionID, providedToken string) bool {
	stored, ok := c.tokens.Get(sessionID)
	if !ok || providedToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored.(string)), []byte(providedToken)) == 1
}

func (c *CSRFTokenManager) InvalidateToken(sessionID string) {
	c.tokens.Delete(sessionID)
}

// InvalidateForRequest drops the token of the request's session, if any.
func (c *CSRFTokenManager) InvalidateForRequest(r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		c.InvalidateToken(cookie.Value)
	}
}

// IssueForRequest returns the token bound to the request's session, creating
// the session cookie and token if the browser has neither yet.
func (c *CSRFTokenManager) IssueForRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	sessionID := getOrCreateSessionID(w, r)
	if existing, ok := c.tokens.Get(sessionID); ok {
		return existing.(string), nil
	}
	return c.GenerateToken(sessionID)
}

// CSRFMiddleware checks state-changing requests against the session's token.
func CSRFMiddleware(tokenManager *CSRFTokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				sessionID := getOrCreateSessionID(w, r)

				token := r.Header.Get("X-CSRF-Token")
				if token == "" {
					token = r.FormValue(CSRFFormField)
				}

				if !tokenManager.ValidateToken(sessionID, token) {
					http.Error(w, "Invalid CSRF token", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func getOrCreateSessionID(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400,
	})
	return sessionID
}
