// Package session keeps dashboard logins in a signed cookie.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fraudguard/fraudguard/pkg/auth"
)

// CookieName is the session cookie.
const CookieName = "fgdash_session"

// Manager issues and checks session cookies holding a JWT.
type Manager struct {
	jwt    *auth.JWTService
	ttl    time.Duration
	secure bool
}

// NewManager creates a Manager signing sessions with an HS256 secret.
func NewManager(secret, issuer string, ttl time.Duration, secure bool) (*Manager, error) {
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:        secret,
		SigningMethod: "HS256",
		Issuer:        issuer,
		Expiration:    ttl,
	})
	if err != nil {
		return nil, fmt.Errorf("session signer: %w", err)
	}
	return &Manager{jwt: svc, ttl: ttl, secure: secure}, nil
}

// Issue sets a session cookie for username.
func (m *Manager) Issue(w http.ResponseWriter, username string) error {
	token, err := m.jwt.GenerateToken(username, []string{auth.RoleAdmin})
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// User returns the logged-in username, if the request carries a valid session.
func (m *Manager) User(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	claims, err := m.jwt.ValidateToken(c.Value)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
