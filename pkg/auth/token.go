package auth

import (
	"sync"
	"time"
)

// TokenSource mints service tokens for outbound calls and reuses each one
// until it is close to expiry.
type TokenSource struct {
	svc     *JWTService
	subject string
	now     func() time.Time

	mu      sync.Mutex
	token   string
	renewAt time.Time
}

// NewTokenSource creates a TokenSource that signs tokens for the named service.
func NewTokenSource(svc *JWTService, serviceName string) *TokenSource {
	return &TokenSource{svc: svc, subject: serviceName, now: time.Now}
}

// Token returns a valid bearer token.
func (ts *TokenSource) Token() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	if ts.token != "" && now.Before(ts.renewAt) {
		return ts.token, nil
	}

	token, err := ts.svc.GenerateToken(ts.subject, []string{RoleService})
	if err != nil {
		return "", err
	}
	ts.token = token
	ts.renewAt = now.Add(ts.svc.config.Expiration * 4 / 5)
	return token, nil
}
