package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims for FraudGuard tokens. Subject carries the
// calling service name or the dashboard username.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants
const (
	RoleAdmin    = "admin"
	RoleAnalyst  = "analyst"
	RoleService  = "service"
	RoleObserver = "observer"
)
