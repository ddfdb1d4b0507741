package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by loanrisk callers.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// CanActFor reports whether the caller may operate on the applicant with the
// given ID: administrators may act for anyone, users only for themselves.
func (c Claims) CanActFor(applicantID string) bool {
	if c.HasRole(RoleAdmin) {
		return true
	}
	return c.UserID != "" && c.UserID == applicantID
}

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
