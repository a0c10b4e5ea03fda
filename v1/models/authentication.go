package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the claims carried in the session token
type SessionClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AuthenticatedUser represents the authenticated user context
type AuthenticatedUser struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewAuthenticatedUser creates an AuthenticatedUser from session claims
func NewAuthenticatedUser(claims *SessionClaims) *AuthenticatedUser {
	user := &AuthenticatedUser{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}
	return user
}

// IsTokenExpired reports whether the session backing this user has lapsed
func (u *AuthenticatedUser) IsTokenExpired() bool {
	return !u.ExpiresAt.IsZero() && time.Now().After(u.ExpiresAt)
}
