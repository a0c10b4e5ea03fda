package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gov-dx-sandbox/home-inventory/v1/models"
)

// contextKey is a custom type for context keys used with context.WithValue
type contextKey string

const (
	authenticatedUserKey contextKey = "authenticatedUser"
	userKey              contextKey = "user"
)

// WithAuthenticatedUser stores the verified session principal in ctx
func WithAuthenticatedUser(ctx context.Context, user *models.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authenticatedUserKey, user)
}

// GetAuthenticatedUser returns the verified session principal
func GetAuthenticatedUser(ctx context.Context) (*models.AuthenticatedUser, bool) {
	user, ok := ctx.Value(authenticatedUserKey).(*models.AuthenticatedUser)
	return user, ok && user != nil
}

// WithUser stores the resolved user record in ctx
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the resolved user record
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// GetUserFromRequest returns the resolved user or an error when the request is unauthenticated
func GetUserFromRequest(r *http.Request) (*models.User, error) {
	user, ok := GetUser(r.Context())
	if !ok {
		return nil, fmt.Errorf("user not found in request context")
	}
	return user, nil
}
