package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gov-dx-sandbox/home-inventory/v1/auth"
	"github.com/gov-dx-sandbox/home-inventory/v1/i18n"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/gov-dx-sandbox/home-inventory/v1/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	tokens map[string]*models.SessionClaims
}

func (f *fakeVerifier) Verify(token string) (*models.SessionClaims, error) {
	if claims, ok := f.tokens[token]; ok {
		return claims, nil
	}
	return nil, auth.ErrInvalidSession
}

type fakeResolver struct {
	users    map[string]*models.User
	failures map[string]error
}

func (f *fakeResolver) ResolvePrincipal(_ context.Context, email string) (*models.User, error) {
	if err, ok := f.failures[email]; ok {
		return nil, err
	}
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, services.ErrUnauthenticated
}

func newTestAuthMiddleware() *SessionAuthMiddleware {
	alice := &models.User{UserID: "usr_alice", Email: "alice@example.com", Name: "Alice"}
	return NewSessionAuthMiddleware(
		&fakeVerifier{tokens: map[string]*models.SessionClaims{
			"good":   {UserID: "usr_alice", Email: "alice@example.com"},
			"orphan": {UserID: "usr_gone", Email: "gone@example.com"},
			"dbdown": {UserID: "usr_bob", Email: "bob@example.com"},
		}},
		&fakeResolver{
			users:    map[string]*models.User{"alice@example.com": alice},
			failures: map[string]error{"bob@example.com": errors.New("failed to load user: connection refused")},
		},
	)
}

// echoUser writes the resolved user's ID
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	user, err := GetUserFromRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	authUser, ok := GetAuthenticatedUser(r.Context())
	if !ok || authUser.Email != user.Email {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(user.UserID))
})

func TestSessionAuthMiddleware_Authenticate(t *testing.T) {
	handler := newTestAuthMiddleware().Authenticate(echoUser)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bearer token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
			wantStatus: http.StatusOK,
			wantBody:   "usr_alice",
		},
		{
			name:       "session cookie",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "good"}) },
			wantStatus: http.StatusOK,
			wantBody:   "usr_alice",
		},
		{
			name:       "no credentials",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer forged") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "user record missing",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer orphan") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "user lookup fails",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer dbdown") },
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "user lookup fails for browser",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer dbdown")
				r.Header.Set("Accept", "text/html")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestSessionAuthMiddleware_BrowserRedirect(t *testing.T) {
	handler := newTestAuthMiddleware().Authenticate(echoUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pdf", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestSessionAuthMiddleware_LocalizedError(t *testing.T) {
	handler := LocaleMiddleware(newTestAuthMiddleware().Authenticate(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	req.AddCookie(i18n.NewCookie(i18n.Spanish))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, i18n.T(i18n.Spanish, "errors.unauthorized"), body["error"])
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	_, ok := GetUser(ctx)
	assert.False(t, ok)
	_, ok = GetAuthenticatedUser(ctx)
	assert.False(t, ok)

	user := &models.User{UserID: "usr_1"}
	ctx = WithUser(ctx, user)
	got, ok := GetUser(ctx)
	require.True(t, ok)
	assert.Same(t, user, got)

	ctx = WithUser(context.Background(), nil)
	_, ok = GetUser(ctx)
	assert.False(t, ok)
}
