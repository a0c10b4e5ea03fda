package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gov-dx-sandbox/home-inventory/v1/middleware"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/gov-dx-sandbox/home-inventory/v1/services"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv holds a router over an in-memory database with a shared room:
// owner (OWNER), editor (EDITOR), viewer (VIEWER) and an outsider with no membership
type testEnv struct {
	db       *gorm.DB
	router   http.Handler
	owner    *models.User
	editor   *models.User
	viewer   *models.User
	outsider *models.User
	room     *models.Room
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := services.SetupSQLiteTestDB(t)

	handler := NewV1Handler(db)
	router := chi.NewRouter()
	router.Use(middleware.LocaleMiddleware)
	router.Route("/api/v1", handler.SetupV1Routes)
	router.Get("/language", GetLanguage)
	router.Post("/language", SetLanguage)

	env := &testEnv{
		db:       db,
		router:   router,
		owner:    services.CreateTestUser(t, db, "owner@example.com"),
		editor:   services.CreateTestUser(t, db, "editor@example.com"),
		viewer:   services.CreateTestUser(t, db, "viewer@example.com"),
		outsider: services.CreateTestUser(t, db, "outsider@example.com"),
	}
	env.room = services.CreateTestRoom(t, db, env.owner, "Living Room")
	services.AddTestMember(t, db, env.room.RoomID, env.editor, models.RoleEditor)
	services.AddTestMember(t, db, env.room.RoomID, env.viewer, models.RoleViewer)
	return env
}

// WithAuth attaches user to the request as if the session middleware had resolved it
func WithAuth(req *http.Request, user *models.User) *http.Request {
	if user == nil {
		return req
	}
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func (e *testEnv) do(t *testing.T, user *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, WithAuth(req, user))
	return rec
}

func (e *testEnv) doForm(t *testing.T, user *models.User, path string, form url.Values, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, WithAuth(req, user))
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
