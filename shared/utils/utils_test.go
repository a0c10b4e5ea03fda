package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Run("GetEnvOrDefault_UsesDefault", func(t *testing.T) {
		t.Setenv("HI_TEST_STRING", "")
		assert.Equal(t, "fallback", GetEnvOrDefault("HI_TEST_STRING", "fallback"))
	})

	t.Run("GetEnvOrDefault_UsesValue", func(t *testing.T) {
		t.Setenv("HI_TEST_STRING", "value")
		assert.Equal(t, "value", GetEnvOrDefault("HI_TEST_STRING", "fallback"))
	})

	t.Run("GetEnvBoolOrDefault", func(t *testing.T) {
		for _, v := range []string{"true", "1", "YES", " on "} {
			t.Setenv("HI_TEST_BOOL", v)
			assert.True(t, GetEnvBoolOrDefault("HI_TEST_BOOL", false), v)
		}
		t.Setenv("HI_TEST_BOOL", "nope")
		assert.False(t, GetEnvBoolOrDefault("HI_TEST_BOOL", true))
		t.Setenv("HI_TEST_BOOL", "")
		assert.True(t, GetEnvBoolOrDefault("HI_TEST_BOOL", true))
	})

	t.Run("GetEnvIntOrDefault_InvalidFallsBack", func(t *testing.T) {
		t.Setenv("HI_TEST_INT", "abc")
		assert.Equal(t, 7, GetEnvIntOrDefault("HI_TEST_INT", 7))
		t.Setenv("HI_TEST_INT", "42")
		assert.Equal(t, 42, GetEnvIntOrDefault("HI_TEST_INT", 7))
	})

	t.Run("GetEnvDurationOrDefault", func(t *testing.T) {
		t.Setenv("HI_TEST_DURATION", "90m")
		assert.Equal(t, 90*time.Minute, GetEnvDurationOrDefault("HI_TEST_DURATION", time.Hour))
		t.Setenv("HI_TEST_DURATION", "soon")
		assert.Equal(t, time.Hour, GetEnvDurationOrDefault("HI_TEST_DURATION", time.Hour))
	})
}

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithError(w, http.StatusForbidden, "Forbidden")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden", body["error"])
	assert.Equal(t, http.StatusText(http.StatusForbidden), body["code"])
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	handler := PanicRecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
