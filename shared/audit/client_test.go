package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClient_LogEvent(t *testing.T) {
	var (
		mu       sync.Mutex
		received []AuditLogRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AuditLogsEndpoint, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var event AuditLogRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	t.Setenv("ENABLE_AUDIT", "true")
	client := NewClient(server.URL)
	require.True(t, client.IsEnabled())

	client.LogEvent(context.Background(), NewUserEvent(ActionCreate, "usr_1", "ITEMS", "item_1", nil))
	client.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, ActionCreate, received[0].EventAction)
	assert.Equal(t, "usr_1", received[0].ActorID)
}

func TestClient_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.send(context.Background(), NewUserEvent(ActionDelete, "usr_1", "ROOMS", "room_1", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Disabled(t *testing.T) {
	assert.False(t, NewClient("").IsEnabled())

	t.Setenv("ENABLE_AUDIT", "false")
	client := NewClient("http://audit.local")
	assert.False(t, client.IsEnabled())
	client.LogEvent(context.Background(), NewUserEvent(ActionCreate, "usr_1", "ROOMS", "", nil))
	client.Wait()
}

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) LogEvent(ctx context.Context, event *AuditLogRequest) {
	m.Called(ctx, event)
}

func (m *mockAuditor) IsEnabled() bool {
	return m.Called().Bool(0)
}

func TestLogAuditEvent_StampsTraceID(t *testing.T) {
	ResetGlobalAuditMiddleware()
	defer ResetGlobalAuditMiddleware()

	auditor := new(mockAuditor)
	auditor.On("IsEnabled").Return(true)
	auditor.On("LogEvent", mock.Anything, mock.MatchedBy(func(e *AuditLogRequest) bool {
		return e.TraceID != nil && *e.TraceID == "trace-1"
	})).Once()

	NewAuditMiddleware(auditor)
	ctx := monitoring.WithTraceID(context.Background(), "trace-1")
	LogAuditEvent(ctx, NewUserEvent(ActionUpdate, "usr_1", "CLAIMS", "clm_1", nil))

	auditor.AssertExpectations(t)
}

func TestLogAuditEvent_DisabledAuditorSkipped(t *testing.T) {
	ResetGlobalAuditMiddleware()
	defer ResetGlobalAuditMiddleware()

	auditor := new(mockAuditor)
	auditor.On("IsEnabled").Return(false)
	NewAuditMiddleware(auditor)

	LogAuditEvent(context.Background(), NewUserEvent(ActionUpdate, "usr_1", "CLAIMS", "clm_1", nil))
	auditor.AssertNotCalled(t, "LogEvent", mock.Anything, mock.Anything)
}

func TestLogAuditEvent_Uninitialized(t *testing.T) {
	ResetGlobalAuditMiddleware()
	assert.NotPanics(t, func() {
		LogAuditEvent(context.Background(), NewUserEvent(ActionCreate, "usr_1", "ROOMS", "", nil))
	})
}
