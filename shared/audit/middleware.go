package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
)

// AuditMiddleware routes audit events to the configured Auditor
type AuditMiddleware struct {
	client Auditor
}

var (
	globalAuditMiddleware *AuditMiddleware
	globalAuditOnce       sync.Once
)

// NewAuditMiddleware creates a middleware and installs it as the global instance on first call.
// A nil or disabled client turns audit logging into a no-op.
func NewAuditMiddleware(client Auditor) *AuditMiddleware {
	middleware := &AuditMiddleware{client: client}
	globalAuditOnce.Do(func() {
		globalAuditMiddleware = middleware
	})
	return middleware
}

// LogAuditEvent stamps the request trace ID onto the event and forwards it
func (m *AuditMiddleware) LogAuditEvent(ctx context.Context, event *AuditLogRequest) {
	if m.client == nil || !m.client.IsEnabled() || event == nil {
		return
	}
	if event.TraceID == nil {
		if traceID := monitoring.GetTraceIDFromContext(ctx); traceID != "" {
			event.TraceID = &traceID
		}
	}
	m.client.LogEvent(ctx, event)
}

// LogAuditEvent logs through the global audit middleware
func LogAuditEvent(ctx context.Context, event *AuditLogRequest) {
	if globalAuditMiddleware == nil {
		slog.Warn("Global AuditMiddleware is not initialized; audit event not logged")
		return
	}
	globalAuditMiddleware.LogAuditEvent(ctx, event)
}

// ResetGlobalAuditMiddleware clears the global instance. Tests only.
func ResetGlobalAuditMiddleware() {
	globalAuditOnce = sync.Once{}
	globalAuditMiddleware = nil
}
