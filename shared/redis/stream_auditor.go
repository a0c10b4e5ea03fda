package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gov-dx-sandbox/home-inventory/shared/audit"
	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
)

// DefaultAuditStream is the stream audit events are appended to
const DefaultAuditStream = "inventory-audit-events"

const publishTimeout = 5 * time.Second

// Publisher appends a field map to a stream
type Publisher interface {
	PublishAuditEvent(ctx context.Context, streamName string, data map[string]interface{}) (string, error)
}

// StreamAuditor is an audit.Auditor that appends events to a Redis stream
type StreamAuditor struct {
	publisher Publisher
	stream    string
	inflight  sync.WaitGroup
}

// NewStreamAuditor creates an auditor publishing to stream, or DefaultAuditStream when empty
func NewStreamAuditor(publisher Publisher, stream string) *StreamAuditor {
	if stream == "" {
		stream = DefaultAuditStream
	}
	return &StreamAuditor{publisher: publisher, stream: stream}
}

// IsEnabled reports whether a publisher is configured
func (a *StreamAuditor) IsEnabled() bool {
	return a.publisher != nil
}

// LogEvent publishes event in the background
func (a *StreamAuditor) LogEvent(_ context.Context, event *audit.AuditLogRequest) {
	if a.publisher == nil || event == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal audit event", "error", err)
		return
	}
	fields := map[string]interface{}{
		"eventAction": event.EventAction,
		"targetType":  event.TargetType,
		"actorId":     event.ActorID,
		"payload":     string(payload),
	}

	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		start := time.Now()
		_, err := a.publisher.PublishAuditEvent(ctx, a.stream, fields)
		monitoring.RecordExternalCall("redis", "xadd", time.Since(start), err)
		if err != nil {
			slog.Error("Failed to publish audit event", "error", err, "stream", a.stream)
		}
	}()
}

// Wait blocks until every in-flight publish has finished
func (a *StreamAuditor) Wait() {
	a.inflight.Wait()
}

var _ audit.Auditor = (*StreamAuditor)(nil)
