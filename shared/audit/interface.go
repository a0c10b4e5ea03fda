package audit

import "context"

// Auditor delivers audit events. LogEvent must not block the caller and must
// return immediately when the sink is disabled or unavailable.
type Auditor interface {
	LogEvent(ctx context.Context, event *AuditLogRequest)
	IsEnabled() bool
}
