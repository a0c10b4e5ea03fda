package audit

import "encoding/json"

// AuditLogRequest is one audit record for a room, membership, item, claim or user change
type AuditLogRequest struct {
	TraceID   *string `json:"traceId,omitempty"`
	Timestamp string  `json:"timestamp"` // RFC3339, UTC

	EventType   string `json:"eventType"`   // MANAGEMENT_EVENT
	EventAction string `json:"eventAction"` // CREATE, UPDATE, DELETE
	Status      string `json:"status"`      // SUCCESS, FAILURE

	ActorType string `json:"actorType"` // USER, SYSTEM
	ActorID   string `json:"actorId"`

	TargetType string  `json:"targetType"` // ROOMS, ROOM-MEMBERSHIPS, ITEMS, CLAIMS, USERS
	TargetID   *string `json:"targetId,omitempty"`

	// Metadata carries identifiers only, never item descriptions or emails
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Audit log status constants
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Event classification constants
const (
	EventTypeManagement = "MANAGEMENT_EVENT"

	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"

	ActorTypeUser   = "USER"
	ActorTypeSystem = "SYSTEM"
)
