package audit

import (
	"encoding/json"
	"log/slog"
	"time"
)

// MarshalMetadata marshals metadata to json.RawMessage.
// Returns nil for nil metadata and "{}" if marshaling fails.
func MarshalMetadata(metadata map[string]interface{}) json.RawMessage {
	if metadata == nil {
		return nil
	}
	bytes, err := json.Marshal(metadata)
	if err != nil {
		slog.Error("Failed to marshal metadata for audit", "error", err)
		return json.RawMessage("{}")
	}
	return json.RawMessage(bytes)
}

// CurrentTimestamp returns current UTC time in RFC3339 format
func CurrentTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NewUserEvent builds a successful management event performed by a user
func NewUserEvent(action, actorID, targetType, targetID string, metadata map[string]interface{}) *AuditLogRequest {
	event := &AuditLogRequest{
		Timestamp:   CurrentTimestamp(),
		EventType:   EventTypeManagement,
		EventAction: action,
		Status:      StatusSuccess,
		ActorType:   ActorTypeUser,
		ActorID:     actorID,
		TargetType:  targetType,
		Metadata:    MarshalMetadata(metadata),
	}
	if targetID != "" {
		event.TargetID = &targetID
	}
	return event
}
