package middleware

import (
	"net/http"

	"github.com/gov-dx-sandbox/home-inventory/shared/audit"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
)

// LogAudit records a successful management event for the request's user.
// Requests without a resolved user are not audited.
func LogAudit(r *http.Request, action string, targetType models.ResourceType, targetID string, metadata map[string]interface{}) {
	user, ok := GetUser(r.Context())
	if !ok {
		return
	}
	event := audit.NewUserEvent(action, user.UserID, string(targetType), targetID, metadata)
	audit.LogAuditEvent(r.Context(), event)
}
