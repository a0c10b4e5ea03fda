package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/i18n"
	"github.com/gov-dx-sandbox/home-inventory/v1/middleware"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/gov-dx-sandbox/home-inventory/v1/services"
)

const maxBodyBytes = 1 << 20

// respondLocalizedError writes an error body with the message for key in the request locale
func respondLocalizedError(w http.ResponseWriter, r *http.Request, status int, key string) {
	utils.RespondWithError(w, status, i18n.T(i18n.FromContext(r.Context()), key))
}

// NotFound answers unmatched routes with a localized 404
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondLocalizedError(w, r, http.StatusNotFound, "errors.notFound")
}

// MethodNotAllowed answers a known route called with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondLocalizedError(w, r, http.StatusMethodNotAllowed, "errors.methodNotAllowed")
}

// handleServiceError maps a service error onto its HTTP status
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	switch {
	case errors.Is(err, services.ErrLastOwner):
		respondLocalizedError(w, r, http.StatusBadRequest, "errors.lastOwner")
	case services.IsConflictError(err):
		respondLocalizedError(w, r, http.StatusConflict, "errors.conflict")
	case services.IsUnauthenticatedError(err):
		middleware.RespondUnauthenticated(w, r)
	case services.IsNotFoundError(err):
		respondLocalizedError(w, r, http.StatusNotFound, "errors.notFound")
	case services.IsForbiddenError(err):
		respondLocalizedError(w, r, http.StatusForbidden, "errors.forbidden")
	case services.IsValidationError(err):
		message := i18n.T(i18n.FromContext(r.Context()), "errors.badRequest")
		if detail := validationDetail(err); detail != "" {
			message = fmt.Sprintf("%s: %s", message, detail)
		}
		utils.RespondWithError(w, http.StatusBadRequest, message)
	default:
		slog.Error("Request failed", "operation", operation, "path", r.URL.Path, "error", err)
		respondLocalizedError(w, r, http.StatusInternalServerError, "errors.internal")
	}
}

// validationDetail strips the sentinel prefix from a wrapped validation error
func validationDetail(err error) string {
	return strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
}

// currentUser returns the resolved user or answers 401/redirect
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		middleware.RespondUnauthenticated(w, r)
		return nil, false
	}
	return user, true
}

// decodeJSON decodes a bounded JSON body, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondLocalizedError(w, r, http.StatusBadRequest, "errors.invalidBody")
		return false
	}
	return true
}

// isFormPost reports whether the body is an HTML form submission
func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// parseForm parses a bounded form body, answering 400 on failure
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		respondLocalizedError(w, r, http.StatusBadRequest, "errors.invalidBody")
		return false
	}
	return true
}

// wantsHTML reports whether the client is a browser navigation
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
