package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gov-dx-sandbox/home-inventory/shared/audit"
	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/middleware"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
)

func (h *V1Handler) getMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, user.ToResponse())
}

func (h *V1Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := chi.URLParam(r, "userId")
	resp, err := h.userService.UpdateProfile(r.Context(), user.UserID, userID, &req)
	if err != nil {
		handleServiceError(w, r, err, "update profile")
		return
	}

	middleware.LogAudit(r, audit.ActionUpdate, models.ResourceTypeUsers, userID, nil)
	utils.RespondWithSuccess(w, http.StatusOK, resp)
}

func (h *V1Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.roomService.DashboardStats(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, r, err, "dashboard stats")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, stats)
}
