package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gov-dx-sandbox/home-inventory/shared/audit"
	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/middleware"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
)

func (h *V1Handler) listCollaborators(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	members, err := h.membershipService.ListCollaborators(r.Context(), user.UserID, chi.URLParam(r, "roomId"))
	if err != nil {
		handleServiceError(w, r, err, "list collaborators")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, members)
}

func (h *V1Handler) addCollaborator(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AddCollaboratorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	roomID := chi.URLParam(r, "roomId")
	member, err := h.membershipService.AddCollaborator(r.Context(), user.UserID, roomID, &req)
	if err != nil {
		monitoring.RecordBusinessEvent("collaborator_added", "failure")
		handleServiceError(w, r, err, "add collaborator")
		return
	}

	monitoring.RecordBusinessEvent("collaborator_added", "success")
	middleware.LogAudit(r, audit.ActionCreate, models.ResourceTypeMemberships, member.MembershipID,
		map[string]interface{}{"roomId": roomID, "userId": member.UserID, "role": member.Role})
	utils.RespondWithSuccess(w, http.StatusCreated, member)
}

func (h *V1Handler) updateCollaboratorRole(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateCollaboratorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	roomID := chi.URLParam(r, "roomId")
	member, err := h.membershipService.UpdateCollaboratorRole(r.Context(), user.UserID, roomID, chi.URLParam(r, "userId"), req.Role)
	if err != nil {
		handleServiceError(w, r, err, "update collaborator role")
		return
	}

	middleware.LogAudit(r, audit.ActionUpdate, models.ResourceTypeMemberships, member.MembershipID,
		map[string]interface{}{"roomId": roomID, "userId": member.UserID, "role": member.Role})
	utils.RespondWithSuccess(w, http.StatusOK, member)
}

func (h *V1Handler) removeCollaborator(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	roomID := chi.URLParam(r, "roomId")
	targetUserID := chi.URLParam(r, "userId")
	if err := h.membershipService.RemoveCollaborator(r.Context(), user.UserID, roomID, targetUserID); err != nil {
		handleServiceError(w, r, err, "remove collaborator")
		return
	}

	middleware.LogAudit(r, audit.ActionDelete, models.ResourceTypeMemberships, "",
		map[string]interface{}{"roomId": roomID, "userId": targetUserID})
	utils.RespondWithSuccess(w, http.StatusOK, map[string]bool{"success": true})
}
