package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gov-dx-sandbox/home-inventory/shared/audit"
	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/middleware"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
)

// claimsPagePath is where browser form posts land after a claim change
const claimsPagePath = "/collaboration"

// respondClaimChange redirects HTML form posts back to the claims page and returns JSON otherwise
func respondClaimChange(w http.ResponseWriter, r *http.Request, status int, createdID string, body interface{}) {
	if isFormPost(r) && wantsHTML(r) {
		target := claimsPagePath
		if createdID != "" {
			target += "?created=" + url.QueryEscape(createdID)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	utils.RespondWithSuccess(w, status, body)
}

// decodeCreateClaim reads a claim from JSON or from form fields with repeated itemIds
func decodeCreateClaim(w http.ResponseWriter, r *http.Request) (*models.CreateClaimRequest, bool) {
	var req models.CreateClaimRequest
	if !isFormPost(r) {
		if !decodeJSON(w, r, &req) {
			return nil, false
		}
		return &req, true
	}

	if !parseForm(w, r) {
		return nil, false
	}
	req.Title = r.PostForm.Get("title")
	req.Description = r.PostForm.Get("description")
	req.IncidentDate = r.PostForm.Get("incidentDate")
	req.ItemIDs = models.FlexibleStringSlice(r.PostForm["itemIds"])
	req.Collaborators = r.PostForm.Get("collaborators")
	return &req, true
}

// decodeFormOrJSON fills field from the form value named key or from the JSON body into v
func decodeFormOrJSON(w http.ResponseWriter, r *http.Request, key string, field *string, v interface{}) bool {
	if !isFormPost(r) {
		return decodeJSON(w, r, v)
	}
	if !parseForm(w, r) {
		return false
	}
	*field = r.PostForm.Get(key)
	return true
}

func (h *V1Handler) listClaims(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	claims, err := h.claimService.ListClaimsForUser(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, r, err, "list claims")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, claims)
}

func (h *V1Handler) createClaim(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	req, ok := decodeCreateClaim(w, r)
	if !ok {
		return
	}

	claim, err := h.claimService.CreateClaim(r.Context(), user, req)
	if err != nil {
		monitoring.RecordBusinessEvent("claim_created", "failure")
		handleServiceError(w, r, err, "create claim")
		return
	}

	monitoring.RecordBusinessEvent("claim_created", "success")
	middleware.LogAudit(r, audit.ActionCreate, models.ResourceTypeClaims, claim.ClaimID,
		map[string]interface{}{"itemCount": len(claim.Items), "participantCount": len(claim.Participants)})
	respondClaimChange(w, r, http.StatusCreated, claim.ClaimID, claim)
}

func (h *V1Handler) getClaim(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	claim, err := h.claimService.GetClaim(r.Context(), user.UserID, chi.URLParam(r, "claimId"))
	if err != nil {
		handleServiceError(w, r, err, "get claim")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, claim)
}

func (h *V1Handler) updateClaimStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateClaimStatusRequest
	var status string
	if !decodeFormOrJSON(w, r, "status", &status, &req) {
		return
	}
	if status != "" {
		req.Status = models.ClaimStatus(status)
	}
	req.Status = models.ClaimStatus(strings.TrimSpace(string(req.Status)))

	claimID := chi.URLParam(r, "claimId")
	claim, err := h.claimService.UpdateStatus(r.Context(), user.UserID, claimID, req.Status)
	if err != nil {
		handleServiceError(w, r, err, "update claim status")
		return
	}

	monitoring.RecordBusinessEvent("claim_status_changed", strings.ToLower(string(claim.Status)))
	middleware.LogAudit(r, audit.ActionUpdate, models.ResourceTypeClaims, claimID,
		map[string]interface{}{"status": claim.Status})
	respondClaimChange(w, r, http.StatusOK, "", claim)
}

func (h *V1Handler) addComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AddCommentRequest
	if !decodeFormOrJSON(w, r, "body", &req.Body, &req) {
		return
	}

	claimID := chi.URLParam(r, "claimId")
	comment, err := h.claimService.AddComment(r.Context(), user.UserID, claimID, req.Body)
	if err != nil {
		handleServiceError(w, r, err, "add comment")
		return
	}

	middleware.LogAudit(r, audit.ActionCreate, models.ResourceTypeClaims, claimID,
		map[string]interface{}{"commentId": comment.CommentID})
	respondClaimChange(w, r, http.StatusCreated, "", comment)
}

func (h *V1Handler) inviteCollaborators(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.InviteCollaboratorsRequest
	if !decodeFormOrJSON(w, r, "collaborators", &req.Collaborators, &req) {
		return
	}

	claimID := chi.URLParam(r, "claimId")
	added, err := h.claimService.InviteCollaborators(r.Context(), user, claimID, req.Collaborators)
	if err != nil {
		handleServiceError(w, r, err, "invite collaborators")
		return
	}

	middleware.LogAudit(r, audit.ActionUpdate, models.ResourceTypeClaims, claimID,
		map[string]interface{}{"participantsAdded": added})
	respondClaimChange(w, r, http.StatusOK, "", models.InviteCollaboratorsResponse{Added: added})
}
