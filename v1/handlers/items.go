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

func (h *V1Handler) listRoomItems(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	items, err := h.itemService.ListRoomItems(r.Context(), user.UserID, chi.URLParam(r, "roomId"))
	if err != nil {
		handleServiceError(w, r, err, "list room items")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, items)
}

func (h *V1Handler) createItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	roomID := chi.URLParam(r, "roomId")
	item, err := h.itemService.CreateItem(r.Context(), user.UserID, roomID, &req)
	if err != nil {
		monitoring.RecordBusinessEvent("item_created", "failure")
		handleServiceError(w, r, err, "create item")
		return
	}

	monitoring.RecordBusinessEvent("item_created", "success")
	middleware.LogAudit(r, audit.ActionCreate, models.ResourceTypeItems, item.ItemID, map[string]interface{}{"roomId": roomID})
	utils.RespondWithSuccess(w, http.StatusCreated, item)
}

func (h *V1Handler) deleteRoomItem(w http.ResponseWriter, r *http.Request) {
	h.removeItem(w, r, chi.URLParam(r, "itemId"), chi.URLParam(r, "roomId"))
}

func (h *V1Handler) listItems(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	items, err := h.itemService.ListUserItems(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, r, err, "list items")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, items)
}

func (h *V1Handler) getItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(r.Context(), user.UserID, chi.URLParam(r, "itemId"))
	if err != nil {
		handleServiceError(w, r, err, "get item")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, item)
}

func (h *V1Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), user.UserID, chi.URLParam(r, "itemId"), &req)
	if err != nil {
		handleServiceError(w, r, err, "update item")
		return
	}

	middleware.LogAudit(r, audit.ActionUpdate, models.ResourceTypeItems, item.ItemID, map[string]interface{}{"roomId": item.RoomID})
	utils.RespondWithSuccess(w, http.StatusOK, item)
}

func (h *V1Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	h.removeItem(w, r, chi.URLParam(r, "itemId"), "")
}

func (h *V1Handler) removeItem(w http.ResponseWriter, r *http.Request, itemID, roomID string) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), user.UserID, itemID, roomID); err != nil {
		handleServiceError(w, r, err, "delete item")
		return
	}

	monitoring.RecordBusinessEvent("item_deleted", "success")
	middleware.LogAudit(r, audit.ActionDelete, models.ResourceTypeItems, itemID, nil)
	utils.RespondWithSuccess(w, http.StatusOK, map[string]bool{"success": true})
}
