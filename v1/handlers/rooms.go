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

func (h *V1Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListRooms(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, r, err, "list rooms")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, rooms)
}

func (h *V1Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), user.UserID, &req)
	if err != nil {
		monitoring.RecordBusinessEvent("room_created", "failure")
		handleServiceError(w, r, err, "create room")
		return
	}

	monitoring.RecordBusinessEvent("room_created", "success")
	middleware.LogAudit(r, audit.ActionCreate, models.ResourceTypeRooms, room.RoomID, nil)
	utils.RespondWithSuccess(w, http.StatusCreated, room)
}

func (h *V1Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(r.Context(), user.UserID, chi.URLParam(r, "roomId"))
	if err != nil {
		handleServiceError(w, r, err, "get room")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, room)
}

// updateRoomFromBody handles PUT /rooms with the room ID in the body
func (h *V1Handler) updateRoomFromBody(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.updateRoom(w, r, req.ID, req.Name)
}

// renameRoom handles PATCH and PUT /rooms/{roomId}
func (h *V1Handler) renameRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.updateRoom(w, r, chi.URLParam(r, "roomId"), req.Name)
}

func (h *V1Handler) updateRoom(w http.ResponseWriter, r *http.Request, roomID, name string) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	room, err := h.roomService.UpdateRoom(r.Context(), user.UserID, roomID, name)
	if err != nil {
		handleServiceError(w, r, err, "update room")
		return
	}

	middleware.LogAudit(r, audit.ActionUpdate, models.ResourceTypeRooms, room.RoomID, nil)
	utils.RespondWithSuccess(w, http.StatusOK, room)
}

// deleteRoomFromBody handles DELETE /rooms with the room ID in the body
func (h *V1Handler) deleteRoomFromBody(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.DeleteRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.roomService.DeleteRoom(r.Context(), user.UserID, req.ID); err != nil {
		handleServiceError(w, r, err, "delete room")
		return
	}

	monitoring.RecordBusinessEvent("room_deleted", "success")
	middleware.LogAudit(r, audit.ActionDelete, models.ResourceTypeRooms, req.ID, nil)
	utils.RespondWithSuccess(w, http.StatusOK, map[string]bool{"success": true})
}
