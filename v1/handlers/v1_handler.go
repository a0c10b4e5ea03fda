package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/gov-dx-sandbox/home-inventory/v1/services"
	"gorm.io/gorm"
)

// V1Handler handles all V1 API routes
type V1Handler struct {
	userService       *services.UserService
	roomService       *services.RoomService
	membershipService *services.MembershipService
	itemService       *services.ItemService
	claimService      *services.ClaimService
}

// NewV1Handler creates a new V1 handler
func NewV1Handler(db *gorm.DB) *V1Handler {
	return &V1Handler{
		userService:       services.NewUserService(db),
		roomService:       services.NewRoomService(db),
		membershipService: services.NewMembershipService(db),
		itemService:       services.NewItemService(db),
		claimService:      services.NewClaimService(db),
	}
}

// UserService exposes the identity resolver for the auth layer
func (h *V1Handler) UserService() *services.UserService {
	return h.userService
}

// SetupV1Routes registers the authenticated API routes on r, which is mounted at /api/v1
func (h *V1Handler) SetupV1Routes(r chi.Router) {
	r.Get("/me", h.getMe)
	r.Put("/users/{userId}", h.updateProfile)
	r.Get("/dashboard", h.getDashboard)

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", h.listRooms)
		r.Post("/", h.createRoom)
		r.Put("/", h.updateRoomFromBody)
		r.Delete("/", h.deleteRoomFromBody)

		r.Route("/{roomId}", func(r chi.Router) {
			r.Get("/", h.getRoom)
			r.Patch("/", h.renameRoom)
			r.Put("/", h.renameRoom)

			r.Get("/items", h.listRoomItems)
			r.Post("/items", h.createItem)
			r.Delete("/items/{itemId}", h.deleteRoomItem)

			r.Get("/collaborators", h.listCollaborators)
			r.Post("/collaborators", h.addCollaborator)
			r.Patch("/collaborators/{userId}", h.updateCollaboratorRole)
			r.Delete("/collaborators/{userId}", h.removeCollaborator)
		})
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.listItems)
		r.Get("/{itemId}", h.getItem)
		r.Put("/{itemId}", h.updateItem)
		r.Delete("/{itemId}", h.deleteItem)
	})

	r.Get("/pdf", h.downloadReport)

	r.Route("/claims", func(r chi.Router) {
		r.Get("/", h.listClaims)
		r.Post("/", h.createClaim)
		r.Get("/{claimId}", h.getClaim)
		r.Put("/{claimId}/status", h.updateClaimStatus)
		r.Post("/{claimId}/comments", h.addComment)
		r.Post("/{claimId}/collaborators", h.inviteCollaborators)
	})
}
