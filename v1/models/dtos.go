package models

// Request/Response DTOs for V1 API endpoints

// UserResponse is the public view of a user
type UserResponse struct {
	UserID    string  `json:"userId"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Image     *string `json:"image,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name"`
}

// Room DTOs
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// UpdateRoomRequest carries the room ID in the body for PUT /rooms
type UpdateRoomRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DeleteRoomRequest struct {
	ID string `json:"id"`
}

type RoomResponse struct {
	RoomID    string         `json:"roomId"`
	Name      string         `json:"name"`
	UserID    string         `json:"userId"`
	Role      Role           `json:"role,omitempty"`
	ItemCount int64          `json:"itemCount"`
	Items     []ItemResponse `json:"items,omitempty"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// Membership DTOs
type AddCollaboratorRequest struct {
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

type UpdateCollaboratorRequest struct {
	Role Role `json:"role"`
}

type MembershipResponse struct {
	MembershipID string       `json:"membershipId"`
	RoomID       string       `json:"roomId"`
	UserID       string       `json:"userId"`
	Role         Role         `json:"role"`
	User         UserResponse `json:"user"`
	CreatedAt    string       `json:"createdAt"`
}

// Item DTOs
type CreateItemRequest struct {
	Name         string        `json:"name"`
	Brand        string        `json:"brand,omitempty"`
	ModelNumber  string        `json:"modelNumber,omitempty"`
	SerialNumber string        `json:"serialNumber,omitempty"`
	Value        FlexibleValue `json:"value"`
	Description  string        `json:"description,omitempty"`
}

// UpdateItemRequest replaces only the fields that are present
type UpdateItemRequest struct {
	Name         *string        `json:"name,omitempty"`
	Brand        *string        `json:"brand,omitempty"`
	ModelNumber  *string        `json:"modelNumber,omitempty"`
	SerialNumber *string        `json:"serialNumber,omitempty"`
	Value        *FlexibleValue `json:"value,omitempty"`
	Description  *string        `json:"description,omitempty"`
}

type ItemResponse struct {
	ItemID       string  `json:"itemId"`
	RoomID       string  `json:"roomId"`
	RoomName     string  `json:"roomName,omitempty"`
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand,omitempty"`
	ModelNumber  string  `json:"modelNumber,omitempty"`
	SerialNumber string  `json:"serialNumber,omitempty"`
	Value        float64 `json:"value"`
	Description  string  `json:"description,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// Claim DTOs
type CreateClaimRequest struct {
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	IncidentDate  string              `json:"incidentDate"`
	ItemIDs       FlexibleStringSlice `json:"itemIds"`
	Collaborators string              `json:"collaborators,omitempty"`
}

type UpdateClaimStatusRequest struct {
	Status ClaimStatus `json:"status"`
}

type AddCommentRequest struct {
	Body string `json:"body"`
}

type InviteCollaboratorsRequest struct {
	Collaborators string `json:"collaborators"`
}

type ParticipantResponse struct {
	ParticipantID string          `json:"participantId"`
	UserID        string          `json:"userId"`
	Role          ParticipantRole `json:"role"`
	User          UserResponse    `json:"user"`
}

type CommentResponse struct {
	CommentID string       `json:"commentId"`
	Body      string       `json:"body"`
	Author    UserResponse `json:"author"`
	CreatedAt string       `json:"createdAt"`
}

type ClaimResponse struct {
	ClaimID      string                `json:"claimId"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	IncidentDate string                `json:"incidentDate"`
	Status       ClaimStatus           `json:"status"`
	CreatedByID  string                `json:"createdById"`
	Items        []ItemResponse        `json:"items"`
	Participants []ParticipantResponse `json:"participants"`
	Comments     []CommentResponse     `json:"comments"`
	CreatedAt    string                `json:"createdAt"`
	UpdatedAt    string                `json:"updatedAt"`
}

type InviteCollaboratorsResponse struct {
	Added int64 `json:"added"`
}

// DashboardStatsResponse summarizes the rooms a user can access
type DashboardStatsResponse struct {
	RoomCount  int64   `json:"roomCount"`
	ItemCount  int64   `json:"itemCount"`
	TotalValue float64 `json:"totalValue"`
}

type SetLanguageRequest struct {
	Lang string `json:"lang"`
}
