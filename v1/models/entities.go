package models

import "time"

// User represents the users table
type User struct {
	UserID string  `gorm:"primarykey;column:user_id" json:"userId"`
	Email  string  `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name   string  `gorm:"column:name" json:"name"`
	Image  *string `gorm:"column:image" json:"image,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (User) TableName() string {
	return "users"
}

// Room represents the rooms table.
// UserID is the legacy creator column; access is governed by Memberships.
type Room struct {
	RoomID string `gorm:"primarykey;column:room_id" json:"roomId"`
	Name   string `gorm:"column:name;not null" json:"name"`
	UserID string `gorm:"column:user_id;not null;index" json:"userId"`
	BaseModel

	// Relationships
	Items       []Item           `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Memberships []RoomMembership `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
}

// TableName sets the table name for GORM
func (Room) TableName() string {
	return "rooms"
}

// RoomMembership represents the room_memberships table
type RoomMembership struct {
	MembershipID string `gorm:"primarykey;column:membership_id" json:"membershipId"`
	RoomID       string `gorm:"column:room_id;not null;uniqueIndex:idx_room_user" json:"roomId"`
	UserID       string `gorm:"column:user_id;not null;uniqueIndex:idx_room_user;index" json:"userId"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null;default:'VIEWER'" json:"role"`
	BaseModel

	// Relationships
	User User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"user"`
}

// TableName sets the table name for GORM
func (RoomMembership) TableName() string {
	return "room_memberships"
}

// Item represents the items table
type Item struct {
	ItemID       string  `gorm:"primarykey;column:item_id" json:"itemId"`
	RoomID       string  `gorm:"column:room_id;not null;index" json:"roomId"`
	UserID       string  `gorm:"column:user_id;not null;index" json:"userId"`
	Name         string  `gorm:"column:name;not null" json:"name"`
	Brand        string  `gorm:"column:brand" json:"brand,omitempty"`
	ModelNumber  string  `gorm:"column:model_number" json:"modelNumber,omitempty"`
	SerialNumber string  `gorm:"column:serial_number" json:"serialNumber,omitempty"`
	Value        float64 `gorm:"column:value;not null;default:0" json:"value"`
	Description  string  `gorm:"column:description" json:"description,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (Item) TableName() string {
	return "items"
}

// Claim represents the claims table
type Claim struct {
	ClaimID      string      `gorm:"primarykey;column:claim_id" json:"claimId"`
	Title        string      `gorm:"column:title;not null" json:"title"`
	Description  string      `gorm:"column:description" json:"description"`
	IncidentDate time.Time   `gorm:"column:incident_date;not null" json:"incidentDate"`
	Status       ClaimStatus `gorm:"column:status;type:varchar(32);not null;default:'DRAFT'" json:"status"`
	CreatedByID  string      `gorm:"column:created_by_id;not null;index" json:"createdById"`
	BaseModel

	// Relationships
	Items        []ClaimItem        `gorm:"foreignKey:ClaimID;references:ClaimID;constraint:OnDelete:CASCADE" json:"items"`
	Participants []ClaimParticipant `gorm:"foreignKey:ClaimID;references:ClaimID;constraint:OnDelete:CASCADE" json:"participants"`
	Comments     []ClaimComment     `gorm:"foreignKey:ClaimID;references:ClaimID;constraint:OnDelete:CASCADE" json:"comments"`
}

// TableName sets the table name for GORM
func (Claim) TableName() string {
	return "claims"
}

// ClaimParticipant represents the claim_participants table
type ClaimParticipant struct {
	ParticipantID string          `gorm:"primarykey;column:participant_id" json:"participantId"`
	ClaimID       string          `gorm:"column:claim_id;not null;uniqueIndex:idx_claim_user" json:"claimId"`
	UserID        string          `gorm:"column:user_id;not null;uniqueIndex:idx_claim_user;index" json:"userId"`
	Role          ParticipantRole `gorm:"column:role;type:varchar(20);not null;default:'COLLABORATOR'" json:"role"`
	BaseModel

	// Relationships
	User User `gorm:"foreignKey:UserID;references:UserID" json:"user"`
}

// TableName sets the table name for GORM
func (ClaimParticipant) TableName() string {
	return "claim_participants"
}

// ClaimItem represents the claim_items join table
type ClaimItem struct {
	ClaimItemID string `gorm:"primarykey;column:claim_item_id" json:"claimItemId"`
	ClaimID     string `gorm:"column:claim_id;not null;uniqueIndex:idx_claim_item" json:"claimId"`
	ItemID      string `gorm:"column:item_id;not null;uniqueIndex:idx_claim_item;index" json:"itemId"`
	BaseModel

	// Relationships
	Item Item `gorm:"foreignKey:ItemID;references:ItemID;constraint:OnDelete:CASCADE" json:"item"`
}

// TableName sets the table name for GORM
func (ClaimItem) TableName() string {
	return "claim_items"
}

// ClaimComment represents the claim_comments table
type ClaimComment struct {
	CommentID string `gorm:"primarykey;column:comment_id" json:"commentId"`
	ClaimID   string `gorm:"column:claim_id;not null;index" json:"claimId"`
	AuthorID  string `gorm:"column:author_id;not null" json:"authorId"`
	Body      string `gorm:"column:body;not null" json:"body"`
	BaseModel

	// Relationships
	Author User `gorm:"foreignKey:AuthorID;references:UserID" json:"author"`
}

// TableName sets the table name for GORM
func (ClaimComment) TableName() string {
	return "claim_comments"
}

// AllModels lists every table for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Room{},
		&RoomMembership{},
		&Item{},
		&Claim{},
		&ClaimParticipant{},
		&ClaimItem{},
		&ClaimComment{},
	}
}
