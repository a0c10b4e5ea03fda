package models

// Role is the access level a user holds on a room
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// IsValid reports whether r is one of the known room roles
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Rank orders roles OWNER, EDITOR, VIEWER for listings
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 0
	case RoleEditor:
		return 1
	case RoleViewer:
		return 2
	}
	return 3
}

// Role sets used by access checks
var (
	WriteRoles = []Role{RoleOwner, RoleEditor}
	OwnerRoles = []Role{RoleOwner}
)

// ClaimStatus represents the lifecycle state of an insurance claim
type ClaimStatus string

const (
	ClaimStatusDraft             ClaimStatus = "DRAFT"
	ClaimStatusGatheringEvidence ClaimStatus = "GATHERING_EVIDENCE"
	ClaimStatusSubmitted         ClaimStatus = "SUBMITTED"
	ClaimStatusApproved          ClaimStatus = "APPROVED"
	ClaimStatusRejected          ClaimStatus = "REJECTED"
)

// IsValid reports whether s is one of the known claim statuses
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusDraft, ClaimStatusGatheringEvidence, ClaimStatusSubmitted, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// ParticipantRole is the role of a user on a claim
type ParticipantRole string

const (
	ParticipantRoleOwner        ParticipantRole = "OWNER"
	ParticipantRoleCollaborator ParticipantRole = "COLLABORATOR"
)

// ResourceType names audited resources
type ResourceType string

const (
	ResourceTypeRooms       ResourceType = "ROOMS"
	ResourceTypeMemberships ResourceType = "ROOM-MEMBERSHIPS"
	ResourceTypeItems       ResourceType = "ITEMS"
	ResourceTypeClaims      ResourceType = "CLAIMS"
	ResourceTypeUsers       ResourceType = "USERS"
)

// ID prefixes for generated primary keys
const (
	UserIDPrefix        = "usr_"
	RoomIDPrefix        = "room_"
	MembershipIDPrefix  = "mem_"
	ItemIDPrefix        = "item_"
	ClaimIDPrefix       = "clm_"
	ParticipantIDPrefix = "cpt_"
	ClaimItemIDPrefix   = "cli_"
	CommentIDPrefix     = "cmt_"
)

// Field length constraints
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 2000
	MaxEmailLength       = 320 // RFC 3696
	MaxCommentLength     = 4000
)
