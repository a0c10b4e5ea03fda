package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccessService answers room membership questions
type AccessService struct {
	db *gorm.DB
}

// NewAccessService creates a new access service
func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// CheckAccess reports whether userID holds one of roles on roomID.
// With no roles given any membership is sufficient.
func (s *AccessService) CheckAccess(ctx context.Context, roomID, userID string, roles ...models.Role) (bool, error) {
	membership, err := findMembership(s.db.WithContext(ctx), roomID, userID)
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return roleAllowed(membership.Role, roles), nil
}

// RequireAccess returns the caller's membership or a classified error:
// ErrNotFound when the room does not exist, ErrForbidden when the caller lacks a qualifying role.
func (s *AccessService) RequireAccess(ctx context.Context, roomID, userID string, roles ...models.Role) (*models.RoomMembership, error) {
	return requireAccess(s.db.WithContext(ctx), roomID, userID, roles...)
}

func roleAllowed(role models.Role, roles []models.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func findMembership(db *gorm.DB, roomID, userID string) (*models.RoomMembership, error) {
	var membership models.RoomMembership
	err := db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: membership", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	return &membership, nil
}

func roomExists(db *gorm.DB, roomID string) (bool, error) {
	var count int64
	if err := db.Model(&models.Room{}).Where("room_id = ?", roomID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to load room: %w", err)
	}
	return count > 0, nil
}

func requireAccess(db *gorm.DB, roomID, userID string, roles ...models.Role) (*models.RoomMembership, error) {
	membership, err := findMembership(db, roomID, userID)
	if err != nil {
		if !IsNotFoundError(err) {
			return nil, err
		}
		exists, existsErr := roomExists(db, roomID)
		if existsErr != nil {
			return nil, existsErr
		}
		if !exists {
			return nil, fmt.Errorf("%w: room %s", ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("%w: no access to room %s", ErrForbidden, roomID)
	}
	if !roleAllowed(membership.Role, roles) {
		return nil, fmt.Errorf("%w: role %s is not permitted", ErrForbidden, membership.Role)
	}
	return membership, nil
}

// lockForUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// SQLite serializes writers at the database level.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// ensureAnotherOwner fails with ErrLastOwner unless the room keeps an OWNER besides excludedUserID.
// Owner rows are locked so concurrent demotions serialize inside their transactions.
func ensureAnotherOwner(tx *gorm.DB, roomID, excludedUserID string) error {
	var owners []models.RoomMembership
	err := lockForUpdate(tx).
		Where("room_id = ? AND role = ?", roomID, models.RoleOwner).
		Find(&owners).Error
	if err != nil {
		return fmt.Errorf("failed to count owners: %w", err)
	}
	for _, owner := range owners {
		if owner.UserID != excludedUserID {
			return nil
		}
	}
	return ErrLastOwner
}
