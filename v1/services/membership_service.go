package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/gorm"
)

// MembershipService manages room collaborators
type MembershipService struct {
	db *gorm.DB
}

// NewMembershipService creates a new membership service
func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// ListCollaborators returns the room's memberships, OWNER first then EDITOR then VIEWER,
// oldest first within a role. Any member may list.
func (s *MembershipService) ListCollaborators(ctx context.Context, actorID, roomID string) ([]models.MembershipResponse, error) {
	db := s.db.WithContext(ctx)
	if _, err := requireAccess(db, roomID, actorID); err != nil {
		return nil, err
	}

	var memberships []models.RoomMembership
	err := db.Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load collaborators: %w", err)
	}

	slices.SortStableFunc(memberships, func(a, b models.RoomMembership) int {
		return a.Role.Rank() - b.Role.Rank()
	})

	responses := make([]models.MembershipResponse, 0, len(memberships))
	for i := range memberships {
		responses = append(responses, memberships[i].ToResponse())
	}
	return responses, nil
}

// AddCollaborator grants an existing user access to a room; OWNER only.
// Unknown emails are ErrNotFound: room sharing never provisions users.
func (s *MembershipService) AddCollaborator(ctx context.Context, actorID, roomID string, req *models.AddCollaboratorRequest) (*models.MembershipResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = models.RoleViewer
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, role)
	}

	var membership models.RoomMembership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireAccess(tx, roomID, actorID, models.OwnerRoles...); err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, "email = ?", email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no user with email %s", ErrNotFound, email)
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		if _, err := findMembership(tx, roomID, user.UserID); err == nil {
			return fmt.Errorf("%w: user is already a collaborator", ErrConflict)
		} else if !IsNotFoundError(err) {
			return err
		}

		membership = models.RoomMembership{
			MembershipID: models.MembershipIDPrefix + uuid.New().String(),
			RoomID:       roomID,
			UserID:       user.UserID,
			Role:         role,
		}
		if err := tx.Create(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: user is already a collaborator", ErrConflict)
			}
			return fmt.Errorf("failed to create membership: %w", err)
		}
		membership.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Collaborator added", "roomId", roomID, "userId", membership.UserID, "role", role)
	resp := membership.ToResponse()
	return &resp, nil
}

// UpdateCollaboratorRole changes a member's role; OWNER only.
// Demoting the last OWNER fails with ErrLastOwner. Check and update share one transaction.
func (s *MembershipService) UpdateCollaboratorRole(ctx context.Context, actorID, roomID, targetUserID string, role models.Role) (*models.MembershipResponse, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, role)
	}

	var membership *models.RoomMembership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireAccess(tx, roomID, actorID, models.OwnerRoles...); err != nil {
			return err
		}

		target, err := findMembership(tx, roomID, targetUserID)
		if err != nil {
			return err
		}

		if target.Role == models.RoleOwner && role != models.RoleOwner {
			if err := ensureAnotherOwner(tx, roomID, targetUserID); err != nil {
				return err
			}
		}

		if err := tx.Model(target).Update("role", role).Error; err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}
		target.Role = role

		if err := tx.First(&target.User, "user_id = ?", targetUserID).Error; err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		membership = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Collaborator role changed", "roomId", roomID, "userId", targetUserID, "role", role)
	resp := membership.ToResponse()
	return &resp, nil
}

// RemoveCollaborator deletes a membership. Owners may remove anyone; any member may remove themselves.
// Removing the last OWNER fails with ErrLastOwner.
func (s *MembershipService) RemoveCollaborator(ctx context.Context, actorID, roomID, targetUserID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if actorID == targetUserID {
			if _, err := requireAccess(tx, roomID, actorID); err != nil {
				return err
			}
		} else if _, err := requireAccess(tx, roomID, actorID, models.OwnerRoles...); err != nil {
			return err
		}

		target, err := findMembership(tx, roomID, targetUserID)
		if err != nil {
			return err
		}

		if target.Role == models.RoleOwner {
			if err := ensureAnotherOwner(tx, roomID, targetUserID); err != nil {
				return err
			}
		}

		if err := tx.Delete(target).Error; err != nil {
			return fmt.Errorf("failed to delete membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Collaborator removed", "roomId", roomID, "userId", targetUserID, "actorId", actorID)
	return nil
}
