package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/gorm"
)

// BackfillResult summarizes a membership backfill run
type BackfillResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// BackfillOwnerMemberships gives every room's legacy creator an OWNER membership
// when they have none. Rooms where the creator already holds any membership are skipped.
func BackfillOwnerMemberships(ctx context.Context, db *gorm.DB) (*BackfillResult, error) {
	db = db.WithContext(ctx)

	var rooms []models.Room
	if err := db.Select("room_id", "user_id").Order("created_at ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	result := &BackfillResult{Total: len(rooms)}
	for _, room := range rooms {
		var count int64
		if err := db.Model(&models.RoomMembership{}).
			Where("room_id = ? AND user_id = ?", room.RoomID, room.UserID).
			Count(&count).Error; err != nil {
			return result, fmt.Errorf("failed to check membership for room %s: %w", room.RoomID, err)
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		membership := models.RoomMembership{
			MembershipID: models.MembershipIDPrefix + uuid.New().String(),
			RoomID:       room.RoomID,
			UserID:       room.UserID,
			Role:         models.RoleOwner,
		}
		if err := db.Create(&membership).Error; err != nil {
			return result, fmt.Errorf("failed to create membership for room %s: %w", room.RoomID, err)
		}
		slog.Info("Created owner membership", "roomId", room.RoomID, "userId", room.UserID)
		result.Created++
	}
	return result, nil
}
