package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/gorm"
)

// RoomService handles room operations
type RoomService struct {
	db *gorm.DB
}

// NewRoomService creates a new room service
func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

func validateRoomName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if len(name) > models.MaxNameLength {
		return "", fmt.Errorf("%w: room name must be at most %d characters", ErrValidation, models.MaxNameLength)
	}
	return name, nil
}

func toRoomResponse(room *models.Room, role models.Role, itemCount int64) models.RoomResponse {
	return models.RoomResponse{
		RoomID:    room.RoomID,
		Name:      room.Name,
		UserID:    room.UserID,
		Role:      role,
		ItemCount: itemCount,
		CreatedAt: room.CreatedAt.Format(time.RFC3339),
		UpdatedAt: room.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateRoom creates a room and an OWNER membership for its creator in one transaction
func (s *RoomService) CreateRoom(ctx context.Context, userID string, req *models.CreateRoomRequest) (*models.RoomResponse, error) {
	name, err := validateRoomName(req.Name)
	if err != nil {
		return nil, err
	}

	room := models.Room{
		RoomID: models.RoomIDPrefix + uuid.New().String(),
		Name:   name,
		UserID: userID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		membership := models.RoomMembership{
			MembershipID: models.MembershipIDPrefix + uuid.New().String(),
			RoomID:       room.RoomID,
			UserID:       userID,
			Role:         models.RoleOwner,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Room created", "roomId", room.RoomID, "userId", userID)
	resp := toRoomResponse(&room, models.RoleOwner, 0)
	return &resp, nil
}

// GetRoom returns a room with its items for any member
func (s *RoomService) GetRoom(ctx context.Context, userID, roomID string) (*models.RoomResponse, error) {
	db := s.db.WithContext(ctx)
	membership, err := requireAccess(db, roomID, userID)
	if err != nil {
		return nil, err
	}

	var room models.Room
	err = db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&room, "room_id = ?", roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %s", ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to load room: %w", err)
	}

	resp := toRoomResponse(&room, membership.Role, int64(len(room.Items)))
	resp.Items = make([]models.ItemResponse, 0, len(room.Items))
	for i := range room.Items {
		resp.Items = append(resp.Items, room.Items[i].ToResponse(room.Name))
	}
	return &resp, nil
}

// ListRooms returns every room the user is a member of, with item counts
func (s *RoomService) ListRooms(ctx context.Context, userID string) ([]models.RoomResponse, error) {
	db := s.db.WithContext(ctx)

	var memberships []models.RoomMembership
	if err := db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	if len(memberships) == 0 {
		return []models.RoomResponse{}, nil
	}

	roles := make(map[string]models.Role, len(memberships))
	roomIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		roles[m.RoomID] = m.Role
		roomIDs = append(roomIDs, m.RoomID)
	}

	var rooms []models.Room
	if err := db.Where("room_id IN ?", roomIDs).Order("created_at ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	type itemCount struct {
		RoomID string
		Count  int64
	}
	var counts []itemCount
	err := db.Model(&models.Item{}).
		Select("room_id, COUNT(*) AS count").
		Where("room_id IN ?", roomIDs).
		Group("room_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}
	countByRoom := make(map[string]int64, len(counts))
	for _, c := range counts {
		countByRoom[c.RoomID] = c.Count
	}

	responses := make([]models.RoomResponse, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		responses = append(responses, toRoomResponse(room, roles[room.RoomID], countByRoom[room.RoomID]))
	}
	return responses, nil
}

// ListRoomsWithItems loads the user's rooms with items for reporting
func (s *RoomService) ListRoomsWithItems(ctx context.Context, userID string) ([]models.Room, error) {
	db := s.db.WithContext(ctx)
	var rooms []models.Room
	err := db.Where("room_id IN (?)", db.Model(&models.RoomMembership{}).Select("room_id").Where("user_id = ?", userID)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	return rooms, nil
}

// UpdateRoom renames a room; requires OWNER or EDITOR
func (s *RoomService) UpdateRoom(ctx context.Context, userID, roomID string, name string) (*models.RoomResponse, error) {
	if strings.TrimSpace(roomID) == "" {
		return nil, fmt.Errorf("%w: room id is required", ErrValidation)
	}
	name, err := validateRoomName(name)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	membership, err := requireAccess(db, roomID, userID, models.WriteRoles...)
	if err != nil {
		return nil, err
	}

	var room models.Room
	if err := db.First(&room, "room_id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %s", ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	room.Name = name
	if err := db.Save(&room).Error; err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	var count int64
	if err := db.Model(&models.Item{}).Where("room_id = ?", roomID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	resp := toRoomResponse(&room, membership.Role, count)
	return &resp, nil
}

// DeleteRoom removes a room with its items and memberships; requires OWNER
func (s *RoomService) DeleteRoom(ctx context.Context, userID, roomID string) error {
	if strings.TrimSpace(roomID) == "" {
		return fmt.Errorf("%w: room id is required", ErrValidation)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireAccess(tx, roomID, userID, models.OwnerRoles...); err != nil {
			return err
		}

		roomItems := tx.Model(&models.Item{}).Select("item_id").Where("room_id = ?", roomID)
		if err := tx.Where("item_id IN (?)", roomItems).Delete(&models.ClaimItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete claim references: %w", err)
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Item{}).Error; err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.RoomMembership{}).Error; err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Room{}).Error; err != nil {
			return fmt.Errorf("failed to delete room: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Room deleted", "roomId", roomID, "userId", userID)
	return nil
}

// DashboardStats counts rooms and items and sums item values across the user's rooms
func (s *RoomService) DashboardStats(ctx context.Context, userID string) (*models.DashboardStatsResponse, error) {
	db := s.db.WithContext(ctx)

	var stats models.DashboardStatsResponse
	if err := db.Model(&models.RoomMembership{}).Where("user_id = ?", userID).Count(&stats.RoomCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}

	var totals struct {
		ItemCount  int64
		TotalValue float64
	}
	memberRooms := db.Model(&models.RoomMembership{}).Select("room_id").Where("user_id = ?", userID)
	err := db.Model(&models.Item{}).
		Select("COUNT(*) AS item_count, COALESCE(SUM(value), 0) AS total_value").
		Where("room_id IN (?)", memberRooms).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to total items: %w", err)
	}

	stats.ItemCount = totals.ItemCount
	stats.TotalValue = totals.TotalValue
	return &stats, nil
}
