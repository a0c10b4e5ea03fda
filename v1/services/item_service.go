package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/gorm"
)

// ItemService handles item operations inside rooms
type ItemService struct {
	db *gorm.DB
}

// NewItemService creates a new item service
func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{db: db}
}

func validateItemName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if len(name) > models.MaxNameLength {
		return "", fmt.Errorf("%w: item name must be at most %d characters", ErrValidation, models.MaxNameLength)
	}
	return name, nil
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len(description) > models.MaxDescriptionLength {
		return "", fmt.Errorf("%w: description must be at most %d characters", ErrValidation, models.MaxDescriptionLength)
	}
	return description, nil
}

func parseValue(v models.FlexibleValue) (float64, error) {
	value, err := v.Parse()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return value, nil
}

// loadItem fetches an item by ID; roomID, when set, must match the item's room
func loadItem(db *gorm.DB, itemID, roomID string) (*models.Item, error) {
	var item models.Item
	query := db.Where("item_id = ?", itemID)
	if roomID != "" {
		query = query.Where("room_id = ?", roomID)
	}
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return &item, nil
}

func roomName(db *gorm.DB, roomID string) (string, error) {
	var room models.Room
	if err := db.Select("room_id", "name").First(&room, "room_id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: room %s", ErrNotFound, roomID)
		}
		return "", fmt.Errorf("failed to load room: %w", err)
	}
	return room.Name, nil
}

// CreateItem adds an item to a room; requires OWNER or EDITOR
func (s *ItemService) CreateItem(ctx context.Context, userID, roomID string, req *models.CreateItemRequest) (*models.ItemResponse, error) {
	name, err := validateItemName(req.Name)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(req.Description)
	if err != nil {
		return nil, err
	}
	value, err := parseValue(req.Value)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if _, err := requireAccess(db, roomID, userID, models.WriteRoles...); err != nil {
		return nil, err
	}

	item := models.Item{
		ItemID:       models.ItemIDPrefix + uuid.New().String(),
		RoomID:       roomID,
		UserID:       userID,
		Name:         name,
		Brand:        strings.TrimSpace(req.Brand),
		ModelNumber:  strings.TrimSpace(req.ModelNumber),
		SerialNumber: strings.TrimSpace(req.SerialNumber),
		Value:        value,
		Description:  description,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	rn, err := roomName(db, roomID)
	if err != nil {
		return nil, err
	}

	slog.Info("Item created", "itemId", item.ItemID, "roomId", roomID, "userId", userID)
	resp := item.ToResponse(rn)
	return &resp, nil
}

// ListRoomItems returns a room's items, oldest first, for any member
func (s *ItemService) ListRoomItems(ctx context.Context, userID, roomID string) ([]models.ItemResponse, error) {
	db := s.db.WithContext(ctx)
	if _, err := requireAccess(db, roomID, userID); err != nil {
		return nil, err
	}
	rn, err := roomName(db, roomID)
	if err != nil {
		return nil, err
	}

	var items []models.Item
	if err := db.Where("room_id = ?", roomID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	responses := make([]models.ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse(rn))
	}
	return responses, nil
}

// ListUserItems returns every item in rooms the user belongs to, newest first, with room names
func (s *ItemService) ListUserItems(ctx context.Context, userID string) ([]models.ItemResponse, error) {
	db := s.db.WithContext(ctx)

	memberRooms := db.Model(&models.RoomMembership{}).Select("room_id").Where("user_id = ?", userID)
	var items []models.Item
	if err := db.Where("room_id IN (?)", memberRooms).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	if len(items) == 0 {
		return []models.ItemResponse{}, nil
	}

	var rooms []models.Room
	if err := db.Select("room_id", "name").Where("room_id IN (?)", memberRooms).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	names := make(map[string]string, len(rooms))
	for _, r := range rooms {
		names[r.RoomID] = r.Name
	}

	responses := make([]models.ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse(names[items[i].RoomID]))
	}
	return responses, nil
}

// GetItem returns an item if the user is a member of its room
func (s *ItemService) GetItem(ctx context.Context, userID, itemID string) (*models.ItemResponse, error) {
	db := s.db.WithContext(ctx)
	item, err := loadItem(db, itemID, "")
	if err != nil {
		return nil, err
	}
	if _, err := requireAccess(db, item.RoomID, userID); err != nil {
		return nil, err
	}
	rn, err := roomName(db, item.RoomID)
	if err != nil {
		return nil, err
	}
	resp := item.ToResponse(rn)
	return &resp, nil
}

// UpdateItem applies the fields present in req; requires OWNER or EDITOR on the item's room
func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID string, req *models.UpdateItemRequest) (*models.ItemResponse, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		name, err := validateItemName(*req.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if req.Brand != nil {
		updates["brand"] = strings.TrimSpace(*req.Brand)
	}
	if req.ModelNumber != nil {
		updates["model_number"] = strings.TrimSpace(*req.ModelNumber)
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = strings.TrimSpace(*req.SerialNumber)
	}
	if req.Value != nil {
		value, err := parseValue(*req.Value)
		if err != nil {
			return nil, err
		}
		updates["value"] = value
	}
	if req.Description != nil {
		description, err := validateDescription(*req.Description)
		if err != nil {
			return nil, err
		}
		updates["description"] = description
	}

	db := s.db.WithContext(ctx)
	item, err := loadItem(db, itemID, "")
	if err != nil {
		return nil, err
	}
	if _, err := requireAccess(db, item.RoomID, userID, models.WriteRoles...); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := db.Model(item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update item: %w", err)
		}
		item, err = loadItem(db, itemID, "")
		if err != nil {
			return nil, err
		}
	}

	rn, err := roomName(db, item.RoomID)
	if err != nil {
		return nil, err
	}

	slog.Info("Item updated", "itemId", itemID, "userId", userID)
	resp := item.ToResponse(rn)
	return &resp, nil
}

// DeleteItem removes an item and its claim references; requires OWNER or EDITOR.
// When roomID is non-empty the item must belong to that room.
func (s *ItemService) DeleteItem(ctx context.Context, userID, itemID, roomID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := loadItem(tx, itemID, roomID)
		if err != nil {
			return err
		}
		if _, err := requireAccess(tx, item.RoomID, userID, models.WriteRoles...); err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", itemID).Delete(&models.ClaimItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete claim references: %w", err)
		}
		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Item deleted", "itemId", itemID, "userId", userID)
	return nil
}
