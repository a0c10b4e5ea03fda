package services

import (
	"context"
	"testing"

	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestItemService_RolePermissions(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewItemService(db)

	owner := CreateTestUser(t, db, "owner@example.com")
	editor := CreateTestUser(t, db, "editor@example.com")
	viewer := CreateTestUser(t, db, "viewer@example.com")
	room := CreateTestRoom(t, db, owner, "Office")
	AddTestMember(t, db, room.RoomID, editor, models.RoleEditor)
	AddTestMember(t, db, room.RoomID, viewer, models.RoleViewer)

	t.Run("ViewerCannotCreate", func(t *testing.T) {
		_, err := service.CreateItem(ctx, viewer.UserID, room.RoomID, &models.CreateItemRequest{Name: "Lamp", Value: "10"})
		assert.True(t, IsForbiddenError(err))
	})

	t.Run("EditorCreatesAndDeletes", func(t *testing.T) {
		item, err := service.CreateItem(ctx, editor.UserID, room.RoomID, &models.CreateItemRequest{
			Name: "Monitor", Brand: "Acme", Value: "199.99",
		})
		require.NoError(t, err)
		assert.Equal(t, "Office", item.RoomName)
		assert.InDelta(t, 199.99, item.Value, 0.0001)

		err = service.DeleteItem(ctx, editor.UserID, item.ItemID, room.RoomID)
		require.NoError(t, err)
	})

	t.Run("ViewerCannotUpdateOrDelete", func(t *testing.T) {
		item := CreateTestItem(t, db, room.RoomID, owner, "Desk", 300)
		_, err := service.UpdateItem(ctx, viewer.UserID, item.ItemID, &models.UpdateItemRequest{Name: strPtr("Table")})
		assert.True(t, IsForbiddenError(err))

		err = service.DeleteItem(ctx, viewer.UserID, item.ItemID, "")
		assert.True(t, IsForbiddenError(err))
	})

	t.Run("ViewerCanRead", func(t *testing.T) {
		item := CreateTestItem(t, db, room.RoomID, owner, "Chair", 90)
		got, err := service.GetItem(ctx, viewer.UserID, item.ItemID)
		require.NoError(t, err)
		assert.Equal(t, "Chair", got.Name)

		items, err := service.ListRoomItems(ctx, viewer.UserID, room.RoomID)
		require.NoError(t, err)
		assert.NotEmpty(t, items)
	})

	t.Run("StrangerCannotRead", func(t *testing.T) {
		item := CreateTestItem(t, db, room.RoomID, owner, "Safe", 500)
		_, err := service.GetItem(ctx, "usr_stranger", item.ItemID)
		assert.True(t, IsForbiddenError(err))
	})
}

func TestItemService_ValueValidation(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewItemService(db)
	owner := CreateTestUser(t, db, "owner@example.com")
	room := CreateTestRoom(t, db, owner, "Hall")

	for _, raw := range []models.FlexibleValue{"", "abc", "-5", "NaN"} {
		_, err := service.CreateItem(ctx, owner.UserID, room.RoomID, &models.CreateItemRequest{Name: "Vase", Value: raw})
		assert.True(t, IsValidationError(err), "value %q", raw)
	}

	_, err := service.CreateItem(ctx, owner.UserID, room.RoomID, &models.CreateItemRequest{Name: " ", Value: "1"})
	assert.True(t, IsValidationError(err))

	item := CreateTestItem(t, db, room.RoomID, owner, "Mirror", 50)
	bad := models.FlexibleValue("-1")
	_, err = service.UpdateItem(ctx, owner.UserID, item.ItemID, &models.UpdateItemRequest{Value: &bad})
	assert.True(t, IsValidationError(err))
}

func TestItemService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewItemService(db)
	owner := CreateTestUser(t, db, "owner@example.com")
	room := CreateTestRoom(t, db, owner, "Porch")
	item := CreateTestItem(t, db, room.RoomID, owner, "Bench", 70)

	value := models.FlexibleValue("85.5")
	updated, err := service.UpdateItem(ctx, owner.UserID, item.ItemID, &models.UpdateItemRequest{
		SerialNumber: strPtr("SN-1"),
		Value:        &value,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bench", updated.Name)
	assert.Equal(t, "SN-1", updated.SerialNumber)
	assert.InDelta(t, 85.5, updated.Value, 0.0001)

	_, err = service.UpdateItem(ctx, owner.UserID, "item_missing", &models.UpdateItemRequest{})
	assert.True(t, IsNotFoundError(err))
}

func TestItemService_ListUserItems(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewItemService(db)
	alice := CreateTestUser(t, db, "alice@example.com")
	bob := CreateTestUser(t, db, "bob@example.com")
	kitchen := CreateTestRoom(t, db, alice, "Kitchen")
	shed := CreateTestRoom(t, db, bob, "Shed")
	CreateTestItem(t, db, kitchen.RoomID, alice, "Blender", 60)
	CreateTestItem(t, db, shed.RoomID, bob, "Mower", 400)

	items, err := service.ListUserItems(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kitchen", items[0].RoomName)

	none, err := service.ListUserItems(ctx, "usr_nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestItemService_DeleteItemRemovesClaimReferences(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewItemService(db)
	owner := CreateTestUser(t, db, "owner@example.com")
	room := CreateTestRoom(t, db, owner, "Basement")
	other := CreateTestRoom(t, db, owner, "Loft")
	item := CreateTestItem(t, db, room.RoomID, owner, "Heater", 150)
	require.NoError(t, db.Create(&models.ClaimItem{ClaimItemID: "cli_1", ClaimID: "clm_1", ItemID: item.ItemID}).Error)

	err := service.DeleteItem(ctx, owner.UserID, item.ItemID, other.RoomID)
	assert.True(t, IsNotFoundError(err))

	require.NoError(t, service.DeleteItem(ctx, owner.UserID, item.ItemID, room.RoomID))
	var count int64
	db.Model(&models.ClaimItem{}).Count(&count)
	assert.Zero(t, count)
}
