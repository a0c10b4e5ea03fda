package services

import (
	"context"
	"testing"

	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessService_CheckAccess(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewAccessService(db)

	owner := CreateTestUser(t, db, "owner@example.com")
	viewer := CreateTestUser(t, db, "viewer@example.com")
	stranger := CreateTestUser(t, db, "stranger@example.com")
	room := CreateTestRoom(t, db, owner, "Kitchen")
	AddTestMember(t, db, room.RoomID, viewer, models.RoleViewer)

	tests := []struct {
		name   string
		userID string
		roles  []models.Role
		want   bool
	}{
		{"OwnerAnyRole", owner.UserID, nil, true},
		{"OwnerWriteRoles", owner.UserID, models.WriteRoles, true},
		{"ViewerAnyRole", viewer.UserID, nil, true},
		{"ViewerWriteRoles", viewer.UserID, models.WriteRoles, false},
		{"StrangerAnyRole", stranger.UserID, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := service.CheckAccess(ctx, room.RoomID, tt.userID, tt.roles...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	t.Run("RequireAccessClassifiesErrors", func(t *testing.T) {
		_, err := service.RequireAccess(ctx, "room_missing", owner.UserID)
		assert.True(t, IsNotFoundError(err))

		_, err = service.RequireAccess(ctx, room.RoomID, stranger.UserID)
		assert.True(t, IsForbiddenError(err))

		_, err = service.RequireAccess(ctx, room.RoomID, viewer.UserID, models.OwnerRoles...)
		assert.True(t, IsForbiddenError(err))
	})
}

func TestRoomService_CreateRoom(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewRoomService(db)
	memberships := NewMembershipService(db)
	alice := CreateTestUser(t, db, "alice@example.com")

	t.Run("CreatorBecomesSoleOwner", func(t *testing.T) {
		room, err := service.CreateRoom(ctx, alice.UserID, &models.CreateRoomRequest{Name: "  Living Room "})
		require.NoError(t, err)
		assert.Equal(t, "Living Room", room.Name)
		assert.Equal(t, models.RoleOwner, room.Role)

		members, err := memberships.ListCollaborators(ctx, alice.UserID, room.RoomID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, alice.UserID, members[0].UserID)
		assert.Equal(t, models.RoleOwner, members[0].Role)
	})

	t.Run("BlankName", func(t *testing.T) {
		_, err := service.CreateRoom(ctx, alice.UserID, &models.CreateRoomRequest{Name: " "})
		assert.True(t, IsValidationError(err))
	})
}

func TestRoomService_GetAndList(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewRoomService(db)

	alice := CreateTestUser(t, db, "alice@example.com")
	bob := CreateTestUser(t, db, "bob@example.com")
	kitchen := CreateTestRoom(t, db, alice, "Kitchen")
	garage := CreateTestRoom(t, db, bob, "Garage")
	AddTestMember(t, db, garage.RoomID, alice, models.RoleViewer)
	CreateTestItem(t, db, kitchen.RoomID, alice, "Toaster", 40)
	CreateTestItem(t, db, kitchen.RoomID, alice, "Kettle", 25)
	CreateTestItem(t, db, garage.RoomID, bob, "Drill", 120)

	rooms, err := service.ListRooms(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	byID := map[string]models.RoomResponse{}
	for _, r := range rooms {
		byID[r.RoomID] = r
	}
	assert.Equal(t, int64(2), byID[kitchen.RoomID].ItemCount)
	assert.Equal(t, models.RoleOwner, byID[kitchen.RoomID].Role)
	assert.Equal(t, int64(1), byID[garage.RoomID].ItemCount)
	assert.Equal(t, models.RoleViewer, byID[garage.RoomID].Role)

	bobRooms, err := service.ListRooms(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Len(t, bobRooms, 1)

	room, err := service.GetRoom(ctx, alice.UserID, kitchen.RoomID)
	require.NoError(t, err)
	assert.Len(t, room.Items, 2)

	_, err = service.GetRoom(ctx, bob.UserID, kitchen.RoomID)
	assert.True(t, IsForbiddenError(err))

	_, err = service.GetRoom(ctx, bob.UserID, "room_missing")
	assert.True(t, IsNotFoundError(err))

	withItems, err := service.ListRoomsWithItems(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Len(t, withItems, 2)

	stats, err := service.DashboardStats(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.RoomCount)
	assert.Equal(t, int64(3), stats.ItemCount)
	assert.InDelta(t, 185.0, stats.TotalValue, 0.001)

	empty, err := service.DashboardStats(ctx, "usr_nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.ItemCount)
	assert.Equal(t, 0.0, empty.TotalValue)
}

func TestRoomService_UpdateRoom(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewRoomService(db)

	owner := CreateTestUser(t, db, "owner@example.com")
	editor := CreateTestUser(t, db, "editor@example.com")
	viewer := CreateTestUser(t, db, "viewer@example.com")
	room := CreateTestRoom(t, db, owner, "Den")
	AddTestMember(t, db, room.RoomID, editor, models.RoleEditor)
	AddTestMember(t, db, room.RoomID, viewer, models.RoleViewer)

	updated, err := service.UpdateRoom(ctx, editor.UserID, room.RoomID, "Study")
	require.NoError(t, err)
	assert.Equal(t, "Study", updated.Name)

	_, err = service.UpdateRoom(ctx, viewer.UserID, room.RoomID, "Library")
	assert.True(t, IsForbiddenError(err))

	_, err = service.UpdateRoom(ctx, owner.UserID, "", "Library")
	assert.True(t, IsValidationError(err))
}

func TestRoomService_DeleteRoom(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewRoomService(db)

	owner := CreateTestUser(t, db, "owner@example.com")
	editor := CreateTestUser(t, db, "editor@example.com")
	room := CreateTestRoom(t, db, owner, "Attic")
	AddTestMember(t, db, room.RoomID, editor, models.RoleEditor)
	item := CreateTestItem(t, db, room.RoomID, owner, "Trunk", 80)
	require.NoError(t, db.Create(&models.ClaimItem{ClaimItemID: "cli_1", ClaimID: "clm_1", ItemID: item.ItemID}).Error)

	err := service.DeleteRoom(ctx, editor.UserID, room.RoomID)
	assert.True(t, IsForbiddenError(err))

	require.NoError(t, service.DeleteRoom(ctx, owner.UserID, room.RoomID))

	for _, model := range []interface{}{&models.Room{}, &models.Item{}, &models.RoomMembership{}, &models.ClaimItem{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}
