package services

import (
	"context"
	"testing"

	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackfillOwnerMemberships(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	alice := CreateTestUser(t, db, "alice@example.com")

	// One room already has its owner membership
	CreateTestRoom(t, db, alice, "Kitchen")
	legacy := &models.Room{RoomID: "room_legacy", Name: "Legacy", UserID: alice.UserID}
	require.NoError(t, db.Create(legacy).Error)

	result, err := BackfillOwnerMemberships(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, &BackfillResult{Created: 1, Skipped: 1, Total: 2}, result)

	ok, err := NewAccessService(db).CheckAccess(ctx, legacy.RoomID, alice.UserID, models.OwnerRoles...)
	require.NoError(t, err)
	assert.True(t, ok)

	rerun, err := BackfillOwnerMemberships(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, rerun.Created)
	assert.Equal(t, 2, rerun.Skipped)
}
