package services

import (
	"context"
	"sync"
	"testing"

	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestUserService_ResolveOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesPlaceholderUser", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewUserService(db)

		user, err := service.ResolveOrCreate(ctx, " New.Person@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, "new.person@example.com", user.Email)
		assert.Equal(t, "new.person", user.Name)
		assert.Contains(t, user.UserID, models.UserIDPrefix)
	})

	t.Run("ReturnsExistingUser", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewUserService(db)
		existing := CreateTestUser(t, db, "bob@example.com")

		user, err := service.ResolveOrCreate(ctx, "BOB@example.com")
		require.NoError(t, err)
		assert.Equal(t, existing.UserID, user.UserID)

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("IdempotentUnderConcurrency", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewUserService(db)

		var wg sync.WaitGroup
		ids := make([]string, 8)
		errs := make([]error, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				user, err := service.ResolveOrCreate(ctx, "race@example.com")
				errs[i] = err
				if err == nil {
					ids[i] = user.UserID
				}
			}(i)
		}
		wg.Wait()

		for i := range ids {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
		var count int64
		db.Model(&models.User{}).Where("email = ?", "race@example.com").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("RejectsInvalidEmail", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewUserService(db)

		_, err := service.ResolveOrCreate(ctx, "not-an-email")
		assert.True(t, IsValidationError(err))

		_, err = service.ResolveOrCreate(ctx, "")
		assert.True(t, IsValidationError(err))
	})
}

func TestUserService_ResolvePrincipal(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewUserService(db)
	existing := CreateTestUser(t, db, "carol@example.com")

	user, err := service.ResolvePrincipal(ctx, "Carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.UserID, user.UserID)

	_, err = service.ResolvePrincipal(ctx, "ghost@example.com")
	assert.True(t, IsUnauthenticatedError(err))
}

func TestUserService_UpsertOnSignIn(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewUserService(db)
	image := "https://example.com/a.png"

	user, err := service.UpsertOnSignIn(ctx, "dana@example.com", "Dana Scully", &image)
	require.NoError(t, err)
	assert.Equal(t, "Dana Scully", user.Name)
	require.NotNil(t, user.Image)
	assert.Equal(t, image, *user.Image)

	// A later sign-in keeps a name the user has set
	newName := "Agent Scully"
	_, err = service.UpdateProfile(ctx, user.UserID, user.UserID, &models.UpdateProfileRequest{Name: &newName})
	require.NoError(t, err)

	again, err := service.UpsertOnSignIn(ctx, "dana@example.com", "Dana Scully", nil)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, again.UserID)
	assert.Equal(t, "Agent Scully", again.Name)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	db := SetupSQLiteTestDB(t)
	service := NewUserService(db)
	alice := CreateTestUser(t, db, "alice@example.com")
	bob := CreateTestUser(t, db, "bob@example.com")
	name := "Alice Liddell"

	t.Run("Self", func(t *testing.T) {
		resp, err := service.UpdateProfile(ctx, alice.UserID, alice.UserID, &models.UpdateProfileRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, resp.Name)
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		_, err := service.UpdateProfile(ctx, bob.UserID, alice.UserID, &models.UpdateProfileRequest{Name: &name})
		assert.True(t, IsForbiddenError(err))
	})

	t.Run("BlankName", func(t *testing.T) {
		blank := "  "
		_, err := service.UpdateProfile(ctx, alice.UserID, alice.UserID, &models.UpdateProfileRequest{Name: &blank})
		assert.True(t, IsValidationError(err))
	})
}
