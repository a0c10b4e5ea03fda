package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestBaseModel_Hooks(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&User{}))

	t.Run("BeforeCreate_SetsTimestamps", func(t *testing.T) {
		user := User{UserID: "usr_hooks", Email: "hooks@example.com", Name: "Hooks"}
		require.NoError(t, db.Create(&user).Error)

		assert.False(t, user.CreatedAt.IsZero())
		assert.WithinDuration(t, time.Now(), user.CreatedAt, 5*time.Second)
		assert.WithinDuration(t, time.Now(), user.UpdatedAt, 5*time.Second)
	})

	t.Run("BeforeUpdate_RefreshesUpdatedAt", func(t *testing.T) {
		var user User
		require.NoError(t, db.First(&user, "user_id = ?", "usr_hooks").Error)
		before := user.UpdatedAt

		time.Sleep(10 * time.Millisecond)
		user.Name = "Renamed"
		require.NoError(t, db.Save(&user).Error)

		assert.True(t, user.UpdatedAt.After(before))
	})
}
