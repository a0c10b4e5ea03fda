package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupSQLiteTestDB creates an in-memory SQLite database for testing.
// The pool is pinned to one connection so every query sees the same in-memory database.
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to SQLite test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get SQLite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateTestUser inserts a user with the given email
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{
		UserID: models.UserIDPrefix + uuid.New().String(),
		Email:  email,
		Name:   placeholderName(email),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestRoom inserts a room with an OWNER membership for owner
func CreateTestRoom(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Room {
	room := &models.Room{
		RoomID: models.RoomIDPrefix + uuid.New().String(),
		Name:   name,
		UserID: owner.UserID,
	}
	if err := db.Create(room).Error; err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}
	AddTestMember(t, db, room.RoomID, owner, models.RoleOwner)
	return room
}

// AddTestMember grants user role on roomID
func AddTestMember(t *testing.T, db *gorm.DB, roomID string, user *models.User, role models.Role) *models.RoomMembership {
	membership := &models.RoomMembership{
		MembershipID: models.MembershipIDPrefix + uuid.New().String(),
		RoomID:       roomID,
		UserID:       user.UserID,
		Role:         role,
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("Failed to create test membership: %v", err)
	}
	return membership
}

// CreateTestItem inserts an item into roomID
func CreateTestItem(t *testing.T, db *gorm.DB, roomID string, creator *models.User, name string, value float64) *models.Item {
	item := &models.Item{
		ItemID: models.ItemIDPrefix + uuid.New().String(),
		RoomID: roomID,
		UserID: creator.UserID,
		Name:   name,
		Value:  value,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return item
}
