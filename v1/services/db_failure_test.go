package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		Conn:       db,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock, func() { db.Close() }
}

func TestRoomService_ListRooms_DatabaseError(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "room_memberships" WHERE user_id = \$1`).
		WillReturnError(errors.New("connection reset"))

	_, err := NewRoomService(db).ListRooms(context.Background(), "usr_1")
	require.Error(t, err)
	assert.False(t, IsNotFoundError(err))
	assert.False(t, IsForbiddenError(err))
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipService_LastOwnerLocksOwnerRows(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	membershipRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"membership_id", "room_id", "user_id", "role"}).
			AddRow("mem_1", "room_1", "usr_1", string(models.RoleOwner))
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "room_memberships" WHERE room_id = \$1 AND user_id = \$2`).
		WillReturnRows(membershipRows())
	mock.ExpectQuery(`SELECT \* FROM "room_memberships" WHERE room_id = \$1 AND user_id = \$2`).
		WillReturnRows(membershipRows())
	mock.ExpectQuery(`SELECT \* FROM "room_memberships" WHERE room_id = \$1 AND role = \$2 FOR UPDATE`).
		WillReturnRows(membershipRows())
	mock.ExpectRollback()

	_, err := NewMembershipService(db).UpdateCollaboratorRole(context.Background(), "usr_1", "room_1", "usr_1", models.RoleViewer)
	assert.ErrorIs(t, err, ErrLastOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
