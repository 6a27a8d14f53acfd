package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartlib.id/backend/internal/dto"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCountUnreadScopesToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE user_id = \$1 AND is_read = \$2`).
		WithArgs(userID, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountUnread(context.Background(), userID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAllAsReadReportsRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET .+ WHERE user_id = \$\d+ AND is_read = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	updated, err := repo.MarkAllAsRead(context.Background(), userID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteForeignRowReportsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "notifications" WHERE id = \$1 AND user_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByOwnerAppliesFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)
	userID := uuid.New()
	isRead := false

	mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE user_id = \$1 AND is_read = \$2 AND type = \$3 ORDER BY created_at desc`).
		WithArgs(userID, isRead, "WARNING").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "type", "is_read"}).
			AddRow(uuid.New(), userID, "Book Overdue", "msg", "WARNING", false))

	notifications, err := repo.FindByOwner(context.Background(), userID, dto.NotificationFilter{
		IsRead: &isRead,
		Type:   "WARNING",
	})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Book Overdue", notifications[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
