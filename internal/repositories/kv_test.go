package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestKVRepository_GetFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewKVRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"owner", "key", "value", "created_at", "updated_at"}).
		AddRow("alice", "abc", `{"id":"abc"}`, now, now)
	mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE owner = \$1 AND key = \$2`).
		WillReturnRows(rows)

	value, ok, err := repo.Get(context.Background(), "alice", "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"abc"}`, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_GetMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewKVRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE owner = \$1 AND key = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"owner", "key", "value", "created_at", "updated_at"}))

	value, ok, err := repo.Get(context.Background(), "alice", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_SetUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewKVRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "kv_entries" .* ON CONFLICT \("owner","key"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Set(context.Background(), "alice", "abc", `{"id":"abc"}`))
	assert.NoError(t, mock.ExpectationsWereMet())
}
