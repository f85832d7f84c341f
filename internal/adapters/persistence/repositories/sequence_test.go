package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestSequenceAllocatorNext(t *testing.T) {
	db, mock := newMockDB(t)
	allocator := NewSequenceAllocator(db, "people", "unique_id", "creator_id")

	mock.ExpectQuery("SELECT unique_id FROM `people` WHERE creator_id = \\? AND unique_id REGEXP \\?").
		WithArgs(uint(5), "^IND-[0-9]{3}$").
		WillReturnRows(sqlmock.NewRows([]string{"unique_id"}).AddRow("IND-007"))

	code, err := allocator.Next(context.Background(), uint(5), "IND-", 3)
	require.NoError(t, err)
	assert.Equal(t, "IND-008", code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceAllocatorFirstCode(t *testing.T) {
	db, mock := newMockDB(t)
	allocator := NewSequenceAllocator(db, "admins", "employee_id", "organization_id")

	mock.ExpectQuery("SELECT employee_id FROM `admins`").
		WithArgs(uint(1), "^UI[0-9]{3}$").
		WillReturnRows(sqlmock.NewRows([]string{"employee_id"}))

	code, err := allocator.Next(context.Background(), uint(1), "UI", 3)
	require.NoError(t, err)
	assert.Equal(t, "UI001", code)
}

func TestSequenceAllocatorWidePrefix(t *testing.T) {
	db, mock := newMockDB(t)
	allocator := NewSequenceAllocator(db, "companies", "unique_id", "organization_id")

	// The REGEXP filter excludes width-mismatched legacy codes, so the
	// scan only ever sees properly formatted ones.
	mock.ExpectQuery("SELECT unique_id FROM `companies`").
		WithArgs(uint(2), "^CORP-[0-9]{6}$").
		WillReturnRows(sqlmock.NewRows([]string{"unique_id"}).AddRow("CORP-000123"))

	code, err := allocator.Next(context.Background(), uint(2), "CORP-", 6)
	require.NoError(t, err)
	assert.Equal(t, "CORP-000124", code)
}

func TestSequenceAllocatorQueryError(t *testing.T) {
	db, mock := newMockDB(t)
	allocator := NewSequenceAllocator(db, "people", "unique_id", "creator_id")

	mock.ExpectQuery("SELECT unique_id FROM `people`").
		WillReturnError(errors.New("connection reset"))

	_, err := allocator.Next(context.Background(), uint(5), "IND-", 3)
	assert.Error(t, err)
}

func TestRandomCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := RandomCode("COR-", 3)
		require.NoError(t, err)
		require.Len(t, code, 7)
		assert.Regexp(t, "^COR-[1-9]{3}$", code)
		seen[code] = true
	}
	// 729 possible codes; 50 draws should not all collide
	assert.Greater(t, len(seen), 1)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("connection reset")))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry 'IND-001' for key 'idx_people_creator_code'")))
}
