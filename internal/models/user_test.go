package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &SearchRecord{}))
	return db
}

func TestUserBeforeCreateAssignsID(t *testing.T) {
	db := openTestDB(t)

	user := User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// A caller-supplied id is kept.
	id := uuid.New()
	other := User{ID: id, Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&other).Error)
	assert.Equal(t, id, other.ID)
}

func TestUserUniqueConstraints(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}).Error)
	assert.Error(t, db.Create(&User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}).Error)
	assert.Error(t, db.Create(&User{Username: "other", Email: "alice@example.com", PasswordHash: "x"}).Error)
}
