package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/chefbot-v2/backend/internal/models"
)

const testJWTSecret = "test-secret"

// setupTestDB opens a private shared-cache in-memory database so every
// connection in the pool sees the same data.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SearchRecord{}))
	return db
}

func TestAuthServiceRegister(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTSecret)

	token, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", claims.UserID.String())
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTSecret)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"missing username", "", "a@example.com", "secret123"},
		{"missing email", "alice", "", "secret123"},
		{"missing password", "alice", "a@example.com", ""},
		{"short password", "alice", "a@example.com", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestAuthServiceRegisterDuplicate(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTSecret)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(context.Background(), "bob", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthServiceLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testJWTSecret)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTSecret)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceValidateTokenRejectsBadInput(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTSecret)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	other := NewAuthService(setupTestDB(t), "different-secret")
	token, err := other.Register(context.Background(), "mallory", "m@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
