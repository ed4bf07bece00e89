// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshkart/grocery-backend/internal/config"
	"github.com/freshkart/grocery-backend/internal/models"
)

func TestUpsertSessionCreatesUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.UpsertSession(&SessionRequest{
		OpenID: "wx-open-id-1",
		Name:   "Asha",
		Email:  "asha@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, models.UserRoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotNil(t, resp.User.LastLoginAt)
}

func TestUpsertSessionIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	first, err := svc.UpsertSession(&SessionRequest{OpenID: "wx-open-id-2", Name: "Ravi"})
	require.NoError(t, err)

	second, err := svc.UpsertSession(&SessionRequest{OpenID: "wx-open-id-2", Name: "Ravi K"})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Ravi K", second.User.Name)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertSessionPromotesOwner(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	cfg.Owner = config.OwnerConfig{OpenID: "owner-open-id"}
	svc := NewAuthService(db, cfg)

	resp, err := svc.UpsertSession(&SessionRequest{OpenID: "owner-open-id", Name: "Owner"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, resp.User.Role)
}

func TestUpsertSessionPromotesExistingUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	cfg.Owner = config.OwnerConfig{Email: "boss@example.com"}
	svc := NewAuthService(db, cfg)

	// First session without the owner email stays a regular user.
	first, err := svc.UpsertSession(&SessionRequest{OpenID: "wx-open-id-3"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleUser, first.User.Role)

	// A later session attaching the owner email promotes the account.
	second, err := svc.UpsertSession(&SessionRequest{OpenID: "wx-open-id-3", Email: "boss@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, second.User.Role)
}

func TestLoginWithPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	user := &models.User{
		OpenID: "owner:admin@example.com",
		Name:   "Admin",
		Email:  "admin@example.com",
		Role:   models.UserRoleAdmin,
	}
	require.NoError(t, user.SetPassword("s3cret-pass"))
	require.NoError(t, db.Create(user).Error)

	resp, err := svc.Login(&LoginRequest{Email: "admin@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = svc.Login(&LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsPasswordlessAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	require.NoError(t, db.Create(&models.User{
		OpenID: "wx-open-id-4",
		Email:  "social@example.com",
		Role:   models.UserRoleUser,
	}).Error)

	// Accounts created through the identity provider have no password
	// and cannot be logged into with one.
	_, err := svc.Login(&LoginRequest{Email: "social@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	created, err := svc.UpsertSession(&SessionRequest{OpenID: "wx-open-id-5"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&RefreshRequest{RefreshToken: created.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(&RefreshRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
