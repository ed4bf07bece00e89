// internal/services/service_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/freshkart/grocery-backend/internal/config"
	"github.com/freshkart/grocery-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.Address{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.PaymentMethod{},
		&models.Banner{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Checkout: config.CheckoutConfig{
			DeliveryCharge:        5000,
			FreeDeliveryThreshold: 50000,
			OtpLength:             6,
			OtpTTLMinutes:         10,
			MaxOtpResends:         5,
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, openID string) *models.User {
	t.Helper()
	user := &models.User{OpenID: openID, Name: "Test User", Role: models.UserRoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: "Fruits", Slug: slug, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestProduct(t *testing.T, db *gorm.DB, categoryID uint, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: categoryID,
		Name:       name,
		Price:      price,
		Stock:      stock,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:  userID,
		Type:    models.AddressTypeHome,
		Name:    "Test User",
		Phone:   "9999999999",
		Line1:   "12 Market Road",
		City:    "Pune",
		Pincode: "411001",
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

func addToCart(t *testing.T, db *gorm.DB, userID, productID uint, quantity int) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}).Error)
}
