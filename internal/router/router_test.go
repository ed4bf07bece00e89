// internal/router/router_test.go
package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/freshkart/grocery-backend/internal/config"
	"github.com/freshkart/grocery-backend/internal/models"
)

// The rate limiters are process-wide, so this suite keeps its request
// count small to stay inside the general burst.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.Review{},
		&models.Address{}, &models.CartItem{}, &models.WishlistItem{},
		&models.Order{}, &models.OrderItem{}, &models.Coupon{},
		&models.PaymentMethod{}, &models.Banner{},
	))

	cfg := &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1, RefreshTokenTTL: 24},
		Checkout: config.CheckoutConfig{
			DeliveryCharge:        5000,
			FreeDeliveryThreshold: 50000,
			OtpLength:             6,
			OtpTTLMinutes:         10,
			MaxOtpResends:         5,
		},
	}

	return SetupRouter(db, cfg), db
}

func TestRouterWiring(t *testing.T) {
	r, _ := setupRouter(t)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("anonymous me is null user", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		data, ok := body["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Nil(t, data["user"])
	})

	t.Run("orders require auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSessionGrantsAccess(t *testing.T) {
	r, _ := setupRouter(t)

	payload, _ := json.Marshal(gin.H{"open_id": "wx-router-test-1", "name": "Asha"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.AccessToken)

	// The token opens authenticated routes but not admin ones.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.AccessToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/coupons", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.AccessToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
