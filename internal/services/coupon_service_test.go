// internal/services/coupon_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshkart/grocery-backend/internal/models"
)

func TestValidateCouponPrecedence(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	limit := 1

	t.Run("inactive wins over everything", func(t *testing.T) {
		coupon := &models.Coupon{
			IsActive:       false,
			ExpiryDate:     &yesterday,
			UsageLimit:     &limit,
			UsageCount:     1,
			MinOrderAmount: 99999,
		}
		assert.ErrorIs(t, ValidateCoupon(coupon, 100, now), ErrCouponInactive)
	})

	t.Run("expired wins over usage limit", func(t *testing.T) {
		coupon := &models.Coupon{
			IsActive:   true,
			ExpiryDate: &yesterday,
			UsageLimit: &limit,
			UsageCount: 1,
		}
		assert.ErrorIs(t, ValidateCoupon(coupon, 100, now), ErrCouponExpired)
	})

	t.Run("usage limit wins over minimum", func(t *testing.T) {
		coupon := &models.Coupon{
			IsActive:       true,
			UsageLimit:     &limit,
			UsageCount:     1,
			MinOrderAmount: 99999,
		}
		assert.ErrorIs(t, ValidateCoupon(coupon, 100, now), ErrCouponUsageLimitReached)
	})

	t.Run("below minimum", func(t *testing.T) {
		coupon := &models.Coupon{IsActive: true, MinOrderAmount: 20000}
		assert.ErrorIs(t, ValidateCoupon(coupon, 19999, now), ErrCouponBelowMinimum)
		assert.NoError(t, ValidateCoupon(coupon, 20000, now))
	})

	t.Run("no expiry means never expires", func(t *testing.T) {
		coupon := &models.Coupon{IsActive: true}
		assert.NoError(t, ValidateCoupon(coupon, 100, now))
	})

	t.Run("nil usage limit means unlimited", func(t *testing.T) {
		coupon := &models.Coupon{IsActive: true, UsageCount: 1000000}
		assert.NoError(t, ValidateCoupon(coupon, 100, now))
	})
}

func TestValidateCouponIdempotent(t *testing.T) {
	coupon := &models.Coupon{IsActive: true, MinOrderAmount: 500}
	now := time.Now()

	// Validation has no side effects; asking twice gives the same answer.
	assert.NoError(t, ValidateCoupon(coupon, 500, now))
	assert.NoError(t, ValidateCoupon(coupon, 500, now))
	assert.Equal(t, 0, coupon.UsageCount)
}

func TestCouponServiceValidate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	require.NoError(t, db.Create(&models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.CouponTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	}).Error)

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.Validate("NOPE", 1000)
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("lookup normalizes case and whitespace", func(t *testing.T) {
		coupon, err := svc.Validate("  save10 ", 1000)
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", coupon.Code)
	})
}

func TestCouponConsumeGuard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	limit := 2
	coupon := &models.Coupon{
		Code:          "LIMITED",
		DiscountType:  models.CouponTypeFixed,
		DiscountValue: 1000,
		UsageLimit:    &limit,
		IsActive:      true,
	}
	require.NoError(t, db.Create(coupon).Error)

	require.NoError(t, svc.Consume(db, coupon.ID))
	require.NoError(t, svc.Consume(db, coupon.ID))

	// Third use hits the guard.
	assert.ErrorIs(t, svc.Consume(db, coupon.ID), ErrCouponUsageLimitReached)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.Equal(t, 2, stored.UsageCount)
}

func TestCouponConsumeUnlimited(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	coupon := &models.Coupon{
		Code:          "FOREVER",
		DiscountType:  models.CouponTypeFixed,
		DiscountValue: 500,
		IsActive:      true,
	}
	require.NoError(t, db.Create(coupon).Error)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Consume(db, coupon.ID))
	}

	var stored models.Coupon
	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.Equal(t, 5, stored.UsageCount)
}

func TestCreateCoupon(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	coupon, err := svc.CreateCoupon(&CreateCouponRequest{
		Code:          "  welcome50 ",
		DiscountType:  models.CouponTypePercentage,
		DiscountValue: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME50", coupon.Code)
	assert.True(t, coupon.IsActive)

	_, err = svc.CreateCoupon(&CreateCouponRequest{
		Code:          "TOOMUCH",
		DiscountType:  models.CouponTypePercentage,
		DiscountValue: 150,
	})
	assert.Error(t, err)
}

func TestUpdateCoupon(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	coupon, err := svc.CreateCoupon(&CreateCouponRequest{
		Code:          "TOGGLE",
		DiscountType:  models.CouponTypeFixed,
		DiscountValue: 1000,
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateCoupon(coupon.ID, &UpdateCouponRequest{IsActive: &inactive})
	require.NoError(t, err)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.False(t, stored.IsActive)

	_, err = svc.UpdateCoupon(9999, &UpdateCouponRequest{IsActive: &inactive})
	assert.ErrorIs(t, err, ErrCouponNotFound)
}
