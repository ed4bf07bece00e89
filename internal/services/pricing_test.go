// internal/services/pricing_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freshkart/grocery-backend/internal/config"
	"github.com/freshkart/grocery-backend/internal/models"
)

var testCheckoutConfig = config.CheckoutConfig{
	DeliveryCharge:        5000,
	FreeDeliveryThreshold: 50000,
}

func TestDiscountedUnitPrice(t *testing.T) {
	assert.Equal(t, int64(10000), DiscountedUnitPrice(10000, 0))
	assert.Equal(t, int64(9000), DiscountedUnitPrice(10000, 10))
	assert.Equal(t, int64(0), DiscountedUnitPrice(10000, 100))

	// Rounds half-up to whole minor units.
	assert.Equal(t, int64(83), DiscountedUnitPrice(99, 16)) // 83.16 -> 83
	assert.Equal(t, int64(84), DiscountedUnitPrice(99, 15)) // 84.15 -> 84
	assert.Equal(t, int64(50), DiscountedUnitPrice(99, 50)) // 49.5 -> 50
}

func TestSubtotal(t *testing.T) {
	lines := []CartLine{
		{UnitPrice: 10000, Quantity: 2},
		{UnitPrice: 2500, Quantity: 1},
	}
	assert.Equal(t, int64(22500), Subtotal(lines))
	assert.Equal(t, int64(0), Subtotal(nil))
}

func TestCouponDiscountFixed(t *testing.T) {
	coupon := &models.Coupon{DiscountType: models.CouponTypeFixed, DiscountValue: 3000}
	assert.Equal(t, int64(3000), CouponDiscount(coupon, 22500))
}

func TestCouponDiscountPercentageCapped(t *testing.T) {
	cap := int64(5000)
	coupon := &models.Coupon{
		DiscountType:  models.CouponTypePercentage,
		DiscountValue: 50,
		MaxDiscount:   &cap,
	}
	// 50% of 22500 is 11250, capped at 5000.
	assert.Equal(t, int64(5000), CouponDiscount(coupon, 22500))

	// Under the cap, the raw percentage applies.
	assert.Equal(t, int64(4000), CouponDiscount(coupon, 8000))
}

func TestCouponDiscountPercentageRounding(t *testing.T) {
	coupon := &models.Coupon{DiscountType: models.CouponTypePercentage, DiscountValue: 33}
	// 33% of 101 is 33.33, rounds to 33.
	assert.Equal(t, int64(33), CouponDiscount(coupon, 101))
	// 33% of 150 is 49.5, rounds half-up to 50.
	assert.Equal(t, int64(50), CouponDiscount(coupon, 150))
}

func TestComputeTotalsNoCoupon(t *testing.T) {
	lines := []CartLine{{UnitPrice: 10000, Quantity: 2}, {UnitPrice: 2500, Quantity: 1}}

	totals := ComputeTotals(lines, nil, testCheckoutConfig)

	assert.Equal(t, int64(22500), totals.Subtotal)
	assert.Equal(t, int64(0), totals.DiscountAmount)
	assert.Equal(t, int64(5000), totals.DeliveryCharge)
	assert.Equal(t, int64(27500), totals.TotalAmount)
}

func TestComputeTotalsFreeDelivery(t *testing.T) {
	lines := []CartLine{{UnitPrice: 25000, Quantity: 2}}

	totals := ComputeTotals(lines, nil, testCheckoutConfig)

	assert.Equal(t, int64(50000), totals.Subtotal)
	assert.Equal(t, int64(0), totals.DeliveryCharge)
	assert.Equal(t, int64(50000), totals.TotalAmount)
}

func TestComputeTotalsWithFixedCoupon(t *testing.T) {
	lines := []CartLine{{UnitPrice: 10000, Quantity: 2}, {UnitPrice: 2500, Quantity: 1}}
	coupon := &models.Coupon{DiscountType: models.CouponTypeFixed, DiscountValue: 3000}

	totals := ComputeTotals(lines, coupon, testCheckoutConfig)

	assert.Equal(t, int64(22500), totals.Subtotal)
	assert.Equal(t, int64(3000), totals.DiscountAmount)
	assert.Equal(t, int64(5000), totals.DeliveryCharge)
	assert.Equal(t, int64(24500), totals.TotalAmount)
}

func TestComputeTotalsFloorsAtZero(t *testing.T) {
	lines := []CartLine{{UnitPrice: 1000, Quantity: 1}}
	coupon := &models.Coupon{DiscountType: models.CouponTypeFixed, DiscountValue: 99999}

	totals := ComputeTotals(lines, coupon, testCheckoutConfig)

	assert.Equal(t, int64(0), totals.TotalAmount)
	// Discount is clamped so the identity total = subtotal - discount +
	// delivery still holds.
	assert.Equal(t, totals.Subtotal-totals.DiscountAmount+totals.DeliveryCharge, totals.TotalAmount)
}

func TestComputeTotalsInvariant(t *testing.T) {
	cases := []struct {
		lines  []CartLine
		coupon *models.Coupon
	}{
		{[]CartLine{{UnitPrice: 100, Quantity: 3}}, nil},
		{[]CartLine{{UnitPrice: 60000, Quantity: 1}}, &models.Coupon{DiscountType: models.CouponTypePercentage, DiscountValue: 10}},
		{[]CartLine{{UnitPrice: 500, Quantity: 2}}, &models.Coupon{DiscountType: models.CouponTypeFixed, DiscountValue: 800}},
	}

	for _, tc := range cases {
		totals := ComputeTotals(tc.lines, tc.coupon, testCheckoutConfig)
		assert.Equal(t, totals.Subtotal-totals.DiscountAmount+totals.DeliveryCharge, totals.TotalAmount)
		assert.GreaterOrEqual(t, totals.TotalAmount, int64(0))
	}
}
