// internal/services/pricing.go
package services

import (
	"github.com/freshkart/grocery-backend/internal/config"
	"github.com/freshkart/grocery-backend/internal/models"
)

// CartLine is one cart row resolved against the current product record
// at checkout time. UnitPrice already reflects the product's discount
// percentage and is in minor currency units.
type CartLine struct {
	ProductID uint
	Name      string
	Image     string
	UnitPrice int64
	Quantity  int
}

// Totals is the monetary breakdown of a checkout, all minor units.
// TotalAmount = Subtotal - DiscountAmount + DeliveryCharge, never
// negative.
type Totals struct {
	Subtotal       int64
	DiscountAmount int64
	DeliveryCharge int64
	TotalAmount    int64
}

// DiscountedUnitPrice applies the product discount percentage to the
// listed price, rounding half-up to whole minor units so no fractional
// paise ever appear.
func DiscountedUnitPrice(price int64, discountPercentage int) int64 {
	if discountPercentage <= 0 {
		return price
	}
	if discountPercentage >= 100 {
		return 0
	}
	return (price*int64(100-discountPercentage) + 50) / 100
}

func Subtotal(lines []CartLine) int64 {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}
	return subtotal
}

// CouponDiscount computes the discount a valid coupon yields on the
// given subtotal: the fixed value, or the percentage of the subtotal,
// capped by MaxDiscount when one is set.
func CouponDiscount(coupon *models.Coupon, subtotal int64) int64 {
	var discount int64
	switch coupon.DiscountType {
	case models.CouponTypeFixed:
		discount = coupon.DiscountValue
	case models.CouponTypePercentage:
		discount = (subtotal*coupon.DiscountValue + 50) / 100
	}

	if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
		discount = *coupon.MaxDiscount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// ComputeTotals derives the full monetary breakdown for a cart. The
// delivery charge is waived once the subtotal meets the free-delivery
// threshold. A discount larger than subtotal plus delivery is clamped
// so the total floors at zero.
func ComputeTotals(lines []CartLine, coupon *models.Coupon, cfg config.CheckoutConfig) Totals {
	subtotal := Subtotal(lines)

	delivery := cfg.DeliveryCharge
	if subtotal >= cfg.FreeDeliveryThreshold {
		delivery = 0
	}

	var discount int64
	if coupon != nil {
		discount = CouponDiscount(coupon, subtotal)
	}

	total := subtotal - discount + delivery
	if total < 0 {
		discount = subtotal + delivery
		total = 0
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		DeliveryCharge: delivery,
		TotalAmount:    total,
	}
}
