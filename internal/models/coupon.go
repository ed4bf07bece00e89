// internal/models/coupon.go
package models

import "time"

type Coupon struct {
	BaseModel
	Code           string     `json:"code" gorm:"uniqueIndex;size:50;not null"`
	Description    string     `json:"description" gorm:"size:255"`
	DiscountType   CouponType `json:"discount_type" gorm:"type:varchar(20);not null"`
	DiscountValue  int64      `json:"discount_value" gorm:"not null"` // percent for percentage type, minor units for fixed
	MinOrderAmount int64      `json:"min_order_amount" gorm:"default:0"`
	MaxDiscount    *int64     `json:"max_discount"` // nil means no cap
	UsageLimit     *int       `json:"usage_limit"`  // nil means unlimited
	UsageCount     int        `json:"usage_count" gorm:"default:0"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	IsActive       bool       `json:"is_active" gorm:"default:true;index"`
}
