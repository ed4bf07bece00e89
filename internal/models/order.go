// internal/models/order.go
package models

import "time"

// Order rows are created at checkout and immutable thereafter except
// for status, payment status and the delivery OTP fields. Monetary
// figures satisfy total = subtotal - discount + delivery at all times.
type Order struct {
	BaseModel
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	OrderNumber string `json:"order_number" gorm:"uniqueIndex;size:40;not null"`
	AddressID   uint   `json:"address_id" gorm:"not null"`

	Subtotal       int64 `json:"subtotal" gorm:"not null"`
	DiscountAmount int64 `json:"discount_amount" gorm:"default:0"`
	DeliveryCharge int64 `json:"delivery_charge" gorm:"default:0"`
	TotalAmount    int64 `json:"total_amount" gorm:"not null"`

	Status        OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod string        `json:"payment_method" gorm:"size:20;not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`
	PaymentID     string        `json:"payment_id" gorm:"size:255"`
	CouponCode    string        `json:"coupon_code" gorm:"size:50"`
	Notes         string        `json:"notes" gorm:"type:text"`

	DeliveryOtp         string     `json:"-" gorm:"size:10"`
	DeliveryOtpExpiry   *time.Time `json:"-"`
	DeliveryOtpVerified bool       `json:"delivery_otp_verified" gorm:"default:false"`
	OtpResendCount      int        `json:"-" gorm:"default:0"`

	Items   []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Address Address     `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

// OtpValid reports whether code matches the stored OTP before its
// expiry. Callers surface any failure as one generic message so a
// delivery-side caller cannot distinguish a wrong code from an
// expired one.
func (o *Order) OtpValid(code string, now time.Time) bool {
	if o.DeliveryOtp == "" || o.DeliveryOtpExpiry == nil {
		return false
	}
	if !now.Before(*o.DeliveryOtpExpiry) {
		return false
	}
	return o.DeliveryOtp == code
}

// OrderItem freezes product name, image and unit price at order time
// so later product edits do not alter historical orders.
type OrderItem struct {
	BaseModel
	OrderID      uint   `json:"order_id" gorm:"not null;index"`
	ProductID    uint   `json:"product_id" gorm:"not null"`
	ProductName  string `json:"product_name" gorm:"size:255;not null"`
	ProductImage string `json:"product_image" gorm:"size:512"`
	Quantity     int    `json:"quantity" gorm:"not null"`
	Price        int64  `json:"price" gorm:"not null"` // snapshot, minor units
}
