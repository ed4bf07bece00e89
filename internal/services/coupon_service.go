// internal/services/coupon_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/freshkart/grocery-backend/internal/models"
	"github.com/freshkart/grocery-backend/internal/utils"
)

// Rejection reasons, one per failing check, in precedence order.
var (
	ErrCouponNotFound          = errors.New("coupon not found")
	ErrCouponInactive          = errors.New("coupon is inactive")
	ErrCouponExpired           = errors.New("coupon has expired")
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")
	ErrCouponBelowMinimum      = errors.New("order amount is below the coupon minimum")
)

type CouponService struct {
	db *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

// ValidateCoupon runs the validity checks in precedence order; the
// first failing check wins. It has no side effects, so validating the
// same coupon twice without an intervening order yields the same
// answer. Consumption happens separately at order placement.
func ValidateCoupon(coupon *models.Coupon, orderAmount int64, now time.Time) error {
	if !coupon.IsActive {
		return ErrCouponInactive
	}
	if coupon.ExpiryDate != nil && coupon.ExpiryDate.Before(now) {
		return ErrCouponExpired
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return ErrCouponUsageLimitReached
	}
	if coupon.MinOrderAmount > 0 && orderAmount < coupon.MinOrderAmount {
		return ErrCouponBelowMinimum
	}
	return nil
}

// Validate looks the code up and checks it against the proposed order
// amount (pre-discount). Pure read.
func (s *CouponService) Validate(code string, orderAmount int64) (*models.Coupon, error) {
	coupon, err := s.findByCode(s.db, code)
	if err != nil {
		return nil, err
	}
	if err := ValidateCoupon(coupon, orderAmount, time.Now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) findByCode(tx *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := tx.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &coupon, nil
}

// Consume increments the usage count with a limit guard in one atomic
// statement, so two racing checkouts cannot both take the last use.
func (s *CouponService) Consume(tx *gorm.DB, couponID uint) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", couponID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to consume coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponUsageLimitReached
	}
	return nil
}

type CreateCouponRequest struct {
	Code           string            `json:"code" validate:"required,min=3,max=50"`
	Description    string            `json:"description,omitempty"`
	DiscountType   models.CouponType `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue  int64             `json:"discount_value" validate:"required,gt=0"`
	MinOrderAmount int64             `json:"min_order_amount" validate:"gte=0"`
	MaxDiscount    *int64            `json:"max_discount,omitempty" validate:"omitempty,gt=0"`
	UsageLimit     *int              `json:"usage_limit,omitempty" validate:"omitempty,gt=0"`
	ExpiryDate     *time.Time        `json:"expiry_date,omitempty"`
}

func (s *CouponService) CreateCoupon(req *CreateCouponRequest) (*models.Coupon, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.DiscountType == models.CouponTypePercentage && req.DiscountValue > 100 {
		return nil, errors.New("percentage discount cannot exceed 100")
	}

	coupon := &models.Coupon{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		UsageLimit:     req.UsageLimit,
		ExpiryDate:     req.ExpiryDate,
		IsActive:       true,
	}

	if err := s.db.Create(coupon).Error; err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return coupon, nil
}

type UpdateCouponRequest struct {
	Description *string    `json:"description,omitempty"`
	MaxDiscount *int64     `json:"max_discount,omitempty"`
	UsageLimit  *int       `json:"usage_limit,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

func (s *CouponService) UpdateCoupon(id uint, req *UpdateCouponRequest) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.MaxDiscount != nil {
		updates["max_discount"] = *req.MaxDiscount
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&coupon).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update coupon: %w", err)
		}
	}
	return &coupon, nil
}

func (s *CouponService) ListCoupons() ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch coupons: %w", err)
	}
	return coupons, nil
}
