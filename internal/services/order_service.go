// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/freshkart/grocery-backend/internal/config"
	"github.com/freshkart/grocery-backend/internal/models"
	"github.com/freshkart/grocery-backend/internal/utils"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("a cart product is no longer available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
	ErrOrderNotPending    = errors.New("order is no longer pending")
	ErrOrderNotShipped    = errors.New("order is not out for delivery")
	ErrOtpInvalid         = errors.New("delivery code verification failed")
	ErrOtpResendLimit     = errors.New("delivery code resend limit reached")
)

type OrderService struct {
	db      *gorm.DB
	cfg     *config.Config
	coupons *CouponService
}

func NewOrderService(db *gorm.DB, cfg *config.Config, coupons *CouponService) *OrderService {
	return &OrderService{db: db, cfg: cfg, coupons: coupons}
}

type CheckoutRequest struct {
	AddressID     uint   `json:"address_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card upi cod"`
	CouponCode    string `json:"coupon_code,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Checkout materializes the caller's cart as an immutable order. The
// whole unit runs in one transaction: totals are computed server-side
// from current product prices, stock is decremented with a guard,
// coupon usage is consumed with a guard, snapshot items are written
// and the cart is cleared. A coupon that fails validation aborts the
// checkout with its rejection reason; it never silently degrades to an
// undiscounted order.
func (s *OrderService) Checkout(userID uint, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", req.AddressID, userID).First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var cartItems []models.CartItem
		if err := tx.Where("user_id = ?", userID).Preload("Product").Find(&cartItems).Error; err != nil {
			return fmt.Errorf("failed to fetch cart: %w", err)
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		lines := make([]CartLine, 0, len(cartItems))
		for _, item := range cartItems {
			product := item.Product
			if product.ID == 0 || !product.IsActive {
				return ErrProductUnavailable
			}
			lines = append(lines, CartLine{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.ImageURL,
				UnitPrice: DiscountedUnitPrice(product.Price, product.DiscountPercentage),
				Quantity:  item.Quantity,
			})
		}

		subtotal := Subtotal(lines)

		var coupon *models.Coupon
		if req.CouponCode != "" {
			found, err := s.coupons.findByCode(tx, req.CouponCode)
			if err != nil {
				return err
			}
			if err := ValidateCoupon(found, subtotal, time.Now()); err != nil {
				return err
			}
			coupon = found
		}

		totals := ComputeTotals(lines, coupon, s.cfg.Checkout)

		// Guarded decrement so two racing checkouts cannot both take
		// the last unit.
		for _, line := range lines {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to update stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		if coupon != nil {
			if err := s.coupons.Consume(tx, coupon.ID); err != nil {
				return err
			}
		}

		orderNumber, err := utils.GenerateOrderNumber(time.Now())
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}

		order = &models.Order{
			UserID:         userID,
			OrderNumber:    orderNumber,
			AddressID:      req.AddressID,
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.DiscountAmount,
			DeliveryCharge: totals.DeliveryCharge,
			TotalAmount:    totals.TotalAmount,
			Status:         models.OrderStatusPending,
			PaymentMethod:  req.PaymentMethod,
			PaymentStatus:  models.PaymentStatusPending,
			Notes:          req.Notes,
		}
		if coupon != nil {
			order.CouponCode = coupon.Code
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				OrderID:      order.ID,
				ProductID:    line.ProductID,
				ProductName:  line.Name,
				ProductImage: line.Image,
				Quantity:     line.Quantity,
				Price:        line.UnitPrice,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.Items = items

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(userID uint, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).
		Preload("Items").
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, total, nil
}

// GetOrder returns the order when it belongs to the caller (admins see
// all); (nil, nil) when absent.
func (s *OrderService) GetOrder(userID, orderID uint, isAdmin bool) (*models.Order, error) {
	query := s.db.Preload("Items").Preload("Address")
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var order models.Order
	if err := query.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) OrderItems(userID, orderID uint, isAdmin bool) ([]models.OrderItem, error) {
	order, err := s.GetOrder(userID, orderID, isAdmin)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order.Items, nil
}

type AppendItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

// AppendItem adds one snapshot line to a still-pending order the
// caller owns and recomputes the order's figures in the same
// transaction so the monetary invariants keep holding.
func (s *OrderService) AppendItem(userID, orderID uint, req *AppendItemRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}
		if order.Status != models.OrderStatusPending {
			return ErrOrderNotPending
		}

		var product models.Product
		if err := tx.Where("is_active = ?", true).First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", product.ID, req.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", req.Quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to update stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		item := models.OrderItem{
			OrderID:      order.ID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.ImageURL,
			Quantity:     req.Quantity,
			Price:        DiscountedUnitPrice(product.Price, product.DiscountPercentage),
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to fetch order items: %w", err)
		}

		var subtotal int64
		for _, it := range items {
			subtotal += it.Price * int64(it.Quantity)
		}

		delivery := s.cfg.Checkout.DeliveryCharge
		if subtotal >= s.cfg.Checkout.FreeDeliveryThreshold {
			delivery = 0
		}

		total := subtotal - order.DiscountAmount + delivery
		if total < 0 {
			total = 0
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"subtotal":        subtotal,
			"delivery_charge": delivery,
			"total_amount":    total,
		}).Error; err != nil {
			return fmt.Errorf("failed to update order totals: %w", err)
		}

		order.Subtotal = subtotal
		order.DeliveryCharge = delivery
		order.TotalAmount = total
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order along the forward-only progression.
// The shipped to delivered step is reserved for OTP verification, so
// it is rejected here. Moving to shipped issues the delivery code.
func (s *OrderService) UpdateStatus(orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, ErrInvalidTransition
	}
	if next == models.OrderStatusDelivered {
		return nil, ErrInvalidTransition
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !order.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		updates := map[string]interface{}{"status": next}

		if next == models.OrderStatusShipped {
			code, expiry, err := s.newOtp()
			if err != nil {
				return err
			}
			updates["delivery_otp"] = code
			updates["delivery_otp_expiry"] = expiry
			updates["delivery_otp_verified"] = false
			order.DeliveryOtp = code
			order.DeliveryOtpExpiry = &expiry
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required"`
	PaymentID     string               `json:"payment_id,omitempty" validate:"omitempty,max=255"`
}

func (s *OrderService) UpdatePaymentStatus(userID, orderID uint, isAdmin bool, req *UpdatePaymentStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.PaymentStatus.IsValid() {
		return nil, fmt.Errorf("invalid payment status %q", req.PaymentStatus)
	}

	order, err := s.GetOrder(userID, orderID, isAdmin)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	updates := map[string]interface{}{"payment_status": req.PaymentStatus}
	if req.PaymentID != "" {
		updates["payment_id"] = req.PaymentID
	}

	if err := s.db.Model(order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	order.PaymentStatus = req.PaymentStatus
	if req.PaymentID != "" {
		order.PaymentID = req.PaymentID
	}
	return order, nil
}

// ResendOtp overwrites the previous delivery code with a fresh one,
// up to the configured resend cap.
func (s *OrderService) ResendOtp(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status != models.OrderStatusShipped {
			return ErrOrderNotShipped
		}
		if order.OtpResendCount >= s.cfg.Checkout.MaxOtpResends {
			return ErrOtpResendLimit
		}

		code, expiry, err := s.newOtp()
		if err != nil {
			return err
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"delivery_otp":          code,
			"delivery_otp_expiry":   expiry,
			"delivery_otp_verified": false,
			"otp_resend_count":      gorm.Expr("otp_resend_count + 1"),
		}).Error; err != nil {
			return fmt.Errorf("failed to reissue delivery code: %w", err)
		}

		order.DeliveryOtp = code
		order.DeliveryOtpExpiry = &expiry
		order.DeliveryOtpVerified = false
		order.OtpResendCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyOtp checks the supplied code and, on success, performs the
// only shipped to delivered transition the system allows. Mismatch and
// expiry are reported as the same generic failure so the caller cannot
// tell a wrong code from an expired one.
func (s *OrderService) VerifyOtp(userID, orderID uint, isAdmin bool, code string) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Order{})
		if !isAdmin {
			query = query.Where("user_id = ?", userID)
		}
		if err := query.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status != models.OrderStatusShipped {
			return ErrOrderNotShipped
		}
		if !order.OtpValid(code, time.Now()) {
			return ErrOtpInvalid
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"delivery_otp_verified": true,
			"status":                models.OrderStatusDelivered,
		}).Error; err != nil {
			return fmt.Errorf("failed to complete delivery: %w", err)
		}

		order.DeliveryOtpVerified = true
		order.Status = models.OrderStatusDelivered
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) newOtp() (string, time.Time, error) {
	code, err := utils.GenerateNumericCode(s.cfg.Checkout.OtpLength)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate delivery code: %w", err)
	}
	expiry := time.Now().Add(time.Duration(s.cfg.Checkout.OtpTTLMinutes) * time.Minute)
	return code, expiry, nil
}
