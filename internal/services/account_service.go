// internal/services/account_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/freshkart/grocery-backend/internal/models"
	"github.com/freshkart/grocery-backend/internal/utils"
)

var (
	ErrAddressNotFound       = errors.New("address not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
)

// AccountService manages the per-user book-keeping entities: delivery
// addresses and saved payment methods. All operations are scoped to
// the owning user.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

func (s *AccountService) ListAddresses(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch addresses: %w", err)
	}
	return addresses, nil
}

type CreateAddressRequest struct {
	Type      models.AddressType `json:"type" validate:"omitempty,oneof=home work other"`
	Name      string             `json:"name" validate:"required,max=100"`
	Phone     string             `json:"phone" validate:"required,max=20"`
	Line1     string             `json:"line1" validate:"required,max=255"`
	Line2     string             `json:"line2,omitempty" validate:"omitempty,max=255"`
	City      string             `json:"city" validate:"required,max=100"`
	State     string             `json:"state,omitempty" validate:"omitempty,max=100"`
	Pincode   string             `json:"pincode" validate:"required,max=10"`
	IsDefault bool               `json:"is_default"`
}

func (s *AccountService) CreateAddress(userID uint, req *CreateAddressRequest) (*models.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	addrType := req.Type
	if addrType == "" {
		addrType = models.AddressTypeHome
	}

	address := &models.Address{
		UserID:    userID,
		Type:      addrType,
		Name:      req.Name,
		Phone:     req.Phone,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		IsDefault: req.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := s.unsetDefaultAddress(tx, userID); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}

type UpdateAddressRequest struct {
	Type      *models.AddressType `json:"type,omitempty" validate:"omitempty,oneof=home work other"`
	Name      *string             `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone     *string             `json:"phone,omitempty" validate:"omitempty,max=20"`
	Line1     *string             `json:"line1,omitempty" validate:"omitempty,max=255"`
	Line2     *string             `json:"line2,omitempty" validate:"omitempty,max=255"`
	City      *string             `json:"city,omitempty" validate:"omitempty,max=100"`
	State     *string             `json:"state,omitempty" validate:"omitempty,max=100"`
	Pincode   *string             `json:"pincode,omitempty" validate:"omitempty,max=10"`
	IsDefault *bool               `json:"is_default,omitempty"`
}

func (s *AccountService) UpdateAddress(userID, addressID uint, req *UpdateAddressRequest) (*models.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var address models.Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Line1 != nil {
		updates["line1"] = *req.Line1
	}
	if req.Line2 != nil {
		updates["line2"] = *req.Line2
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Pincode != nil {
		updates["pincode"] = *req.Pincode
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := s.unsetDefaultAddress(tx, userID); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&address).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return &address, nil
}

func (s *AccountService) DeleteAddress(userID, addressID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.Address{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (s *AccountService) unsetDefaultAddress(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (s *AccountService) ListPaymentMethods(userID uint) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch payment methods: %w", err)
	}
	return methods, nil
}

// CreatePaymentMethodRequest stores masked identifiers only; raw card
// numbers never reach this backend.
type CreatePaymentMethodRequest struct {
	Type      string `json:"type" validate:"required,oneof=card upi cod"`
	CardLast4 string `json:"card_last4,omitempty" validate:"omitempty,len=4,numeric"`
	CardBrand string `json:"card_brand,omitempty" validate:"omitempty,max=20"`
	UPIHandle string `json:"upi_handle,omitempty" validate:"omitempty,max=100"`
	IsDefault bool   `json:"is_default"`
}

func (s *AccountService) CreatePaymentMethod(userID uint, req *CreatePaymentMethodRequest) (*models.PaymentMethod, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	method := &models.PaymentMethod{
		UserID:    userID,
		Type:      req.Type,
		CardLast4: req.CardLast4,
		CardBrand: req.CardBrand,
		UPIHandle: req.UPIHandle,
		IsDefault: req.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.PaymentMethod{}).
				Where("user_id = ? AND is_default = ?", userID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(method).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return method, nil
}

func (s *AccountService) DeletePaymentMethod(userID, methodID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", methodID, userID).Delete(&models.PaymentMethod{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete payment method: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}
