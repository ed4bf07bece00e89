// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	// OpenID is the external-identity token the mobile client obtains
	// from its identity provider. The exchange itself happens upstream;
	// the backend only upserts on it.
	OpenID       string     `json:"open_id" gorm:"uniqueIndex;size:255;not null"`
	Name         string     `json:"name" gorm:"size:100"`
	Email        string     `json:"email" gorm:"index;size:255"`
	PasswordHash string     `json:"-" gorm:"size:255"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'user'"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Addresses      []Address       `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
	CartItems      []CartItem      `json:"cart_items,omitempty" gorm:"foreignKey:UserID"`
	WishlistItems  []WishlistItem  `json:"wishlist_items,omitempty" gorm:"foreignKey:UserID"`
	Orders         []Order         `json:"orders,omitempty" gorm:"foreignKey:UserID"`
	PaymentMethods []PaymentMethod `json:"payment_methods,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

type Address struct {
	BaseModel
	UserID    uint        `json:"user_id" gorm:"not null;index"`
	Type      AddressType `json:"type" gorm:"type:varchar(10);default:'home'"`
	Name      string      `json:"name" gorm:"size:100;not null"`
	Phone     string      `json:"phone" gorm:"size:20;not null"`
	Line1     string      `json:"line1" gorm:"size:255;not null"`
	Line2     string      `json:"line2" gorm:"size:255"`
	City      string      `json:"city" gorm:"size:100;not null"`
	State     string      `json:"state" gorm:"size:100"`
	Pincode   string      `json:"pincode" gorm:"size:10;not null"`
	IsDefault bool        `json:"is_default" gorm:"default:false"`
}

type PaymentMethod struct {
	BaseModel
	UserID    uint   `json:"user_id" gorm:"not null;index"`
	Type      string `json:"type" gorm:"size:20;not null"` // card, upi, cod
	CardLast4 string `json:"card_last4" gorm:"size:4"`
	CardBrand string `json:"card_brand" gorm:"size:20"`
	UPIHandle string `json:"upi_handle" gorm:"size:100"`
	IsDefault bool   `json:"is_default" gorm:"default:false"`
}
