// internal/models/cart.go
package models

// CartItem holds one row per (user, product); quantity updates replace
// the stored value in place.
type CartItem struct {
	BaseModel
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int  `json:"quantity" gorm:"not null;default:1"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// WishlistItem is unique per (user, product); a duplicate add is a
// conflict, not a second row.
type WishlistItem struct {
	BaseModel
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uint `json:"product_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
