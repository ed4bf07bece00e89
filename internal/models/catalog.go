// internal/models/catalog.go
package models

import "time"

type Category struct {
	BaseModel
	Name     string `json:"name" gorm:"size:100;not null"`
	Slug     string `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	ImageURL string `json:"image_url" gorm:"size:512"`
	Position int    `json:"position" gorm:"default:0"`
	IsActive bool   `json:"is_active" gorm:"default:true;index"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	CategoryID  uint   `json:"category_id" gorm:"not null;index"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url" gorm:"size:512"`
	Unit        string `json:"unit" gorm:"size:50"` // e.g. "500 g", "1 L"

	// Price fields are integer minor currency units (paise).
	Price              int64 `json:"price" gorm:"not null"`
	OriginalPrice      int64 `json:"original_price"`
	DiscountPercentage int   `json:"discount_percentage" gorm:"default:0"`

	Stock       int  `json:"stock" gorm:"default:0"`
	Rating      int  `json:"rating" gorm:"default:0"` // 0..5
	ReviewCount int  `json:"review_count" gorm:"default:0"`
	IsActive    bool `json:"is_active" gorm:"default:true;index"`
	IsFeatured  bool `json:"is_featured" gorm:"default:false;index"`

	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Reviews  []Review `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}

type Review struct {
	BaseModel
	ProductID  uint   `json:"product_id" gorm:"not null;index"`
	UserID     uint   `json:"user_id" gorm:"not null;index"`
	Rating     int    `json:"rating" gorm:"not null"` // 1..5
	Title      string `json:"title" gorm:"size:255"`
	Comment    string `json:"comment" gorm:"type:text"`
	IsVerified bool   `json:"is_verified" gorm:"default:false"`
}

type Banner struct {
	BaseModel
	Title     string     `json:"title" gorm:"size:255;not null"`
	ImageURL  string     `json:"image_url" gorm:"size:512;not null"`
	Link      string     `json:"link" gorm:"size:512"`
	Position  int        `json:"position" gorm:"default:0"`
	IsActive  bool       `json:"is_active" gorm:"default:true;index"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}
