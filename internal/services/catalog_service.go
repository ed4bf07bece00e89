// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/freshkart/grocery-backend/internal/models"
	"github.com/freshkart/grocery-backend/internal/utils"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrBannerNotFound   = errors.New("banner not found")
)

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListCategories returns active categories in display order.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("is_active = ?", true).
		Order("position ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug returns (nil, nil) when no active category matches;
// absence is a normal answer on read paths, not a failure.
func (s *CatalogService) GetCategoryBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("slug = ? AND is_active = ?", slug, true).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

type ProductFilter struct {
	utils.PaginationParams
	CategoryID *uint
}

func (s *CatalogService) ListProducts(filter ProductFilter) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Where("is_active = ?", true)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := utils.ApplyPagination(query.Order("created_at DESC"), filter.PaginationParams).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("is_active = ?", true).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) FeaturedProducts(limit int) ([]models.Product, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	var products []models.Product
	if err := s.db.Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return products, nil
}

// ListBanners returns active banners inside their display window, in
// display order.
func (s *CatalogService) ListBanners() ([]models.Banner, error) {
	now := time.Now()
	var banners []models.Banner
	if err := s.db.Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("position ASC").
		Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch banners: %w", err)
	}
	return banners, nil
}

func (s *CatalogService) ReviewsByProduct(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, nil
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title,omitempty" validate:"omitempty,max=255"`
	Comment string `json:"comment,omitempty"`
}

// CreateReview stores a storefront review. Verification is a back
// office decision, so is_verified is always false here regardless of
// input. The product's aggregate rating and review count are updated
// in the same transaction.
func (s *CatalogService) CreateReview(userID, productID uint, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review *models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("is_active = ?", true).First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		review = &models.Review{
			ProductID:  productID,
			UserID:     userID,
			Rating:     req.Rating,
			Title:      req.Title,
			Comment:    req.Comment,
			IsVerified: false,
		}
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		// Aggregate rating is kept as a whole-star integer, rounded
		// half-up.
		var stats struct {
			Count int64
			Sum   int64
		}
		if err := tx.Model(&models.Review{}).
			Where("product_id = ?", productID).
			Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
			Scan(&stats).Error; err != nil {
			return fmt.Errorf("failed to aggregate reviews: %w", err)
		}

		rating := int((stats.Sum + stats.Count/2) / stats.Count)
		return tx.Model(&product).Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": stats.Count,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Admin-managed catalog writes.

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Slug     string `json:"slug" validate:"required,min=2,max=100"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	Position int    `json:"position"`
}

func (s *CatalogService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category := &models.Category{
		Name:     req.Name,
		Slug:     req.Slug,
		ImageURL: req.ImageURL,
		Position: req.Position,
		IsActive: true,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	ImageURL *string `json:"image_url,omitempty"`
	Position *int    `json:"position,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (s *CatalogService) UpdateCategory(id uint, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}
	return &category, nil
}

type CreateProductRequest struct {
	CategoryID         uint   `json:"category_id" validate:"required"`
	Name               string `json:"name" validate:"required,min=2,max=255"`
	Description        string `json:"description,omitempty"`
	ImageURL           string `json:"image_url,omitempty" validate:"omitempty,url"`
	Unit               string `json:"unit,omitempty" validate:"omitempty,max=50"`
	Price              int64  `json:"price" validate:"required,gt=0"`
	OriginalPrice      int64  `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	DiscountPercentage int    `json:"discount_percentage" validate:"gte=0,lte=100"`
	Stock              int    `json:"stock" validate:"gte=0"`
	IsFeatured         bool   `json:"is_featured"`
}

func (s *CatalogService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	product := &models.Product{
		CategoryID:         req.CategoryID,
		Name:               req.Name,
		Description:        req.Description,
		ImageURL:           req.ImageURL,
		Unit:               req.Unit,
		Price:              req.Price,
		OriginalPrice:      req.OriginalPrice,
		DiscountPercentage: req.DiscountPercentage,
		Stock:              req.Stock,
		IsActive:           true,
		IsFeatured:         req.IsFeatured,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

type UpdateProductRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description        *string `json:"description,omitempty"`
	ImageURL           *string `json:"image_url,omitempty"`
	Unit               *string `json:"unit,omitempty" validate:"omitempty,max=50"`
	Price              *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	OriginalPrice      *int64  `json:"original_price,omitempty"`
	DiscountPercentage *int    `json:"discount_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Stock              *int    `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive           *bool   `json:"is_active,omitempty"`
	IsFeatured         *bool   `json:"is_featured,omitempty"`
}

func (s *CatalogService) UpdateProduct(id uint, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.DiscountPercentage != nil {
		updates["discount_percentage"] = *req.DiscountPercentage
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return &product, nil
}

type CreateBannerRequest struct {
	Title     string     `json:"title" validate:"required,max=255"`
	ImageURL  string     `json:"image_url" validate:"required,url"`
	Link      string     `json:"link,omitempty" validate:"omitempty,url"`
	Position  int        `json:"position"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

func (s *CatalogService) CreateBanner(req *CreateBannerRequest) (*models.Banner, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	banner := &models.Banner{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		Link:      req.Link,
		Position:  req.Position,
		IsActive:  true,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.db.Create(banner).Error; err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	return banner, nil
}

type UpdateBannerRequest struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	ImageURL  *string    `json:"image_url,omitempty"`
	Link      *string    `json:"link,omitempty"`
	Position  *int       `json:"position,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

func (s *CatalogService) UpdateBanner(id uint, req *UpdateBannerRequest) (*models.Banner, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var banner models.Banner
	if err := s.db.First(&banner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Link != nil {
		updates["link"] = *req.Link
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(&banner).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update banner: %w", err)
		}
	}
	return &banner, nil
}
