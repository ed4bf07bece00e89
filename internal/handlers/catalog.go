// internal/handlers/catalog.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/freshkart/grocery-backend/internal/models"
	"github.com/freshkart/grocery-backend/internal/services"
	"github.com/freshkart/grocery-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// degradeList logs a store failure on a read path and keeps browsing
// functional with an empty result.
func degradeList(c *gin.Context, err error, what string) {
	logrus.WithError(err).Warnf("Degrading %s listing to empty result", what)
	utils.SuccessResponse(c, []struct{}{})
}

// GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		degradeList(c, err, "category")
		return
	}
	utils.SuccessResponse(c, categories)
}

// GET /categories/:slug — absence is a null payload, not an error.
func (h *CatalogHandler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.catalogService.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if category == nil {
		utils.SuccessResponse(c, gin.H{"category": nil})
		return
	}
	utils.SuccessResponse(c, gin.H{"category": category})
}

// GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := services.ProductFilter{PaginationParams: utils.GetPaginationParams(c)}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid category ID", nil)
			return
		}
		id := uint(categoryID)
		filter.CategoryID = &id
	}

	products, total, err := h.catalogService.ListProducts(filter)
	if err != nil {
		degradeList(c, err, "product")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, filter.PaginationParams))
}

// GET /products/featured
func (h *CatalogHandler) FeaturedProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := h.catalogService.FeaturedProducts(limit)
	if err != nil {
		degradeList(c, err, "featured product")
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if product == nil {
		utils.SuccessResponse(c, gin.H{"product": nil})
		return
	}
	utils.SuccessResponse(c, gin.H{"product": product})
}

// GET /products/:id/reviews
func (h *CatalogHandler) ListReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.catalogService.ReviewsByProduct(id)
	if err != nil {
		degradeList(c, err, "review")
		return
	}
	utils.SuccessResponse(c, reviews)
}

// POST /products/:id/reviews
func (h *CatalogHandler) CreateReview(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	review, err := h.catalogService.CreateReview(userID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.CreatedResponse(c, review)
}

// GET /banners
func (h *CatalogHandler) ListBanners(c *gin.Context) {
	banners, err := h.catalogService.ListBanners()
	if err != nil {
		degradeList(c, err, "banner")
		return
	}
	utils.SuccessResponse(c, banners)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

func isAdmin(c *gin.Context) bool {
	role, _ := utils.GetUserRoleFromContext(c)
	return role == string(models.UserRoleAdmin)
}
