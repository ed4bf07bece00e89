// internal/handlers/coupon.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/freshkart/grocery-backend/internal/services"
	"github.com/freshkart/grocery-backend/internal/utils"
)

type CouponHandler struct {
	couponService *services.CouponService
}

func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

type validateCouponRequest struct {
	Code        string `json:"code" validate:"required"`
	OrderAmount int64  `json:"order_amount" validate:"gte=0"`
}

// POST /coupons/validate — a rejected coupon is a normal answer, not
// an HTTP error: the storefront shows the reason inline.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	coupon, err := h.couponService.Validate(req.Code, req.OrderAmount)
	if err != nil {
		if isCouponRejection(err) {
			utils.SuccessResponse(c, gin.H{"valid": false, "message": err.Error()})
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"valid": true, "coupon": coupon})
}
