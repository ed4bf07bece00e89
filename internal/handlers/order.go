// internal/handlers/order.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/freshkart/grocery-backend/internal/models"
	"github.com/freshkart/grocery-backend/internal/services"
	"github.com/freshkart/grocery-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /orders — checkout. The caller supplies the address, payment
// method and an optional coupon code; every monetary figure is computed
// server-side.
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.Checkout(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAddressNotFound):
			utils.NotFoundResponse(c, "Address")
		case errors.Is(err, services.ErrEmptyCart),
			errors.Is(err, services.ErrProductUnavailable),
			errors.Is(err, services.ErrInsufficientStock):
			utils.BadRequestResponse(c, err.Error(), nil)
		case isCouponRejection(err):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}
	utils.CreatedResponse(c, order)
}

// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.orderService.ListOrders(userID, params)
	if err != nil {
		degradeList(c, err, "order")
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// GET /orders/:id — absence is a null payload, not an error.
func (h *OrderHandler) Get(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(userID, id, isAdmin(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if order == nil {
		utils.SuccessResponse(c, gin.H{"order": nil})
		return
	}
	utils.SuccessResponse(c, gin.H{"order": order})
}

// GET /orders/:id/items
func (h *OrderHandler) ListItems(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.orderService.OrderItems(userID, id, isAdmin(c))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "Order")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, items)
}

// POST /orders/:id/items — only while the order is still pending.
func (h *OrderHandler) AppendItem(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AppendItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.AppendItem(userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Order")
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, "Product")
		case errors.Is(err, services.ErrOrderNotPending):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, services.ErrInsufficientStock):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}
	utils.SuccessResponse(c, order)
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// PUT /orders/:id/status — admin only. Delivered is not reachable
// here; it requires code verification.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Order")
		case errors.Is(err, services.ErrInvalidTransition):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}
	utils.SuccessResponse(c, order)
}

// PUT /orders/:id/payment-status
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(userID, id, isAdmin(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "Order")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, order)
}

// POST /orders/:id/otp/resend — admin only.
func (h *OrderHandler) ResendOtp(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.ResendOtp(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Order")
		case errors.Is(err, services.ErrOrderNotShipped):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, services.ErrOtpResendLimit):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}
	utils.SuccessResponse(c, gin.H{"resent": true, "resend_count": order.OtpResendCount})
}

type verifyOtpRequest struct {
	Code string `json:"code" validate:"required,min=4,max=10"`
}

// POST /orders/:id/otp/verify — completes delivery. A wrong code and
// an expired code get the same generic failure.
func (h *OrderHandler) VerifyOtp(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req verifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.VerifyOtp(userID, id, isAdmin(c), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Order")
		case errors.Is(err, services.ErrOrderNotShipped):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, services.ErrOtpInvalid):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}
	utils.SuccessResponse(c, order)
}

func isCouponRejection(err error) bool {
	return errors.Is(err, services.ErrCouponNotFound) ||
		errors.Is(err, services.ErrCouponInactive) ||
		errors.Is(err, services.ErrCouponExpired) ||
		errors.Is(err, services.ErrCouponUsageLimitReached) ||
		errors.Is(err, services.ErrCouponBelowMinimum)
}
