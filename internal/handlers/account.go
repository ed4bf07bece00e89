// internal/handlers/account.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/freshkart/grocery-backend/internal/services"
	"github.com/freshkart/grocery-backend/internal/utils"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// GET /addresses
func (h *AccountHandler) ListAddresses(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	addresses, err := h.accountService.ListAddresses(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, addresses)
}

// POST /addresses
func (h *AccountHandler) CreateAddress(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	address, err := h.accountService.CreateAddress(userID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.CreatedResponse(c, address)
}

// PUT /addresses/:id
func (h *AccountHandler) UpdateAddress(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	address, err := h.accountService.UpdateAddress(userID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			utils.NotFoundResponse(c, "Address")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, address)
}

// DELETE /addresses/:id
func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteAddress(userID, id); err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			utils.NotFoundResponse(c, "Address")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// GET /payment-methods
func (h *AccountHandler) ListPaymentMethods(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	methods, err := h.accountService.ListPaymentMethods(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, methods)
}

// POST /payment-methods
func (h *AccountHandler) CreatePaymentMethod(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	method, err := h.accountService.CreatePaymentMethod(userID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.CreatedResponse(c, method)
}

// DELETE /payment-methods/:id
func (h *AccountHandler) DeletePaymentMethod(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeletePaymentMethod(userID, id); err != nil {
		if errors.Is(err, services.ErrPaymentMethodNotFound) {
			utils.NotFoundResponse(c, "Payment method")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}
