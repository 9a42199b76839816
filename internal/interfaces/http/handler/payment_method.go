package handler

import (
	"github.com/foodorder/backend/internal/application/payment"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentMethodHandler handles the caller's card on file
type PaymentMethodHandler struct {
	BaseHandler
	paymentService *payment.PaymentMethodService
}

// NewPaymentMethodHandler creates a new payment method handler
func NewPaymentMethodHandler(paymentService *payment.PaymentMethodService, logger *zap.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		BaseHandler:    BaseHandler{logger: logger},
		paymentService: paymentService,
	}
}

// Create godoc
// @ID           createPaymentMethod
// @Summary      Save a payment method
// @Description  Store the caller's card, replacing any card already on file
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Param        request body payment.PaymentMethodRequest true "Card details"
// @Success      201 {object} APIResponse[payment.PaymentMethodResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-methods [post]
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	req, ok := bindJSON[payment.PaymentMethodRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	pm, err := h.paymentService.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, pm)
}

// Update godoc
// @ID           updatePaymentMethod
// @Summary      Replace a payment method
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Param        request body payment.PaymentMethodRequest true "Card details"
// @Success      200 {object} APIResponse[payment.PaymentMethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-methods [put]
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	req, ok := bindJSON[payment.PaymentMethodRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	pm, err := h.paymentService.Update(c.Request.Context(), p, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pm)
}

// Get godoc
// @ID           getPaymentMethod
// @Summary      Get my payment method
// @Tags         payment-methods
// @Produce      json
// @Success      200 {object} APIResponse[payment.PaymentMethodResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-methods [get]
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	pm, err := h.paymentService.GetMine(c.Request.Context(), p)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pm)
}

// Delete godoc
// @ID           deletePaymentMethod
// @Summary      Remove my payment method
// @Tags         payment-methods
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-methods [delete]
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), p); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
