package handler

import (
	financeapp "github.com/SamerElhamdo/stockly/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment recording
type PaymentHandler struct {
	BaseHandler
	paymentService *financeapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *financeapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", h.Create)
}

// Create records a payment. A negative amount is a withdrawal.
func (h *PaymentHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.actor(c)
	if !ok {
		return
	}

	var req financeapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}
