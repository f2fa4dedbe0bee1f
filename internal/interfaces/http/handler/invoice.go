package handler

import (
	financeapp "github.com/SamerElhamdo/stockly/internal/application/finance"
	tradeapp "github.com/SamerElhamdo/stockly/internal/application/trade"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.InvoiceService
	returnService  *tradeapp.ReturnService
	paymentService *financeapp.PaymentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(
	invoiceService *tradeapp.InvoiceService,
	returnService *tradeapp.ReturnService,
	paymentService *financeapp.PaymentService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		returnService:  returnService,
		paymentService: paymentService,
	}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.POST("", h.CreateDraft)
	invoices.GET("", h.List)
	invoices.GET("/:id", h.GetByID)
	invoices.POST("/:id/items", h.AddItem)
	invoices.POST("/:id/confirm", h.Confirm)
	invoices.POST("/:id/cancel", h.Cancel)
	invoices.GET("/:id/returnable-items", h.ReturnableItems)
	invoices.GET("/:id/payments", h.Payments)
}

// CreateDraft opens a draft invoice
func (h *InvoiceHandler) CreateDraft(c *gin.Context) {
	companyID, userID, ok := h.actor(c)
	if !ok {
		return
	}

	var req tradeapp.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateDraft(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID returns one invoice with its lines
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List lists invoices filtered by status and customer
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}

	var filter tradeapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}
	if filter.CustomerID, ok = h.queryID(c, "customer_id"); !ok {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, page, pageSize)
}

// AddItem appends a product line to a draft invoice
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	var req tradeapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	invoice, err := h.invoiceService.AddItem(c.Request.Context(), companyID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Confirm confirms a draft invoice and deducts stock
func (h *InvoiceHandler) Confirm(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Confirm(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("Invoice confirmed",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("total_amount", invoice.TotalAmount.String()),
	)
	h.Success(c, invoice)
}

// Cancel cancels a draft invoice. An empty body cancels without a reason.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	var req tradeapp.CancelInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.HandleBindError(c, err)
			return
		}
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), companyID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ReturnableItems lists the invoice lines that still have quantity left
// to return
func (h *InvoiceHandler) ReturnableItems(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	items, err := h.returnService.GetReturnableItems(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Payments summarizes what has been paid against the invoice
func (h *InvoiceHandler) Payments(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}

	summary, err := h.paymentService.InvoicePaymentSummary(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
