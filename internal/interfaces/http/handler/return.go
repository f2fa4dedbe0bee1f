package handler

import (
	tradeapp "github.com/SamerElhamdo/stockly/internal/application/trade"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReturnHandler handles return endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *tradeapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *tradeapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/returns")
	returns.POST("", h.Create)
	returns.GET("", h.List)
	returns.GET("/:id", h.GetByID)
	returns.POST("/:id/approve", h.Approve)
	returns.POST("/:id/reject", h.Reject)
}

// Create opens a pending return against a confirmed invoice
func (h *ReturnHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.actor(c)
	if !ok {
		return
	}

	var req tradeapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	ret, err := h.returnService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// GetByID returns one return with its lines
func (h *ReturnHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	returnID, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), companyID, returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// List lists returns filtered by status, customer and invoice
func (h *ReturnHandler) List(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}

	var filter tradeapp.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}
	if filter.CustomerID, ok = h.queryID(c, "customer_id"); !ok {
		return
	}
	if filter.InvoiceID, ok = h.queryID(c, "invoice_id"); !ok {
		return
	}

	returns, total, err := h.returnService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, returns, total, page, pageSize)
}

// Approve approves a pending return and restocks its products
func (h *ReturnHandler) Approve(c *gin.Context) {
	companyID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	returnID, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	ret, err := h.returnService.Approve(c.Request.Context(), companyID, userID, returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("Return approved",
		zap.String("return_id", ret.ID.String()),
		zap.String("return_number", ret.ReturnNumber),
	)
	h.Success(c, ret)
}

// Reject declines a pending return. An empty body rejects without a reason.
func (h *ReturnHandler) Reject(c *gin.Context) {
	companyID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	returnID, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	var req tradeapp.RejectReturnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.HandleBindError(c, err)
			return
		}
	}

	ret, err := h.returnService.Reject(c.Request.Context(), companyID, userID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}
