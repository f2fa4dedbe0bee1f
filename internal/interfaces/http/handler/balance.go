package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	financeapp "github.com/SamerElhamdo/stockly/internal/application/finance"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
)

// BalanceHandler handles company-wide balance listings and exports
type BalanceHandler struct {
	BaseHandler
	balanceService *financeapp.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService *financeapp.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *BalanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	balances := rg.Group("/balances")
	balances.GET("", h.List)
	balances.GET("/export", h.Export)
}

// List lists customer balances. owing=true keeps positive balances only.
func (h *BalanceHandler) List(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}

	var filter financeapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}

	balances, total, err := h.balanceService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, balances, total, page, pageSize)
}

// Export streams every balance of the company as an XLSX workbook. The
// workbook is rendered fully before any byte is sent so failures still
// answer with a JSON error.
func (h *BalanceHandler) Export(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.balanceService.Export(c.Request.Context(), companyID, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("balances-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
