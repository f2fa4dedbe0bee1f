package handler

import (
	financeapp "github.com/SamerElhamdo/stockly/internal/application/finance"
	partnerapp "github.com/SamerElhamdo/stockly/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer endpoints, including the customer's
// payment history and balance
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	paymentService  *financeapp.PaymentService
	balanceService  *financeapp.BalanceService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(
	customerService *partnerapp.CustomerService,
	paymentService *financeapp.PaymentService,
	balanceService *financeapp.BalanceService,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		paymentService:  paymentService,
		balanceService:  balanceService,
	}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/:id", h.GetByID)
	customers.GET("/:id/payments", h.ListPayments)
	customers.GET("/:id/balance", h.GetBalance)
	customers.POST("/:id/balance/recompute", h.RecomputeBalance)
}

// Create creates a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.actor(c)
	if !ok {
		return
	}

	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID returns one customer
func (h *CustomerHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), companyID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List lists customers with paging and search
func (h *CustomerHandler) List(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}

	var filter partnerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, customers, total, page, pageSize)
}

// ListPayments lists a customer's payments, newest first
func (h *CustomerHandler) ListPayments(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c, "id", "customer")
	if !ok {
		return
	}

	var filter financeapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}

	payments, total, err := h.paymentService.ListByCustomer(c.Request.Context(), companyID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, payments, total, page, pageSize)
}

// GetBalance returns a customer's stored balance
func (h *CustomerHandler) GetBalance(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c, "id", "customer")
	if !ok {
		return
	}

	balance, err := h.balanceService.Get(c.Request.Context(), companyID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// RecomputeBalance rebuilds a customer's balance from source rows
func (h *CustomerHandler) RecomputeBalance(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c, "id", "customer")
	if !ok {
		return
	}

	balance, err := h.balanceService.Recompute(c.Request.Context(), companyID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}
