package handler

import (
	"context"

	catalogapp "github.com/SamerElhamdo/stockly/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.POST("", h.Create)
	categories.GET("", h.List)
}

// Create creates a category
func (h *CategoryHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.actor(c)
	if !ok {
		return
	}

	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// List lists the company's categories
func (h *CategoryHandler) List(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}

	categories, err := h.categoryService.List(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Create)
	products.GET("", h.List)
	products.GET("/:id", h.GetByID)
	products.PUT("/:id/price", h.UpdatePrice)
	products.POST("/:id/archive", h.Archive)
	products.POST("/:id/restore", h.Restore)
}

// Create creates a product
func (h *ProductHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.actor(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID returns one product
func (h *ProductHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), companyID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List lists products with paging, search and category filter
func (h *ProductHandler) List(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}

	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}
	if filter.CategoryID, ok = h.queryID(c, "category_id"); !ok {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// UpdatePrice changes a product's selling price
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}

	var req catalogapp.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	product, err := h.productService.UpdatePrice(c.Request.Context(), companyID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Archive takes a product off sale
func (h *ProductHandler) Archive(c *gin.Context) {
	h.setArchived(c, h.productService.Archive)
}

// Restore puts an archived product back on sale
func (h *ProductHandler) Restore(c *gin.Context) {
	h.setArchived(c, h.productService.Restore)
}

func (h *ProductHandler) setArchived(c *gin.Context, change func(context.Context, uuid.UUID, uuid.UUID) (*catalogapp.ProductResponse, error)) {
	companyID, _, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}

	product, err := change(c.Request.Context(), companyID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
