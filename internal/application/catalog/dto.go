package catalog

import (
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product.
// An empty SKU is generated from the company and product names.
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	SKU            string           `json:"sku" binding:"omitempty,max=50"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Price          decimal.Decimal  `json:"price"`
	CostPrice      *decimal.Decimal `json:"cost_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	StockQty       decimal.Decimal  `json:"stock_qty"`
	Unit           string           `json:"unit" binding:"omitempty,oneof=piece meter kg liter box pack roll sheet other"`
	Measurement    string           `json:"measurement" binding:"max=100"`
	Description    string           `json:"description" binding:"max=2000"`
}

// UpdatePriceRequest changes the selling price of a product
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// ProductListFilter narrows product listings
type ProductListFilter struct {
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search          string     `form:"search"`
	CategoryID      *uuid.UUID `form:"-"`
	IncludeArchived bool       `form:"include_archived"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	CompanyID      uuid.UUID        `json:"company_id"`
	Name           string           `json:"name"`
	SKU            string           `json:"sku"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	CostPrice      *decimal.Decimal `json:"cost_price,omitempty"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price,omitempty"`
	RetailPrice    *decimal.Decimal `json:"retail_price,omitempty"`
	StockQty       decimal.Decimal  `json:"stock_qty"`
	Unit           string           `json:"unit"`
	Measurement    string           `json:"measurement,omitempty"`
	Description    string           `json:"description,omitempty"`
	Archived       bool             `json:"archived"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Version        int              `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		CompanyID:      p.CompanyID,
		Name:           p.Name,
		SKU:            p.SKU,
		CategoryID:     p.CategoryID,
		Price:          p.Price,
		CostPrice:      p.CostPrice,
		WholesalePrice: p.WholesalePrice,
		RetailPrice:    p.RetailPrice,
		StockQty:       p.StockQty,
		Unit:           p.Unit.String(),
		Measurement:    p.Measurement,
		Description:    p.Description,
		Archived:       p.Archived,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	CompanyID uuid.UUID  `json:"company_id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
	}
}

func (f ProductListFilter) toDomain() catalog.ProductFilter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	filter.OrderBy = f.OrderBy
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	} else {
		filter.OrderDir = "asc"
	}
	filter.Search = f.Search
	return catalog.ProductFilter{
		Filter:          filter,
		CategoryID:      f.CategoryID,
		IncludeArchived: f.IncludeArchived,
	}
}
