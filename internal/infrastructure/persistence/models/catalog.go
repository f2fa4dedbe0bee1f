package models

import (
	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	CompanyID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_product_company_sku,priority:1"`
	CreatedBy      *uuid.UUID       `gorm:"type:uuid"`
	SKU            string           `gorm:"column:sku;type:varchar(50);not null;uniqueIndex:idx_product_company_sku,priority:2"`
	Name           string           `gorm:"type:varchar(200);not null"`
	CategoryID     *uuid.UUID       `gorm:"type:uuid;index"`
	Price          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	WholesalePrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
	RetailPrice    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	StockQty       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Unit           string           `gorm:"type:varchar(20);not null;default:'piece'"`
	Measurement    string           `gorm:"type:varchar(50)"`
	Description    string           `gorm:"type:text"`
	Archived       bool             `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		CompanyAggregateRoot: companyRoot(m.AggregateModel, m.CompanyID, m.CreatedBy),
		Name:                 m.Name,
		SKU:                  m.SKU,
		CategoryID:           m.CategoryID,
		Price:                m.Price,
		CostPrice:            m.CostPrice,
		WholesalePrice:       m.WholesalePrice,
		RetailPrice:          m.RetailPrice,
		StockQty:             m.StockQty,
		Unit:                 catalog.Unit(m.Unit),
		Measurement:          m.Measurement,
		Description:          m.Description,
		Archived:             m.Archived,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.CompanyID = p.CompanyID
	m.CreatedBy = p.CreatedBy
	m.SKU = p.SKU
	m.Name = p.Name
	m.CategoryID = p.CategoryID
	m.Price = p.Price
	m.CostPrice = p.CostPrice
	m.WholesalePrice = p.WholesalePrice
	m.RetailPrice = p.RetailPrice
	m.StockQty = p.StockQty
	m.Unit = p.Unit.String()
	m.Measurement = p.Measurement
	m.Description = p.Description
	m.Archived = p.Archived
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	AggregateModel
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	Name      string     `gorm:"type:varchar(100);not null"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		CompanyAggregateRoot: companyRoot(m.AggregateModel, m.CompanyID, m.CreatedBy),
		Name:                 m.Name,
		ParentID:             m.ParentID,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		CompanyID: c.CompanyID,
		CreatedBy: c.CreatedBy,
		Name:      c.Name,
		ParentID:  c.ParentID,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
