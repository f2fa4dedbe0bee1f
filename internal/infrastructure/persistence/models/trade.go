package models

import (
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	CompanyID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_invoice_company_customer,priority:1"`
	CreatedBy    *uuid.UUID         `gorm:"type:uuid"`
	CustomerID   uuid.UUID          `gorm:"type:uuid;not null;index:idx_invoice_company_customer,priority:2"`
	Status       string             `gorm:"type:varchar(16);not null;default:'draft';index"`
	TotalAmount  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	ConfirmedAt  *time.Time         `gorm:"default:null"`
	CancelledAt  *time.Time         `gorm:"default:null"`
	CancelReason string             `gorm:"type:varchar(500)"`
	Items        []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *trade.Invoice {
	items := make([]trade.InvoiceItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = *item.ToDomain()
	}
	return &trade.Invoice{
		CompanyAggregateRoot: companyRoot(m.AggregateModel, m.CompanyID, m.CreatedBy),
		CustomerID:           m.CustomerID,
		Status:               trade.InvoiceStatus(m.Status),
		Items:                items,
		TotalAmount:          m.TotalAmount,
		ConfirmedAt:          m.ConfirmedAt,
		CancelledAt:          m.CancelledAt,
		CancelReason:         m.CancelReason,
	}
}

// InvoiceModelFromDomain creates a header-only persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *trade.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		CompanyID:    inv.CompanyID,
		CreatedBy:    inv.CreatedBy,
		CustomerID:   inv.CustomerID,
		Status:       inv.Status.String(),
		TotalAmount:  inv.TotalAmount,
		ConfirmedAt:  inv.ConfirmedAt,
		CancelledAt:  inv.CancelledAt,
		CancelReason: inv.CancelReason,
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	return m
}

// InvoiceItemModel is the persistence model for an invoice line.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductSKU  string          `gorm:"column:product_sku;type:varchar(50)"`
	Qty         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PriceAtAdd  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
func (m *InvoiceItemModel) ToDomain() *trade.InvoiceItem {
	return &trade.InvoiceItem{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		ProductSKU:  m.ProductSKU,
		Quantity:    m.Qty,
		PriceAtAdd:  m.PriceAtAdd,
		LineTotal:   m.LineTotal,
		CreatedAt:   m.CreatedAt,
	}
}

// InvoiceItemModelFromDomain creates a persistence model from a domain InvoiceItem.
func InvoiceItemModelFromDomain(item *trade.InvoiceItem) *InvoiceItemModel {
	return &InvoiceItemModel{
		ID:          item.ID,
		InvoiceID:   item.InvoiceID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		ProductSKU:  item.ProductSKU,
		Qty:         item.Quantity,
		PriceAtAdd:  item.PriceAtAdd,
		LineTotal:   item.LineTotal,
		CreatedAt:   item.CreatedAt,
	}
}

// ReturnModel is the persistence model for the Return aggregate root.
type ReturnModel struct {
	AggregateModel
	CompanyID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_return_company_number,priority:1"`
	CreatedBy    *uuid.UUID        `gorm:"type:uuid"`
	ReturnNumber string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_return_company_number,priority:2"`
	InvoiceID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status       string            `gorm:"type:varchar(16);not null;default:'pending';index"`
	Notes        string            `gorm:"type:text"`
	TotalAmount  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	ApprovedBy   *uuid.UUID        `gorm:"type:uuid"`
	ApprovedAt   *time.Time        `gorm:"default:null"`
	RejectReason string            `gorm:"type:varchar(500)"`
	Items        []ReturnItemModel `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ReturnModel) TableName() string {
	return "returns"
}

// ToDomain converts the persistence model to a domain Return.
func (m *ReturnModel) ToDomain() *trade.Return {
	items := make([]trade.ReturnItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = trade.ReturnItem{
			ID:             item.ID,
			ReturnID:       item.ReturnID,
			OriginalItemID: item.OriginalItemID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.QtyReturned,
			UnitPrice:      item.UnitPrice,
			LineTotal:      item.LineTotal,
			CreatedAt:      item.CreatedAt,
		}
	}
	return &trade.Return{
		CompanyAggregateRoot: companyRoot(m.AggregateModel, m.CompanyID, m.CreatedBy),
		ReturnNumber:         m.ReturnNumber,
		InvoiceID:            m.InvoiceID,
		CustomerID:           m.CustomerID,
		Status:               trade.ReturnStatus(m.Status),
		Notes:                m.Notes,
		Items:                items,
		TotalAmount:          m.TotalAmount,
		ApprovedBy:           m.ApprovedBy,
		ApprovedAt:           m.ApprovedAt,
		RejectReason:         m.RejectReason,
	}
}

// ReturnModelFromDomain creates a persistence model, items included, from a domain Return.
func ReturnModelFromDomain(r *trade.Return) *ReturnModel {
	m := &ReturnModel{
		CompanyID:    r.CompanyID,
		CreatedBy:    r.CreatedBy,
		ReturnNumber: r.ReturnNumber,
		InvoiceID:    r.InvoiceID,
		CustomerID:   r.CustomerID,
		Status:       r.Status.String(),
		Notes:        r.Notes,
		TotalAmount:  r.TotalAmount,
		ApprovedBy:   r.ApprovedBy,
		ApprovedAt:   r.ApprovedAt,
		RejectReason: r.RejectReason,
		Items:        make([]ReturnItemModel, len(r.Items)),
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	for i, item := range r.Items {
		m.Items[i] = ReturnItemModel{
			ID:             item.ID,
			ReturnID:       r.ID,
			OriginalItemID: item.OriginalItemID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			QtyReturned:    item.Quantity,
			UnitPrice:      item.UnitPrice,
			LineTotal:      item.LineTotal,
			CreatedAt:      item.CreatedAt,
		}
	}
	return m
}

// ReturnItemModel is the persistence model for a return line.
type ReturnItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OriginalItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	QtyReturned    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnItemModel) TableName() string {
	return "return_items"
}

// ReturnSequenceModel holds the last issued return number per company.
type ReturnSequenceModel struct {
	CompanyID uuid.UUID `gorm:"type:uuid;primary_key"`
	LastValue int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ReturnSequenceModel) TableName() string {
	return "return_sequences"
}
