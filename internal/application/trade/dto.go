package trade

import (
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDraftRequest opens a draft invoice for an existing customer id or a
// customer name that is found or created
type CreateDraftRequest struct {
	CustomerID   *uuid.UUID `json:"customer_id"`
	CustomerName string     `json:"customer_name" binding:"omitempty,max=200"`
}

// AddItemRequest appends a product line to a draft invoice
type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CancelInvoiceRequest cancels a draft invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// InvoiceListFilter narrows invoice listings
type InvoiceListFilter struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft confirmed cancelled"`
	CustomerID *uuid.UUID `form:"-"`
}

// InvoiceResponse is an invoice with its lines
type InvoiceResponse struct {
	ID           uuid.UUID             `json:"id"`
	CompanyID    uuid.UUID             `json:"company_id"`
	CustomerID   uuid.UUID             `json:"customer_id"`
	Status       string                `json:"status"`
	Items        []InvoiceItemResponse `json:"items"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	ConfirmedAt  *time.Time            `json:"confirmed_at,omitempty"`
	CancelledAt  *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason string                `json:"cancel_reason,omitempty"`
	CreatedBy    *uuid.UUID            `json:"created_by,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// InvoiceItemResponse is one invoice line
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    decimal.Decimal `json:"qty"`
	PriceAtAdd  decimal.Decimal `json:"price_at_add"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ToInvoiceResponse converts a domain Invoice to its response DTO
func ToInvoiceResponse(inv *trade.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			PriceAtAdd:  item.PriceAtAdd,
			LineTotal:   item.LineTotal,
		}
	}
	return InvoiceResponse{
		ID:           inv.ID,
		CompanyID:    inv.CompanyID,
		CustomerID:   inv.CustomerID,
		Status:       inv.Status.String(),
		Items:        items,
		TotalAmount:  inv.TotalAmount,
		ConfirmedAt:  inv.ConfirmedAt,
		CancelledAt:  inv.CancelledAt,
		CancelReason: inv.CancelReason,
		CreatedBy:    inv.CreatedBy,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
		Version:      inv.Version,
	}
}

// StockShortage is one entry of an insufficient stock for confirmation error
type StockShortage struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Required    decimal.Decimal `json:"required"`
	Available   decimal.Decimal `json:"available"`
}

// CreateReturnRequest opens a pending return against a confirmed invoice
type CreateReturnRequest struct {
	InvoiceID uuid.UUID                 `json:"invoice_id" binding:"required"`
	Items     []CreateReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes     string                    `json:"notes" binding:"max=2000"`
}

// CreateReturnItemRequest is one requested return line
type CreateReturnItemRequest struct {
	OriginalItemID uuid.UUID       `json:"original_item_id" binding:"required"`
	Quantity       decimal.Decimal `json:"qty_returned" binding:"required"`
}

// RejectReturnRequest declines a pending return
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ReturnListFilter narrows return listings
type ReturnListFilter struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	CustomerID *uuid.UUID `form:"-"`
	InvoiceID  *uuid.UUID `form:"-"`
}

// ReturnResponse is a return with its lines
type ReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	CompanyID    uuid.UUID            `json:"company_id"`
	ReturnNumber string               `json:"return_number"`
	InvoiceID    uuid.UUID            `json:"original_invoice_id"`
	CustomerID   uuid.UUID            `json:"customer_id"`
	Status       string               `json:"status"`
	Notes        string               `json:"notes,omitempty"`
	Items        []ReturnItemResponse `json:"items"`
	TotalAmount  decimal.Decimal      `json:"total_amount"`
	CreatedBy    *uuid.UUID           `json:"created_by,omitempty"`
	ApprovedBy   *uuid.UUID           `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time           `json:"approved_at,omitempty"`
	RejectReason string               `json:"reject_reason,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Version      int                  `json:"version"`
}

// ReturnItemResponse is one return line
type ReturnItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	OriginalItemID uuid.UUID       `json:"original_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"qty_returned"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// ToReturnResponse converts a domain Return to its response DTO
func ToReturnResponse(r *trade.Return) ReturnResponse {
	items := make([]ReturnItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = ReturnItemResponse{
			ID:             item.ID,
			OriginalItemID: item.OriginalItemID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			LineTotal:      item.LineTotal,
		}
	}
	return ReturnResponse{
		ID:           r.ID,
		CompanyID:    r.CompanyID,
		ReturnNumber: r.ReturnNumber,
		InvoiceID:    r.InvoiceID,
		CustomerID:   r.CustomerID,
		Status:       r.Status.String(),
		Notes:        r.Notes,
		Items:        items,
		TotalAmount:  r.TotalAmount,
		CreatedBy:    r.CreatedBy,
		ApprovedBy:   r.ApprovedBy,
		ApprovedAt:   r.ApprovedAt,
		RejectReason: r.RejectReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// ReturnableItemResponse is an invoice line that still has quantity to return
type ReturnableItemResponse struct {
	ItemID       uuid.UUID       `json:"item_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku"`
	QtySold      decimal.Decimal `json:"qty_sold"`
	QtyReturned  decimal.Decimal `json:"qty_returned"`
	QtyAvailable decimal.Decimal `json:"qty_available"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

func toFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	filter.Search = search
	return filter
}
