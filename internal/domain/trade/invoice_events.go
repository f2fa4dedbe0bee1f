package trade

import (
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Invoice
const AggregateTypeInvoice = "Invoice"

// Event type constants for Invoice
const (
	EventTypeInvoiceCreated   = "InvoiceCreated"
	EventTypeInvoiceConfirmed = "InvoiceConfirmed"
	EventTypeInvoiceCancelled = "InvoiceCancelled"
)

// InvoiceItemInfo represents item information carried by invoice events
type InvoiceItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	PriceAtAdd  decimal.Decimal `json:"price_at_add"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceCreatedEvent is raised when a draft invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID `json:"invoice_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceID:       inv.ID,
		CustomerID:      inv.CustomerID,
	}
}

// InvoiceConfirmedEvent is raised after the confirmation transaction commits.
// Balance reconciliation and notifications react to it.
type InvoiceConfirmedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID         `json:"invoice_id"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []InvoiceItemInfo `json:"items"`
}

// NewInvoiceConfirmedEvent creates a new InvoiceConfirmedEvent
func NewInvoiceConfirmedEvent(inv *Invoice) *InvoiceConfirmedEvent {
	items := make([]InvoiceItemInfo, len(inv.Items))
	for idx, item := range inv.Items {
		items[idx] = InvoiceItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			PriceAtAdd:  item.PriceAtAdd,
			LineTotal:   item.LineTotal,
		}
	}

	return &InvoiceConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceConfirmed, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceID:       inv.ID,
		CustomerID:      inv.CustomerID,
		TotalAmount:     inv.TotalAmount,
		Items:           items,
	}
}

// InvoiceCancelledEvent is raised when a draft invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID `json:"invoice_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Reason     string    `json:"reason"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceID:       inv.ID,
		CustomerID:      inv.CustomerID,
		Reason:          inv.CancelReason,
	}
}
