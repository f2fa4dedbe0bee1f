package trade

import (
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Return
const AggregateTypeReturn = "Return"

// Event type constants for Return
const (
	EventTypeReturnCreated  = "ReturnCreated"
	EventTypeReturnApproved = "ReturnApproved"
	EventTypeReturnRejected = "ReturnRejected"
)

// ReturnItemInfo represents item information carried by return events
type ReturnItemInfo struct {
	ItemID         uuid.UUID       `json:"item_id"`
	OriginalItemID uuid.UUID       `json:"original_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

func returnItemInfos(r *Return) []ReturnItemInfo {
	items := make([]ReturnItemInfo, len(r.Items))
	for idx, item := range r.Items {
		items[idx] = ReturnItemInfo{
			ItemID:         item.ID,
			OriginalItemID: item.OriginalItemID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			LineTotal:      item.LineTotal,
		}
	}
	return items
}

// ReturnCreatedEvent is raised when a pending return is created
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID        `json:"return_id"`
	ReturnNumber string           `json:"return_number"`
	InvoiceID    uuid.UUID        `json:"invoice_id"`
	CustomerID   uuid.UUID        `json:"customer_id"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	Items        []ReturnItemInfo `json:"items"`
}

// NewReturnCreatedEvent creates a new ReturnCreatedEvent
func NewReturnCreatedEvent(r *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, AggregateTypeReturn, r.ID, r.CompanyID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		InvoiceID:       r.InvoiceID,
		CustomerID:      r.CustomerID,
		TotalAmount:     r.TotalAmount,
		Items:           returnItemInfos(r),
	}
}

// ReturnApprovedEvent is raised after stock has been restored and the approval committed
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID        `json:"return_id"`
	ReturnNumber string           `json:"return_number"`
	InvoiceID    uuid.UUID        `json:"invoice_id"`
	CustomerID   uuid.UUID        `json:"customer_id"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	ApprovedBy   uuid.UUID        `json:"approved_by"`
	Items        []ReturnItemInfo `json:"items"`
}

// NewReturnApprovedEvent creates a new ReturnApprovedEvent
func NewReturnApprovedEvent(r *Return) *ReturnApprovedEvent {
	var approvedBy uuid.UUID
	if r.ApprovedBy != nil {
		approvedBy = *r.ApprovedBy
	}
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnApproved, AggregateTypeReturn, r.ID, r.CompanyID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		InvoiceID:       r.InvoiceID,
		CustomerID:      r.CustomerID,
		TotalAmount:     r.TotalAmount,
		ApprovedBy:      approvedBy,
		Items:           returnItemInfos(r),
	}
}

// ReturnRejectedEvent is raised when a pending return is rejected
type ReturnRejectedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	InvoiceID    uuid.UUID `json:"invoice_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	Reason       string    `json:"reason"`
}

// NewReturnRejectedEvent creates a new ReturnRejectedEvent
func NewReturnRejectedEvent(r *Return) *ReturnRejectedEvent {
	return &ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRejected, AggregateTypeReturn, r.ID, r.CompanyID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		InvoiceID:       r.InvoiceID,
		CustomerID:      r.CustomerID,
		Reason:          r.RejectReason,
	}
}
