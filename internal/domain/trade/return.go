package trade

import (
	"fmt"
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnStatus represents the status of a return
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "pending"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRejected  ReturnStatus = "rejected"
	ReturnStatusCompleted ReturnStatus = "completed"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected, ReturnStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// CountsAsReturned reports whether quantities of a return in this status
// are subtracted from what remains returnable
func (s ReturnStatus) CountsAsReturned() bool {
	return s == ReturnStatusApproved || s == ReturnStatusCompleted
}

// ReturnedStatuses lists the statuses that consume returnable quantity
func ReturnedStatuses() []ReturnStatus {
	return []ReturnStatus{ReturnStatusApproved, ReturnStatusCompleted}
}

// ReturnItem reverses part of an invoice line. UnitPrice is copied from the
// original line's PriceAtAdd.
type ReturnItem struct {
	ID             uuid.UUID
	ReturnID       uuid.UUID
	OriginalItemID uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	LineTotal      decimal.Decimal
	CreatedAt      time.Time
}

// Return is the aggregate root for a customer return against a confirmed invoice
type Return struct {
	shared.CompanyAggregateRoot
	ReturnNumber string
	InvoiceID    uuid.UUID
	CustomerID   uuid.UUID
	Status       ReturnStatus
	Notes        string
	Items        []ReturnItem
	TotalAmount  decimal.Decimal
	ApprovedBy   *uuid.UUID
	ApprovedAt   *time.Time
	RejectReason string
}

// ReturnableQuantity describes how much of an invoice line can still be returned
type ReturnableQuantity struct {
	OriginalItemID  uuid.UUID       `json:"original_item_id"`
	Sold            decimal.Decimal `json:"sold"`
	AlreadyReturned decimal.Decimal `json:"already_returned"`
	Returnable      decimal.Decimal `json:"returnable"`
	Requested       decimal.Decimal `json:"requested"`
}

// CheckReturnable fails with QUANTITY_EXCEEDED when requested is more than
// sold minus alreadyReturned
func CheckReturnable(original *InvoiceItem, alreadyReturned, requested decimal.Decimal) error {
	returnable := original.Quantity.Sub(alreadyReturned)
	if returnable.IsNegative() {
		returnable = decimal.Zero
	}
	if requested.GreaterThan(returnable) {
		return shared.ErrQuantityExceeded.WithDetails(ReturnableQuantity{
			OriginalItemID:  original.ID,
			Sold:            original.Quantity,
			AlreadyReturned: alreadyReturned,
			Returnable:      returnable,
			Requested:       requested,
		})
	}
	return nil
}

// FormatReturnNumber renders the company-scoped return number
func FormatReturnNumber(companyCode string, seq int64) string {
	return fmt.Sprintf("RET-%s-%04d", companyCode, seq)
}

// NewReturn creates a pending return against a confirmed invoice
func NewReturn(invoice *Invoice, returnNumber string, createdBy uuid.UUID, notes string) (*Return, error) {
	if invoice == nil {
		return nil, shared.NewValidationError("Original invoice is required")
	}
	if !invoice.IsConfirmed() {
		return nil, shared.NewInvalidStateError("Returns can only be created for confirmed invoices")
	}
	if returnNumber == "" {
		return nil, shared.NewValidationError("Return number cannot be empty")
	}

	return &Return{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(invoice.CompanyID, createdBy),
		ReturnNumber:         returnNumber,
		InvoiceID:            invoice.ID,
		CustomerID:           invoice.CustomerID,
		Status:               ReturnStatusPending,
		Notes:                notes,
		Items:                make([]ReturnItem, 0),
		TotalAmount:          decimal.Zero,
	}, nil
}

// AddItem appends a line reversing qty of original. alreadyReturned is the
// quantity of original consumed by approved or completed returns.
func (r *Return) AddItem(original *InvoiceItem, qty, alreadyReturned decimal.Decimal) (*ReturnItem, error) {
	if r.Status != ReturnStatusPending {
		return nil, shared.NewInvalidStateError("Items can only be added to pending returns")
	}
	if original == nil || original.InvoiceID != r.InvoiceID {
		return nil, shared.NewNotFoundError("Invoice item")
	}
	if !qty.IsPositive() {
		return nil, shared.NewValidationError("Return quantity must be greater than zero")
	}
	if err := CheckReturnable(original, alreadyReturned, qty); err != nil {
		return nil, err
	}

	item := ReturnItem{
		ID:             uuid.New(),
		ReturnID:       r.ID,
		OriginalItemID: original.ID,
		ProductID:      original.ProductID,
		ProductName:    original.ProductName,
		Quantity:       qty,
		UnitPrice:      original.PriceAtAdd,
		LineTotal:      qty.Mul(original.PriceAtAdd),
		CreatedAt:      time.Now(),
	}
	r.Items = append(r.Items, item)
	r.recalculateTotal()
	r.Touch()

	return &r.Items[len(r.Items)-1], nil
}

// Submit finalizes creation and records the creation event
func (r *Return) Submit() error {
	if len(r.Items) == 0 {
		return shared.NewValidationError("Return must have at least one item")
	}
	r.AddDomainEvent(NewReturnCreatedEvent(r))
	return nil
}

// QuantityByOriginalItem sums returned quantity per original invoice line
func (r *Return) QuantityByOriginalItem() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(r.Items))
	for _, item := range r.Items {
		out[item.OriginalItemID] = out[item.OriginalItemID].Add(item.Quantity)
	}
	return out
}

// QuantityByProduct sums returned quantity per product
func (r *Return) QuantityByProduct() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(r.Items))
	for _, item := range r.Items {
		out[item.ProductID] = out[item.ProductID].Add(item.Quantity)
	}
	return out
}

// Approve accepts the return. Stock is restored by the caller in the same transaction.
func (r *Return) Approve(approverID uuid.UUID) error {
	if r.Status != ReturnStatusPending {
		return shared.NewInvalidStateError("Only pending returns can be approved, current status: " + r.Status.String())
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Reject declines the return. The decider is recorded in ApprovedBy for audit.
func (r *Return) Reject(deciderID uuid.UUID, reason string) error {
	if r.Status != ReturnStatusPending {
		return shared.NewInvalidStateError("Only pending returns can be rejected, current status: " + r.Status.String())
	}

	now := time.Now()
	r.Status = ReturnStatusRejected
	r.ApprovedBy = &deciderID
	r.ApprovedAt = &now
	r.RejectReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnRejectedEvent(r))

	return nil
}

func (r *Return) recalculateTotal() {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.LineTotal)
	}
	r.TotalAmount = total
}
