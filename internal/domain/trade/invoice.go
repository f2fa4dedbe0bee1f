package trade

import (
	"bytes"
	"sort"
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusConfirmed InvoiceStatus = "confirmed"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusConfirmed, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	if s != InvoiceStatusDraft {
		return false // confirmed and cancelled are terminal
	}
	return target == InvoiceStatusConfirmed || target == InvoiceStatusCancelled
}

// InvoiceItem is a line on an invoice. PriceAtAdd is the product price
// when the line was added; later price changes never reach it.
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Quantity    decimal.Decimal
	PriceAtAdd  decimal.Decimal
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
}

// Invoice is the aggregate root for a sale to a customer
type Invoice struct {
	shared.CompanyAggregateRoot
	CustomerID   uuid.UUID
	Status       InvoiceStatus
	Items        []InvoiceItem
	TotalAmount  decimal.Decimal
	ConfirmedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string
}

// NewInvoice creates a new draft invoice with no items
func NewInvoice(companyID, customerID, createdBy uuid.UUID) (*Invoice, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("Company ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}

	invoice := &Invoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		CustomerID:           customerID,
		Status:               InvoiceStatusDraft,
		Items:                make([]InvoiceItem, 0),
		TotalAmount:          decimal.Zero,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// IsDraft reports whether the invoice still accepts items
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}

// IsConfirmed reports whether the invoice has been confirmed
func (i *Invoice) IsConfirmed() bool {
	return i.Status == InvoiceStatusConfirmed
}

// AddItem appends a line at the given price snapshot and recalculates the total.
// Stock availability is checked by the caller.
func (i *Invoice) AddItem(productID uuid.UUID, productName, productSKU string, qty, price decimal.Decimal) (*InvoiceItem, error) {
	if !i.IsDraft() {
		return nil, shared.NewInvalidStateError("Items can only be added to draft invoices")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if !qty.IsPositive() {
		return nil, shared.NewValidationError("Quantity must be greater than zero")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Price cannot be negative")
	}

	item := InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   i.ID,
		ProductID:   productID,
		ProductName: productName,
		ProductSKU:  productSKU,
		Quantity:    qty,
		PriceAtAdd:  price,
		LineTotal:   qty.Mul(price),
		CreatedAt:   time.Now(),
	}
	i.Items = append(i.Items, item)
	i.recalculateTotal()
	i.Touch()
	i.IncrementVersion()

	return &i.Items[len(i.Items)-1], nil
}

// QuantityOfProduct sums the quantity of every line for productID
func (i *Invoice) QuantityOfProduct(productID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range i.Items {
		if item.ProductID == productID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}

// RequiredQuantities returns the total quantity per product across all lines
func (i *Invoice) RequiredQuantities() map[uuid.UUID]decimal.Decimal {
	required := make(map[uuid.UUID]decimal.Decimal, len(i.Items))
	for _, item := range i.Items {
		required[item.ProductID] = required[item.ProductID].Add(item.Quantity)
	}
	return required
}

// ProductIDs returns the distinct product ids of the invoice in ascending order
func (i *Invoice) ProductIDs() []uuid.UUID {
	return SortedProductIDs(i.RequiredQuantities())
}

// FindItem returns the line with the given id
func (i *Invoice) FindItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			return &i.Items[idx]
		}
	}
	return nil
}

// Confirm freezes the invoice. Stock has already been committed by the caller
// inside the same transaction.
func (i *Invoice) Confirm() error {
	if !i.Status.CanTransitionTo(InvoiceStatusConfirmed) {
		return shared.NewInvalidStateError("Only draft invoices can be confirmed, current status: " + i.Status.String())
	}
	if len(i.Items) == 0 {
		return shared.NewValidationError("Cannot confirm an invoice without items")
	}

	// the stored total is a cache; the confirmed figure comes from the lines
	i.recalculateTotal()

	now := time.Now()
	i.Status = InvoiceStatusConfirmed
	i.ConfirmedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceConfirmedEvent(i))

	return nil
}

// Cancel terminates a draft invoice. Nothing was committed against stock yet.
func (i *Invoice) Cancel(reason string) error {
	if !i.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewInvalidStateError("Only draft invoices can be cancelled, current status: " + i.Status.String())
	}

	now := time.Now()
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.CancelReason = reason
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceCancelledEvent(i))

	return nil
}

func (i *Invoice) recalculateTotal() {
	total := decimal.Zero
	for _, item := range i.Items {
		total = total.Add(item.LineTotal)
	}
	i.TotalAmount = total
}

// SortedProductIDs returns the keys of m in ascending byte order.
// Row locks are always taken in this order.
func SortedProductIDs[V any](m map[uuid.UUID]V) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		return bytes.Compare(ids[a][:], ids[b][:]) < 0
	})
	return ids
}
