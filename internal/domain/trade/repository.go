package trade

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Status     *InvoiceStatus
	CustomerID *uuid.UUID
}

// ReturnFilter narrows return listings
type ReturnFilter struct {
	shared.Filter
	Status     *ReturnStatus
	CustomerID *uuid.UUID
	InvoiceID  *uuid.UUID
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForCompany finds an invoice with its items within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate finds an invoice with its items and locks the invoice row.
	// Must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)

	// FindAllForCompany lists invoices of a company without items
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]Invoice, int64, error)

	// Save creates or updates the invoice header
	Save(ctx context.Context, invoice *Invoice) error

	// SaveItem inserts an invoice line
	SaveItem(ctx context.Context, item *InvoiceItem) error

	// SumConfirmedTotal sums total_amount of confirmed invoices of a customer
	SumConfirmedTotal(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, error)
}

// ReturnRepository defines the interface for return persistence
type ReturnRepository interface {
	// FindByIDForCompany finds a return with its items within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Return, error)

	// FindByIDForUpdate finds a return with its items and locks the return row.
	// Must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*Return, error)

	// FindAllForCompany lists returns of a company without items
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ReturnFilter) ([]Return, int64, error)

	// Create inserts a return with its items
	Create(ctx context.Context, ret *Return) error

	// Save updates the return header
	Save(ctx context.Context, ret *Return) error

	// SumReturnedByOriginalItem sums returned quantity per invoice line over
	// approved and completed returns of the invoice
	SumReturnedByOriginalItem(ctx context.Context, companyID, invoiceID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// SumApprovedTotal sums total_amount of approved returns of a customer
	SumApprovedTotal(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, error)
}

// ReturnSequenceRepository hands out per-company return sequence values
type ReturnSequenceRepository interface {
	// Next increments and returns the company's counter under a row lock.
	// Must be called inside a transaction.
	Next(ctx context.Context, companyID uuid.UUID) (int64, error)
}
