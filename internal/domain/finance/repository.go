package finance

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByIDForCompany finds a payment by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Payment, error)

	// FindByCustomer lists payments of a customer, newest first
	FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) ([]Payment, int64, error)

	// FindByInvoice lists payments linked to an invoice
	FindByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) ([]Payment, error)

	// Save creates a payment
	Save(ctx context.Context, payment *Payment) error

	// SumByCustomer sums every payment amount of a customer, negatives included
	SumByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, error)
}

// BalanceRepository defines the interface for customer balance persistence.
// The balance reconciler is the only writer.
type BalanceRepository interface {
	// FindByCustomer returns the balance row of a customer
	FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*CustomerBalance, error)

	// GetOrCreateForUpdate ensures a balance row exists and locks it.
	// Must be called inside a transaction.
	GetOrCreateForUpdate(ctx context.Context, companyID, customerID uuid.UUID) (*CustomerBalance, error)

	// FindAllForCompany lists balances of a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]CustomerBalance, int64, error)

	// Save persists the balance totals
	Save(ctx context.Context, balance *CustomerBalance) error
}
