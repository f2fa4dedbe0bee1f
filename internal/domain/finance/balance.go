package finance

import (
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerBalance is the derived money position of one customer.
// It is recomputed from invoices, payments and returns and never adjusted in place.
type CustomerBalance struct {
	shared.CompanyAggregateRoot
	CustomerID    uuid.UUID
	TotalInvoiced decimal.Decimal
	TotalPaid     decimal.Decimal
	TotalReturns  decimal.Decimal
	Balance       decimal.Decimal
	LastUpdated   time.Time
}

// NewCustomerBalance creates an all-zero balance
func NewCustomerBalance(companyID, customerID uuid.UUID) *CustomerBalance {
	return &CustomerBalance{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		CustomerID:           customerID,
		TotalInvoiced:        decimal.Zero,
		TotalPaid:            decimal.Zero,
		TotalReturns:         decimal.Zero,
		Balance:              decimal.Zero,
		LastUpdated:          time.Now(),
	}
}

// BalanceTotals are the source sums a balance is derived from
type BalanceTotals struct {
	Invoiced decimal.Decimal
	Paid     decimal.Decimal
	Returns  decimal.Decimal
}

// Apply overwrites all totals and derives balance = invoiced - paid - returns
func (b *CustomerBalance) Apply(totals BalanceTotals) {
	b.TotalInvoiced = totals.Invoiced
	b.TotalPaid = totals.Paid
	b.TotalReturns = totals.Returns
	b.Balance = totals.Invoiced.Sub(totals.Paid).Sub(totals.Returns)
	b.LastUpdated = time.Now()
	b.UpdatedAt = b.LastUpdated
}

// Owes reports whether the customer owes the company money
func (b *CustomerBalance) Owes() bool {
	return b.Balance.IsPositive()
}
