package finance

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
)

// TransactionScope runs a balance recomputation atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the balance row and its sources,
// all bound to the current transaction
type TransactionalRepositories interface {
	BalanceRepo() finance.BalanceRepository
	InvoiceRepo() trade.InvoiceRepository
	ReturnRepo() trade.ReturnRepository
	PaymentRepo() finance.PaymentRepository
}
