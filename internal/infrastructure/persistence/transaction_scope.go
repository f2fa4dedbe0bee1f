package persistence

import (
	"context"

	financeapp "github.com/SamerElhamdo/stockly/internal/application/finance"
	tradeapp "github.com/SamerElhamdo/stockly/internal/application/trade"
	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTradeTransactionScope implements the invoice and return workflows'
// TransactionScope using GORM transactions
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// An error from fn rolls the transaction back.
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos tradeapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormFinanceTransactionScope implements the balance reconciler's
// TransactionScope using GORM transactions
type GormFinanceTransactionScope struct {
	db *gorm.DB
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// An error from fn rolls the transaction back.
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos financeapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) InvoiceRepo() trade.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReturnRepo() trade.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) SequenceRepo() trade.ReturnSequenceRepository {
	return NewGormReturnSequenceRepository(r.tx)
}

func (r *gormTransactionalRepositories) BalanceRepo() finance.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaymentRepo() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

var (
	_ tradeapp.TransactionScope            = (*GormTradeTransactionScope)(nil)
	_ financeapp.TransactionScope          = (*GormFinanceTransactionScope)(nil)
	_ tradeapp.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ financeapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
