package trade

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
)

// TransactionScope runs invoice and return workflows atomically.
// Every repository handed to fn shares one database transaction.
type TransactionScope interface {
	// Execute runs fn within a database transaction. A returned error rolls
	// the transaction back; success commits it.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories a stock-mutating
// workflow needs, all bound to the current transaction
type TransactionalRepositories interface {
	InvoiceRepo() trade.InvoiceRepository
	ReturnRepo() trade.ReturnRepository
	ProductRepo() catalog.ProductRepository
	SequenceRepo() trade.ReturnSequenceRepository
}

// NoOpTransactionScope runs fn without a transaction. Used with mock repositories.
type NoOpTransactionScope struct {
	invoiceRepo  trade.InvoiceRepository
	returnRepo   trade.ReturnRepository
	productRepo  catalog.ProductRepository
	sequenceRepo trade.ReturnSequenceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	invoiceRepo trade.InvoiceRepository,
	returnRepo trade.ReturnRepository,
	productRepo catalog.ProductRepository,
	sequenceRepo trade.ReturnSequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:  invoiceRepo,
		returnRepo:   returnRepo,
		productRepo:  productRepo,
		sequenceRepo: sequenceRepo,
	}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) InvoiceRepo() trade.InvoiceRepository { return s.invoiceRepo }
func (s *NoOpTransactionScope) ReturnRepo() trade.ReturnRepository { return s.returnRepo }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }
func (s *NoOpTransactionScope) SequenceRepo() trade.ReturnSequenceRepository { return s.sequenceRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
