package persistence_test

import (
	"context"
	"testing"

	catalogapp "github.com/SamerElhamdo/stockly/internal/application/catalog"
	partnerapp "github.com/SamerElhamdo/stockly/internal/application/partner"
	tradeapp "github.com/SamerElhamdo/stockly/internal/application/trade"
	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence"
	"github.com/SamerElhamdo/stockly/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// steppedScope runs before once, ahead of the next transaction it opens.
// SQLite holds a single connection, so the interleaved call must not run
// while a transaction is open.
type steppedScope struct {
	tradeapp.TransactionScope
	before func()
}

func (s *steppedScope) Execute(ctx context.Context, fn func(repos tradeapp.TransactionalRepositories) error) error {
	if step := s.before; step != nil {
		s.before = nil
		step()
	}
	return s.TransactionScope.Execute(ctx, fn)
}

// steppedProducts runs beforeUpdatePrice once, between the service's read and its write
type steppedProducts struct {
	*persistence.GormProductRepository
	beforeUpdatePrice func()
}

func (r *steppedProducts) UpdatePrice(ctx context.Context, product *catalog.Product) error {
	if step := r.beforeUpdatePrice; step != nil {
		r.beforeUpdatePrice = nil
		step()
	}
	return r.GormProductRepository.UpdatePrice(ctx, product)
}

type interleaveFixture struct {
	db       *gorm.DB
	company  uuid.UUID
	products *persistence.GormProductRepository
	invoices *tradeapp.InvoiceService
	stepped  *tradeapp.InvoiceService
	scope    *steppedScope
}

func newInterleaveFixture(t *testing.T) *interleaveFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	company := testutil.SeedCompany(t, db, "Al Noor Trading", "NOOR")
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	customers := partnerapp.NewCustomerService(persistence.NewGormCustomerRepository(db), "US")
	tradeScope := persistence.NewGormTradeTransactionScope(db)
	scope := &steppedScope{TransactionScope: tradeScope}
	return &interleaveFixture{
		db:       db,
		company:  company.ID,
		products: persistence.NewGormProductRepository(db),
		invoices: tradeapp.NewInvoiceService(invoiceRepo, customers, tradeScope),
		stepped:  tradeapp.NewInvoiceService(invoiceRepo, customers, scope),
		scope:    scope,
	}
}

// draftWithLine opens a draft holding qty units of product
func (f *interleaveFixture) draftWithLine(t *testing.T, product *catalog.Product, qty int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	inv, err := f.invoices.CreateDraft(ctx, f.company, uuid.New(), tradeapp.CreateDraftRequest{CustomerName: "Walk-in"})
	require.NoError(t, err)
	_, err = f.invoices.AddItem(ctx, f.company, inv.ID, tradeapp.AddItemRequest{ProductID: product.ID, Quantity: dec(qty)})
	require.NoError(t, err)
	return inv.ID
}

func (f *interleaveFixture) assertStock(t *testing.T, product *catalog.Product, want int64) {
	t.Helper()
	got, err := f.products.FindByIDForCompany(context.Background(), f.company, product.ID)
	require.NoError(t, err)
	assertDecimal(t, want, got.StockQty, "stock")
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestAddItem_AfterConcurrentConfirm(t *testing.T) {
	f := newInterleaveFixture(t)
	ctx := context.Background()
	pipe := saveProduct(t, f.db, f.company, "Steel Pipe", "PIPE-01", 10)
	invoiceID := f.draftWithLine(t, pipe, 3)

	f.scope.before = func() {
		_, err := f.invoices.Confirm(ctx, f.company, invoiceID)
		require.NoError(t, err)
	}
	_, err := f.stepped.AddItem(ctx, f.company, invoiceID, tradeapp.AddItemRequest{ProductID: pipe.ID, Quantity: dec(2)})
	assertCode(t, err, shared.CodeInvalidState)
	f.assertStock(t, pipe, 7)

	got, err := f.invoices.GetByID(ctx, f.company, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	require.Len(t, got.Items, 1)
	assertDecimal(t, 3, got.Items[0].Quantity, "quantity")
	assertDecimal(t, 30, got.TotalAmount, "total_amount")

	_, err = f.invoices.Confirm(ctx, f.company, invoiceID)
	assertCode(t, err, shared.CodeInvalidState)
	f.assertStock(t, pipe, 7)
}

func TestAddItem_AfterConcurrentCancel(t *testing.T) {
	f := newInterleaveFixture(t)
	ctx := context.Background()
	pipe := saveProduct(t, f.db, f.company, "Steel Pipe", "PIPE-01", 10)
	invoiceID := f.draftWithLine(t, pipe, 3)

	f.scope.before = func() {
		_, err := f.invoices.Cancel(ctx, f.company, invoiceID, tradeapp.CancelInvoiceRequest{Reason: "customer left"})
		require.NoError(t, err)
	}
	_, err := f.stepped.AddItem(ctx, f.company, invoiceID, tradeapp.AddItemRequest{ProductID: pipe.ID, Quantity: dec(2)})
	assertCode(t, err, shared.CodeInvalidState)

	got, err := f.invoices.GetByID(ctx, f.company, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	require.Len(t, got.Items, 1)
	assertDecimal(t, 30, got.TotalAmount, "total_amount")

	_, err = f.invoices.Confirm(ctx, f.company, invoiceID)
	assertCode(t, err, shared.CodeInvalidState)
	f.assertStock(t, pipe, 10)
}

func TestConfirm_TotalFollowsLines(t *testing.T) {
	f := newInterleaveFixture(t)
	ctx := context.Background()
	pipe := saveProduct(t, f.db, f.company, "Steel Pipe", "PIPE-01", 10)
	invoiceID := f.draftWithLine(t, pipe, 2)
	_, err := f.invoices.AddItem(ctx, f.company, invoiceID, tradeapp.AddItemRequest{ProductID: pipe.ID, Quantity: dec(1)})
	require.NoError(t, err)

	// a cached total left behind by an earlier writer
	require.NoError(t, f.db.Table("invoices").Where("id = ?", invoiceID).Update("total_amount", dec(10)).Error)

	confirmed, err := f.invoices.Confirm(ctx, f.company, invoiceID)
	require.NoError(t, err)
	assertDecimal(t, 30, confirmed.TotalAmount, "total_amount")

	got, err := f.invoices.GetByID(ctx, f.company, invoiceID)
	require.NoError(t, err)
	assertDecimal(t, 30, got.TotalAmount, "stored total_amount")
	f.assertStock(t, pipe, 7)
}

func TestUpdatePrice_AfterConcurrentConfirm(t *testing.T) {
	f := newInterleaveFixture(t)
	ctx := context.Background()
	pipe := saveProduct(t, f.db, f.company, "Steel Pipe", "PIPE-01", 10)
	invoiceID := f.draftWithLine(t, pipe, 4)

	stepped := &steppedProducts{GormProductRepository: f.products}
	products := catalogapp.NewProductService(stepped, persistence.NewGormCategoryRepository(f.db), persistence.NewGormCompanyRepository(f.db))
	stepped.beforeUpdatePrice = func() {
		_, err := f.invoices.Confirm(ctx, f.company, invoiceID)
		require.NoError(t, err)
	}

	resp, err := products.UpdatePrice(ctx, f.company, pipe.ID, catalogapp.UpdatePriceRequest{Price: dec(15)})
	require.NoError(t, err)
	assertDecimal(t, 15, resp.Price, "price")

	got, err := f.products.FindByIDForCompany(ctx, f.company, pipe.ID)
	require.NoError(t, err)
	assertDecimal(t, 6, got.StockQty, "stock")
	assertDecimal(t, 15, got.Price, "price")
}
