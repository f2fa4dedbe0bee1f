package trade

import (
	"context"
	"testing"

	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/identity"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/SamerElhamdo/stockly/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type returnFixture struct {
	service     *ReturnService
	returnRepo  *MockReturnRepository
	invoiceRepo *MockInvoiceRepository
	productRepo *MockProductRepository
	seqRepo     *MockSequenceRepository
	companyRepo *MockCompanyRepository
	publisher   *testutil.RecordingPublisher
	company     *identity.Company
	actorID     uuid.UUID
}

func newReturnFixture(t *testing.T) *returnFixture {
	t.Helper()
	company, err := identity.NewCompany("Al Noor Trading", "noor")
	require.NoError(t, err)

	f := &returnFixture{
		returnRepo:  new(MockReturnRepository),
		invoiceRepo: new(MockInvoiceRepository),
		productRepo: new(MockProductRepository),
		seqRepo:     new(MockSequenceRepository),
		companyRepo: new(MockCompanyRepository),
		publisher:   testutil.NewRecordingPublisher(),
		company:     company,
		actorID:     uuid.New(),
	}
	scope := NewNoOpTransactionScope(f.invoiceRepo, f.returnRepo, f.productRepo, f.seqRepo)
	f.service = NewReturnService(f.returnRepo, f.invoiceRepo, f.companyRepo, scope)
	f.service.SetEventPublisher(f.publisher)
	return f
}

// confirmedInvoice sells qty units of one product at price
func (f *returnFixture) confirmedInvoice(t *testing.T, productID uuid.UUID, qty, price int64) *trade.Invoice {
	t.Helper()
	inv, err := trade.NewInvoice(f.company.ID, uuid.New(), f.actorID)
	require.NoError(t, err)
	_, err = inv.AddItem(productID, "Rice", "RICE", decimal.NewFromInt(qty), decimal.NewFromInt(price))
	require.NoError(t, err)
	require.NoError(t, inv.Confirm())
	inv.ClearDomainEvents()
	return inv
}

func (f *returnFixture) pendingReturn(t *testing.T, inv *trade.Invoice, qty int64) *trade.Return {
	t.Helper()
	ret, err := trade.NewReturn(inv, trade.FormatReturnNumber(f.company.Code, 1), f.actorID, "")
	require.NoError(t, err)
	_, err = ret.AddItem(&inv.Items[0], decimal.NewFromInt(qty), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, ret.Submit())
	ret.ClearDomainEvents()
	return ret
}

func TestReturnService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers the return from the company sequence", func(t *testing.T) {
		f := newReturnFixture(t)
		inv := f.confirmedInvoice(t, uuid.New(), 5, 10)
		itemID := inv.Items[0].ID

		f.companyRepo.On("FindByID", ctx, f.company.ID).Return(f.company, nil)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, f.company.ID, inv.ID).Return(inv, nil)
		f.returnRepo.On("SumReturnedByOriginalItem", ctx, f.company.ID, inv.ID).
			Return(map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(1)}, nil)
		f.seqRepo.On("Next", ctx, f.company.ID).Return(int64(7), nil)
		f.returnRepo.On("Create", ctx, mock.AnythingOfType("*trade.Return")).Return(nil)

		resp, err := f.service.Create(ctx, f.company.ID, f.actorID, CreateReturnRequest{
			InvoiceID: inv.ID,
			Items: []CreateReturnItemRequest{
				{OriginalItemID: itemID, Quantity: decimal.NewFromInt(2)},
				{OriginalItemID: itemID, Quantity: decimal.NewFromInt(1)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "RET-NOOR-0007", resp.ReturnNumber)
		assert.Equal(t, "pending", resp.Status)
		require.Len(t, resp.Items, 1, "repeated lines are merged")
		assert.True(t, resp.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, []string{trade.EventTypeReturnCreated}, f.publisher.EventTypes())
		f.seqRepo.AssertExpectations(t)
	})

	t.Run("caps at sold minus returned", func(t *testing.T) {
		f := newReturnFixture(t)
		inv := f.confirmedInvoice(t, uuid.New(), 5, 10)
		itemID := inv.Items[0].ID

		f.companyRepo.On("FindByID", ctx, f.company.ID).Return(f.company, nil)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, f.company.ID, inv.ID).Return(inv, nil)
		f.returnRepo.On("SumReturnedByOriginalItem", ctx, f.company.ID, inv.ID).
			Return(map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(4)}, nil)

		_, err := f.service.Create(ctx, f.company.ID, f.actorID, CreateReturnRequest{
			InvoiceID: inv.ID,
			Items:     []CreateReturnItemRequest{{OriginalItemID: itemID, Quantity: decimal.NewFromInt(2)}},
		})
		domainErr, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeQuantityExceeded, domainErr.Code)

		details, ok := domainErr.Details.(trade.ReturnableQuantity)
		require.True(t, ok)
		assert.True(t, details.Returnable.Equal(decimal.NewFromInt(1)))
		f.seqRepo.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
		f.returnRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("requires a confirmed invoice", func(t *testing.T) {
		f := newReturnFixture(t)
		draft, err := trade.NewInvoice(f.company.ID, uuid.New(), f.actorID)
		require.NoError(t, err)

		f.companyRepo.On("FindByID", ctx, f.company.ID).Return(f.company, nil)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, f.company.ID, draft.ID).Return(draft, nil)

		_, err = f.service.Create(ctx, f.company.ID, f.actorID, CreateReturnRequest{
			InvoiceID: draft.ID,
			Items:     []CreateReturnItemRequest{{OriginalItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		assert.Equal(t, shared.CodeInvalidState, domainCode(t, err))
	})

	t.Run("unknown invoice line", func(t *testing.T) {
		f := newReturnFixture(t)
		inv := f.confirmedInvoice(t, uuid.New(), 5, 10)

		f.companyRepo.On("FindByID", ctx, f.company.ID).Return(f.company, nil)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, f.company.ID, inv.ID).Return(inv, nil)
		f.returnRepo.On("SumReturnedByOriginalItem", ctx, f.company.ID, inv.ID).Return(map[uuid.UUID]decimal.Decimal{}, nil)

		_, err := f.service.Create(ctx, f.company.ID, f.actorID, CreateReturnRequest{
			InvoiceID: inv.ID,
			Items:     []CreateReturnItemRequest{{OriginalItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		assert.Equal(t, shared.CodeNotFound, domainCode(t, err))
	})

	t.Run("validates quantities before any lookup", func(t *testing.T) {
		f := newReturnFixture(t)
		_, err := f.service.Create(ctx, f.company.ID, f.actorID, CreateReturnRequest{
			InvoiceID: uuid.New(),
			Items:     []CreateReturnItemRequest{{OriginalItemID: uuid.New(), Quantity: decimal.NewFromInt(-1)}},
		})
		assert.Equal(t, shared.CodeValidation, domainCode(t, err))
		f.companyRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestReturnService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("restores stock", func(t *testing.T) {
		f := newReturnFixture(t)
		product, err := catalog.NewProduct(f.company.ID, "Rice", "RICE", catalog.UnitPiece, decimal.NewFromInt(10), decimal.NewFromInt(7))
		require.NoError(t, err)
		inv := f.confirmedInvoice(t, product.ID, 3, 10)
		ret := f.pendingReturn(t, inv, 2)
		products := []catalog.Product{*product}

		f.returnRepo.On("FindByIDForUpdate", mock.Anything, f.company.ID, ret.ID).Return(ret, nil)
		f.invoiceRepo.On("FindByIDForUpdate", mock.Anything, f.company.ID, inv.ID).Return(inv, nil)
		f.returnRepo.On("SumReturnedByOriginalItem", mock.Anything, f.company.ID, inv.ID).Return(map[uuid.UUID]decimal.Decimal{}, nil)
		f.productRepo.On("FindByIDsForUpdate", mock.Anything, f.company.ID, []uuid.UUID{product.ID}).Return(products, nil)
		f.productRepo.On("UpdateStock", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil).Once()
		f.returnRepo.On("Save", mock.Anything, ret).Return(nil)

		resp, err := f.service.Approve(ctx, f.company.ID, f.actorID, ret.ID)
		require.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		assert.True(t, products[0].StockQty.Equal(decimal.NewFromInt(9)))
		assert.Equal(t, []string{trade.EventTypeReturnApproved}, f.publisher.EventTypes())
		f.productRepo.AssertExpectations(t)
	})

	t.Run("rechecks the cap against approved returns", func(t *testing.T) {
		f := newReturnFixture(t)
		inv := f.confirmedInvoice(t, uuid.New(), 3, 10)
		ret := f.pendingReturn(t, inv, 2)

		f.returnRepo.On("FindByIDForUpdate", mock.Anything, f.company.ID, ret.ID).Return(ret, nil)
		f.invoiceRepo.On("FindByIDForUpdate", mock.Anything, f.company.ID, inv.ID).Return(inv, nil)
		f.returnRepo.On("SumReturnedByOriginalItem", mock.Anything, f.company.ID, inv.ID).
			Return(map[uuid.UUID]decimal.Decimal{inv.Items[0].ID: decimal.NewFromInt(2)}, nil)

		_, err := f.service.Approve(ctx, f.company.ID, f.actorID, ret.ID)
		assert.Equal(t, shared.CodeQuantityExceeded, domainCode(t, err))
		assert.Equal(t, trade.ReturnStatusPending, ret.Status)
		f.productRepo.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("only pending returns", func(t *testing.T) {
		f := newReturnFixture(t)
		inv := f.confirmedInvoice(t, uuid.New(), 3, 10)
		ret := f.pendingReturn(t, inv, 1)
		require.NoError(t, ret.Reject(f.actorID, "damaged by customer"))

		f.returnRepo.On("FindByIDForUpdate", mock.Anything, f.company.ID, ret.ID).Return(ret, nil)

		_, err := f.service.Approve(ctx, f.company.ID, f.actorID, ret.ID)
		assert.Equal(t, shared.CodeInvalidState, domainCode(t, err))
	})
}

func TestReturnService_Reject(t *testing.T) {
	ctx := context.Background()
	f := newReturnFixture(t)
	inv := f.confirmedInvoice(t, uuid.New(), 3, 10)
	ret := f.pendingReturn(t, inv, 1)

	f.returnRepo.On("FindByIDForUpdate", ctx, f.company.ID, ret.ID).Return(ret, nil)
	f.returnRepo.On("Save", ctx, ret).Return(nil)

	resp, err := f.service.Reject(ctx, f.company.ID, f.actorID, ret.ID, RejectReturnRequest{Reason: "outside window"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Equal(t, []string{trade.EventTypeReturnRejected}, f.publisher.EventTypes())
	f.productRepo.AssertNotCalled(t, "FindByIDsForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestReturnService_GetReturnableItems(t *testing.T) {
	ctx := context.Background()
	f := newReturnFixture(t)
	inv := f.confirmedInvoice(t, uuid.New(), 4, 10)
	itemID := inv.Items[0].ID

	f.invoiceRepo.On("FindByIDForCompany", ctx, f.company.ID, inv.ID).Return(inv, nil)
	f.returnRepo.On("SumReturnedByOriginalItem", ctx, f.company.ID, inv.ID).
		Return(map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(1)}, nil).Once()

	items, err := f.service.GetReturnableItems(ctx, f.company.ID, inv.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].QtyAvailable.Equal(decimal.NewFromInt(3)))
	assert.True(t, items[0].QtyReturned.Equal(decimal.NewFromInt(1)))

	f.returnRepo.On("SumReturnedByOriginalItem", ctx, f.company.ID, inv.ID).
		Return(map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(4)}, nil).Once()

	items, err = f.service.GetReturnableItems(ctx, f.company.ID, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "fully returned lines are hidden")
}
