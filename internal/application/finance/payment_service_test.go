package finance

import (
	"context"
	"testing"
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/SamerElhamdo/stockly/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	service      *PaymentService
	paymentRepo  *MockPaymentRepository
	customerRepo *MockCustomerRepository
	invoiceRepo  *MockInvoiceRepository
	publisher    *testutil.RecordingPublisher
	companyID    uuid.UUID
	actorID      uuid.UUID
	customer     *partner.Customer
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	companyID := uuid.New()
	customer, err := partner.NewCustomer(companyID, "Hadi Market")
	require.NoError(t, err)

	f := &paymentFixture{
		paymentRepo:  new(MockPaymentRepository),
		customerRepo: new(MockCustomerRepository),
		invoiceRepo:  new(MockInvoiceRepository),
		publisher:    testutil.NewRecordingPublisher(),
		companyID:    companyID,
		actorID:      uuid.New(),
		customer:     customer,
	}
	f.service = NewPaymentService(f.paymentRepo, f.customerRepo, f.invoiceRepo)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func (f *paymentFixture) confirmedInvoice(t *testing.T, customerID uuid.UUID, total int64) *trade.Invoice {
	t.Helper()
	inv, err := trade.NewInvoice(f.companyID, customerID, f.actorID)
	require.NoError(t, err)
	_, err = inv.AddItem(uuid.New(), "Rice", "RICE", decimal.NewFromInt(1), decimal.NewFromInt(total))
	require.NoError(t, err)
	require.NoError(t, inv.Confirm())
	return inv
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("records a payment linked to an invoice", func(t *testing.T) {
		f := newPaymentFixture(t)
		inv := f.confirmedInvoice(t, f.customer.ID, 100)
		paidOn := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		f.customerRepo.On("FindByIDForCompany", ctx, f.companyID, f.customer.ID).Return(f.customer, nil)
		f.invoiceRepo.On("FindByIDForCompany", ctx, f.companyID, inv.ID).Return(inv, nil)
		f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

		resp, err := f.service.Create(ctx, f.companyID, f.actorID, CreatePaymentRequest{
			CustomerID:  f.customer.ID,
			InvoiceID:   &inv.ID,
			Amount:      decimal.RequireFromString("60.00"),
			Method:      "bank_transfer",
			PaymentDate: &paidOn,
			Notes:       "  first instalment ",
		})
		require.NoError(t, err)
		require.NotNil(t, resp.InvoiceID)
		assert.Equal(t, inv.ID, *resp.InvoiceID)
		assert.Equal(t, "bank_transfer", resp.Method)
		assert.Equal(t, "first instalment", resp.Notes)
		assert.True(t, resp.PaymentDate.Equal(paidOn))
		assert.Equal(t, []string{finance.EventTypePaymentRecorded}, f.publisher.EventTypes())
	})

	t.Run("negative amount is a withdrawal", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.customerRepo.On("FindByIDForCompany", ctx, f.companyID, f.customer.ID).Return(f.customer, nil)
		f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

		resp, err := f.service.Create(ctx, f.companyID, f.actorID, CreatePaymentRequest{
			CustomerID: f.customer.ID,
			Amount:     decimal.NewFromInt(-25),
		})
		require.NoError(t, err)
		assert.Equal(t, "cash", resp.Method)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(-25)))
	})

	t.Run("amount may exceed the invoice", func(t *testing.T) {
		f := newPaymentFixture(t)
		inv := f.confirmedInvoice(t, f.customer.ID, 10)
		f.customerRepo.On("FindByIDForCompany", ctx, f.companyID, f.customer.ID).Return(f.customer, nil)
		f.invoiceRepo.On("FindByIDForCompany", ctx, f.companyID, inv.ID).Return(inv, nil)
		f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

		_, err := f.service.Create(ctx, f.companyID, f.actorID, CreatePaymentRequest{
			CustomerID: f.customer.ID,
			InvoiceID:  &inv.ID,
			Amount:     decimal.NewFromInt(500),
		})
		assert.NoError(t, err)
	})

	t.Run("zero amount", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.service.Create(ctx, f.companyID, f.actorID, CreatePaymentRequest{CustomerID: f.customer.ID})
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.customerRepo.AssertNotCalled(t, "FindByIDForCompany", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newPaymentFixture(t)
		id := uuid.New()
		f.customerRepo.On("FindByIDForCompany", ctx, f.companyID, id).Return(nil, shared.NewNotFoundError("Customer"))

		_, err := f.service.Create(ctx, f.companyID, f.actorID, CreatePaymentRequest{CustomerID: id, Amount: decimal.NewFromInt(5)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invoice of another customer", func(t *testing.T) {
		f := newPaymentFixture(t)
		inv := f.confirmedInvoice(t, uuid.New(), 10)
		f.customerRepo.On("FindByIDForCompany", ctx, f.companyID, f.customer.ID).Return(f.customer, nil)
		f.invoiceRepo.On("FindByIDForCompany", ctx, f.companyID, inv.ID).Return(inv, nil)

		_, err := f.service.Create(ctx, f.companyID, f.actorID, CreatePaymentRequest{
			CustomerID: f.customer.ID,
			InvoiceID:  &inv.ID,
			Amount:     decimal.NewFromInt(5),
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, f.publisher.Events())
	})
}

func TestPaymentService_InvoicePaymentSummary(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)
	inv := f.confirmedInvoice(t, f.customer.ID, 100)

	first, err := finance.NewPayment(f.companyID, f.customer.ID, decimal.NewFromInt(60), finance.PaymentMethodCash, time.Time{}, f.actorID)
	require.NoError(t, err)
	second, err := finance.NewPayment(f.companyID, f.customer.ID, decimal.NewFromInt(15), finance.PaymentMethodCard, time.Time{}, f.actorID)
	require.NoError(t, err)

	f.invoiceRepo.On("FindByIDForCompany", ctx, f.companyID, inv.ID).Return(inv, nil)
	f.paymentRepo.On("FindByInvoice", ctx, f.companyID, inv.ID).Return([]finance.Payment{*first, *second}, nil)

	summary, err := f.service.InvoicePaymentSummary(ctx, f.companyID, inv.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(75)))
	assert.True(t, summary.Remaining.Equal(decimal.NewFromInt(25)))
	assert.Len(t, summary.Payments, 2)
}

func TestPaymentService_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)
	payment, err := finance.NewPayment(f.companyID, f.customer.ID, decimal.NewFromInt(10), finance.PaymentMethodCash, time.Time{}, f.actorID)
	require.NoError(t, err)

	f.customerRepo.On("FindByIDForCompany", ctx, f.companyID, f.customer.ID).Return(f.customer, nil)
	f.paymentRepo.On("FindByCustomer", ctx, f.companyID, f.customer.ID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 2 && filter.PageSize == 5
	})).Return([]finance.Payment{*payment}, int64(6), nil)

	payments, total, err := f.service.ListByCustomer(ctx, f.companyID, f.customer.ID, ListFilter{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, payments, 1)
	assert.Equal(t, payment.ID, payments[0].ID)
}
