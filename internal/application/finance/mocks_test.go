package finance

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/identity"
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRepository is a mock implementation of finance.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) ([]finance.Payment, int64, error) {
	args := m.Called(ctx, companyID, customerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) ([]finance.Payment, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SumByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBalanceRepository is a mock implementation of finance.BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*finance.CustomerBalance, error) {
	args := m.Called(ctx, companyID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CustomerBalance), args.Error(1)
}

func (m *MockBalanceRepository) GetOrCreateForUpdate(ctx context.Context, companyID, customerID uuid.UUID) (*finance.CustomerBalance, error) {
	args := m.Called(ctx, companyID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CustomerBalance), args.Error(1)
}

func (m *MockBalanceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.CustomerBalance, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.CustomerBalance), args.Get(1).(int64), args.Error(2)
}

func (m *MockBalanceRepository) Save(ctx context.Context, balance *finance.CustomerBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of trade.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*trade.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*trade.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter trade.InvoiceFilter) ([]trade.Invoice, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *trade.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveItem(ctx context.Context, item *trade.InvoiceItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SumConfirmedTotal(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockReturnRepository is a mock implementation of trade.ReturnRepository
type MockReturnRepository struct {
	mock.Mock
}

func (m *MockReturnRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*trade.Return, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Return), args.Error(1)
}

func (m *MockReturnRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*trade.Return, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Return), args.Error(1)
}

func (m *MockReturnRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter trade.ReturnFilter) ([]trade.Return, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.Return), args.Get(1).(int64), args.Error(2)
}

func (m *MockReturnRepository) Create(ctx context.Context, ret *trade.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

func (m *MockReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

func (m *MockReturnRepository) SumReturnedByOriginalItem(ctx context.Context, companyID, invoiceID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockReturnRepository) SumApprovedTotal(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByNameKey(ctx context.Context, companyID uuid.UUID, nameKey string) (*partner.Customer, error) {
	args := m.Called(ctx, companyID, nameKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDsForCompany(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]partner.Customer, error) {
	args := m.Called(ctx, companyID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ListIDsForCompany(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockCompanyRepository is a mock implementation of identity.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByCode(ctx context.Context, code string) (*identity.Company, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindActive(ctx context.Context) ([]identity.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// mockScope hands the mock repositories to fn without a transaction
type mockScope struct {
	balances *MockBalanceRepository
	invoices *MockInvoiceRepository
	returns  *MockReturnRepository
	payments *MockPaymentRepository
}

func newMockScope() *mockScope {
	return &mockScope{
		balances: new(MockBalanceRepository),
		invoices: new(MockInvoiceRepository),
		returns:  new(MockReturnRepository),
		payments: new(MockPaymentRepository),
	}
}

func (s *mockScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *mockScope) BalanceRepo() finance.BalanceRepository { return s.balances }
func (s *mockScope) InvoiceRepo() trade.InvoiceRepository   { return s.invoices }
func (s *mockScope) ReturnRepo() trade.ReturnRepository     { return s.returns }
func (s *mockScope) PaymentRepo() finance.PaymentRepository { return s.payments }
