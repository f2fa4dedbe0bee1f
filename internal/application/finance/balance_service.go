package finance

import (
	"context"
	"errors"
	"io"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/identity"
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
)

// BalanceSheetWriter renders balances as a spreadsheet
type BalanceSheetWriter interface {
	WriteBalances(w io.Writer, companyName string, rows []BalanceResponse) error
}

// BalanceService reads customer balances
type BalanceService struct {
	balanceRepo  finance.BalanceRepository
	customerRepo partner.CustomerRepository
	companyRepo  identity.CompanyRepository
	reconciler   *BalanceReconciler
	sheetWriter  BalanceSheetWriter
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(
	balanceRepo finance.BalanceRepository,
	customerRepo partner.CustomerRepository,
	companyRepo identity.CompanyRepository,
	reconciler *BalanceReconciler,
	sheetWriter BalanceSheetWriter,
) *BalanceService {
	return &BalanceService{
		balanceRepo:  balanceRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		reconciler:   reconciler,
		sheetWriter:  sheetWriter,
	}
}

// Get returns a customer's balance. A customer without a balance row yet
// reads as all zero.
func (s *BalanceService) Get(ctx context.Context, companyID, customerID uuid.UUID) (*BalanceResponse, error) {
	customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	balance, err := s.balanceRepo.FindByCustomer(ctx, companyID, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		balance = finance.NewCustomerBalance(companyID, customerID)
	} else if err != nil {
		return nil, err
	}
	response := ToBalanceResponse(balance)
	response.CustomerName = customer.Name
	return &response, nil
}

// Recompute rebuilds a customer's balance on demand
func (s *BalanceService) Recompute(ctx context.Context, companyID, customerID uuid.UUID) (*BalanceResponse, error) {
	customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	balance, err := s.reconciler.Recompute(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToBalanceResponse(balance)
	response.CustomerName = customer.Name
	return &response, nil
}

// List returns balances of a company
func (s *BalanceService) List(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]BalanceResponse, int64, error) {
	balances, total, err := s.balanceRepo.FindAllForCompany(ctx, companyID, toFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, len(balances))
	for i := range balances {
		ids[i] = balances[i].CustomerID
	}
	customers, err := s.customerRepo.FindByIDsForCompany(ctx, companyID, ids)
	if err != nil {
		return nil, 0, err
	}
	names := make(map[uuid.UUID]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	responses := make([]BalanceResponse, len(balances))
	for i := range balances {
		responses[i] = ToBalanceResponse(&balances[i])
		responses[i].CustomerName = names[balances[i].CustomerID]
	}
	return responses, total, nil
}

// Export writes every balance of the company as a spreadsheet
func (s *BalanceService) Export(ctx context.Context, companyID uuid.UUID, w io.Writer) error {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}

	var rows []BalanceResponse
	for page := 1; ; page++ {
		batch, total, err := s.List(ctx, companyID, ListFilter{Page: page, PageSize: 100})
		if err != nil {
			return err
		}
		rows = append(rows, batch...)
		if int64(len(rows)) >= total || len(batch) == 0 {
			break
		}
	}
	return s.sheetWriter.WriteBalances(w, company.Name, rows)
}
