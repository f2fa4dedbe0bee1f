package partner

import (
	"context"
	"errors"

	appevent "github.com/SamerElhamdo/stockly/internal/application/event"
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles the customer directory
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	phoneRegion    string
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService. phoneRegion is the
// default region used to normalize phone numbers without a country code.
func NewCustomerService(customerRepo partner.CustomerRepository, phoneRegion string) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		phoneRegion:  phoneRegion,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a customer. Names are unique per company after
// normalization and case folding.
func (s *CustomerService) Create(ctx context.Context, companyID, actorID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(companyID, req.Name)
	if err != nil {
		return nil, err
	}

	_, err = s.customerRepo.FindByNameKey(ctx, companyID, customer.NameKey)
	switch {
	case err == nil:
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Customer with this name already exists")
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	if err := customer.SetContact(req.Phone, req.Email, req.Address, s.phoneRegion); err != nil {
		return nil, err
	}
	if actorID != uuid.Nil {
		customer.CreatedBy = &actorID
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, companyID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List lists customers of a company
func (s *CustomerService) List(ctx context.Context, companyID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = "asc"
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	customers, total, err := s.customerRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// Resolve returns the customer with customerID, or finds or creates the
// customer named name. A concurrent create of the same name is resolved
// by reading the winner back.
func (s *CustomerService) Resolve(ctx context.Context, companyID, actorID uuid.UUID, customerID *uuid.UUID, name string) (*partner.Customer, error) {
	if customerID != nil {
		return s.customerRepo.FindByIDForCompany(ctx, companyID, *customerID)
	}

	customer, err := partner.NewCustomer(companyID, name)
	if err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.FindByNameKey(ctx, companyID, customer.NameKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if actorID != uuid.Nil {
		customer.CreatedBy = &actorID
	}
	if saveErr := s.customerRepo.Save(ctx, customer); saveErr != nil {
		if winner, err := s.customerRepo.FindByNameKey(ctx, companyID, customer.NameKey); err == nil {
			return winner, nil
		}
		return nil, saveErr
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, customer)
	return customer, nil
}
