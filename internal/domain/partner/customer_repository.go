package partner

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForCompany finds a customer by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Customer, error)

	// FindByNameKey finds a customer by folded name within a company
	FindByNameKey(ctx context.Context, companyID uuid.UUID, nameKey string) (*Customer, error)

	// FindByIDsForCompany loads several customers of a company
	FindByIDsForCompany(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Customer, error)

	// FindAllForCompany lists customers of a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)

	// ListIDsForCompany returns every customer id of a company
	ListIDsForCompany(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
}
