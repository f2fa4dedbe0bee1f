package catalog

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	CategoryID      *uuid.UUID
	IncludeArchived bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForCompany finds a product by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Product, error)

	// FindByIDsForCompany loads several products of a company
	FindByIDsForCompany(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindByIDsForUpdate loads products with a row lock, ordered by id.
	// Must be called inside a transaction.
	FindByIDsForUpdate(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAllForCompany lists products of a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ProductFilter) ([]Product, int64, error)

	// ExistsBySKU checks if a SKU is taken within a company
	ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string) (bool, error)

	// Save creates a product or rewrites every column of it
	Save(ctx context.Context, product *Product) error

	// UpdatePrice persists only the price. Stock written by concurrent
	// confirmations is left untouched.
	UpdatePrice(ctx context.Context, product *Product) error

	// UpdateArchived persists only the archived flag
	UpdateArchived(ctx context.Context, product *Product) error

	// UpdateStock persists the stock quantity and version of a product
	UpdateStock(ctx context.Context, product *Product) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByIDForCompany finds a category by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Category, error)

	// FindAllForCompany lists categories of a company ordered by name
	FindAllForCompany(ctx context.Context, companyID uuid.UUID) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}
