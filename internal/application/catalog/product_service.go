package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	appevent "github.com/SamerElhamdo/stockly/internal/application/event"
	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/identity"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
)

// skuAttempts bounds how many generated SKUs are tried before giving up
const skuAttempts = 5

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	companyRepo    identity.CompanyRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	companyRepo identity.CompanyRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		companyRepo:  companyRepo,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, companyID, actorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForCompany(ctx, companyID, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("Category not found")
			}
			return nil, err
		}
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if sku != "" {
		exists, err := s.productRepo.ExistsBySKU(ctx, companyID, sku)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Product with this SKU already exists")
		}
	} else {
		generated, err := s.generateSKU(ctx, companyID, req.Name)
		if err != nil {
			return nil, err
		}
		sku = generated
	}

	product, err := catalog.NewProduct(companyID, req.Name, sku, catalog.Unit(req.Unit), req.Price, req.StockQty)
	if err != nil {
		return nil, err
	}
	if actorID != uuid.Nil {
		product.CreatedBy = &actorID
	}
	product.SetCategory(req.CategoryID)
	product.SetDetails(req.Measurement, req.Description)
	if err := product.SetTierPrices(req.CostPrice, req.WholesalePrice, req.RetailPrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, companyID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForCompany(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List lists products of a company
func (s *ProductService) List(ctx context.Context, companyID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	products, total, err := s.productRepo.FindAllForCompany(ctx, companyID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// UpdatePrice changes the selling price. Existing invoice lines keep the
// price they were added at.
func (s *ProductService) UpdatePrice(ctx context.Context, companyID, productID uuid.UUID, req UpdatePriceRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForCompany(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if err := product.UpdatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdatePrice(ctx, product); err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Archive takes a product off sale. Lines already on invoices are kept.
func (s *ProductService) Archive(ctx context.Context, companyID, productID uuid.UUID) (*ProductResponse, error) {
	return s.setArchived(ctx, companyID, productID, (*catalog.Product).Archive)
}

// Restore puts an archived product back on sale
func (s *ProductService) Restore(ctx context.Context, companyID, productID uuid.UUID) (*ProductResponse, error) {
	return s.setArchived(ctx, companyID, productID, (*catalog.Product).Restore)
}

func (s *ProductService) setArchived(ctx context.Context, companyID, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForCompany(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateArchived(ctx, product); err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, product)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) generateSKU(ctx context.Context, companyID uuid.UUID, productName string) (string, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return "", err
	}
	for range skuAttempts {
		candidate := catalog.GenerateSKU(company.Name, productName, s.now())
		exists, err := s.productRepo.ExistsBySKU(ctx, companyID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", shared.NewDomainError(shared.CodeAlreadyExists, "Could not generate a unique SKU")
}
