package persistence

import (
	"context"
	"strings"

	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForCompany finds a product by ID within a company
func (r *GormProductRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Product")
	}
	return model.ToDomain(), nil
}

// FindByIDsForCompany loads several products of a company
func (r *GormProductRepository) FindByIDsForCompany(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindByIDsForUpdate locks the given product rows in ascending id order
func (r *GormProductRepository) FindByIDsForUpdate(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Clauses(forUpdate).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindAllForCompany lists products of a company
func (r *GormProductRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("company_id = ?", companyID).
		Scopes(searchLike(filter.Search, "name", "sku"))
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if !filter.IncludeArchived {
		query = query.Where("archived = ?", false)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := query.Scopes(paginate(filter.Filter, productSortFields, "name")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return productsToDomain(rows), total, nil
}

// ExistsBySKU checks if a SKU is taken within a company
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("company_id = ? AND sku = ?", companyID, strings.ToUpper(sku)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product, writing every column
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// UpdateStock persists only stock_qty, version and updated_at
func (r *GormProductRepository) UpdateStock(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("company_id = ? AND id = ?", product.CompanyID, product.ID).
		Updates(map[string]any{
			"stock_qty":  product.StockQty,
			"version":    product.Version,
			"updated_at": product.UpdatedAt,
		}).Error
}

// UpdatePrice persists only price, version and updated_at
func (r *GormProductRepository) UpdatePrice(ctx context.Context, product *catalog.Product) error {
	return r.updateColumns(ctx, product, map[string]any{"price": product.Price})
}

// UpdateArchived persists only archived, version and updated_at
func (r *GormProductRepository) UpdateArchived(ctx context.Context, product *catalog.Product) error {
	return r.updateColumns(ctx, product, map[string]any{"archived": product.Archived})
}

// updateColumns bumps the stored version rather than writing the caller's,
// which may have been read before a stock change
func (r *GormProductRepository) updateColumns(ctx context.Context, product *catalog.Product, columns map[string]any) error {
	columns["version"] = gorm.Expr("version + 1")
	columns["updated_at"] = product.UpdatedAt
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("company_id = ? AND id = ?", product.CompanyID, product.ID).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product")
	}
	return nil
}

func productsToDomain(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
