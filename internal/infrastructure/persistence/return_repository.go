package persistence

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByIDForCompany finds a return with its items within a company
func (r *GormReturnRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*trade.Return, error) {
	var model models.ReturnModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Return")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the return row, then loads its items
func (r *GormReturnRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*trade.Return, error) {
	db := r.db.WithContext(ctx)
	var model models.ReturnModel
	if err := db.Clauses(forUpdate).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Return")
	}
	if err := db.Where("return_id = ?", model.ID).
		Order("created_at ASC, id ASC").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCompany lists return headers of a company
func (r *GormReturnRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter trade.ReturnFilter) ([]trade.Return, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReturnModel{}).
		Where("company_id = ?", companyID).
		Scopes(searchLike(filter.Search, "return_number"))
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ReturnModel
	if err := query.Scopes(paginate(filter.Filter, returnSortFields, "created_at")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	returns := make([]trade.Return, len(rows))
	for i := range rows {
		returns[i] = *rows[i].ToDomain()
	}
	return returns, total, nil
}

// Create inserts a return with its items
func (r *GormReturnRepository) Create(ctx context.Context, ret *trade.Return) error {
	return r.db.WithContext(ctx).Create(models.ReturnModelFromDomain(ret)).Error
}

// Save updates the return header
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	return r.db.WithContext(ctx).Omit("Items").Save(models.ReturnModelFromDomain(ret)).Error
}

// SumReturnedByOriginalItem sums returned quantity per invoice line over
// approved and completed returns of the invoice
func (r *GormReturnRepository) SumReturnedByOriginalItem(ctx context.Context, companyID, invoiceID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		OriginalItemID uuid.UUID
		Qty            decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Table("return_items AS ri").
		Select("ri.original_item_id AS original_item_id, COALESCE(SUM(ri.qty_returned), 0) AS qty").
		Joins("JOIN returns AS r ON r.id = ri.return_id").
		Where("r.company_id = ? AND r.invoice_id = ? AND r.status IN ?", companyID, invoiceID, statusStrings(trade.ReturnedStatuses())).
		Group("ri.original_item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.OriginalItemID] = row.Qty
	}
	return sums, nil
}

// SumApprovedTotal sums total_amount of approved returns of a customer
func (r *GormReturnRepository) SumApprovedTotal(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.ReturnModel{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("company_id = ? AND customer_id = ? AND status = ?", companyID, customerID, trade.ReturnStatusApproved.String()).
		Row().Scan(&total)
	return total, err
}

func statusStrings(statuses []trade.ReturnStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

// Ensure GormReturnRepository implements ReturnRepository
var _ trade.ReturnRepository = (*GormReturnRepository)(nil)
