package persistence

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForCompany finds an invoice with its items within a company
func (r *GormInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*trade.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Invoice")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the invoice row, then loads its items
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*trade.Invoice, error) {
	db := r.db.WithContext(ctx)
	var model models.InvoiceModel
	if err := db.Clauses(forUpdate).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Invoice")
	}
	if err := db.Where("invoice_id = ?", model.ID).
		Order("created_at ASC, id ASC").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCompany lists invoice headers of a company
func (r *GormInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter trade.InvoiceFilter) ([]trade.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("company_id = ?", companyID)
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvoiceModel
	if err := query.Scopes(paginate(filter.Filter, invoiceSortFields, "created_at")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	invoices := make([]trade.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, total, nil
}

// Save creates or updates the invoice header. Items are written by SaveItem.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *trade.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items").Save(models.InvoiceModelFromDomain(invoice)).Error
}

// SaveItem inserts an invoice line
func (r *GormInvoiceRepository) SaveItem(ctx context.Context, item *trade.InvoiceItem) error {
	return r.db.WithContext(ctx).Create(models.InvoiceItemModelFromDomain(item)).Error
}

// SumConfirmedTotal sums total_amount of confirmed invoices of a customer
func (r *GormInvoiceRepository) SumConfirmedTotal(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("company_id = ? AND customer_id = ? AND status = ?", companyID, customerID, trade.InvoiceStatusConfirmed.String()).
		Row().Scan(&total)
	return total, err
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ trade.InvoiceRepository = (*GormInvoiceRepository)(nil)
