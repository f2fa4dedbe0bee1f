package persistence

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBalanceRepository implements BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// FindByCustomer returns the balance row of a customer
func (r *GormBalanceRepository) FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*finance.CustomerBalance, error) {
	var model models.CustomerBalanceModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND customer_id = ?", companyID, customerID).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Customer balance")
	}
	return model.ToDomain(), nil
}

// GetOrCreateForUpdate inserts an all-zero row if missing, then locks it
func (r *GormBalanceRepository) GetOrCreateForUpdate(ctx context.Context, companyID, customerID uuid.UUID) (*finance.CustomerBalance, error) {
	db := r.db.WithContext(ctx)

	seed := models.CustomerBalanceModelFromDomain(finance.NewCustomerBalance(companyID, customerID))
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "customer_id"}},
		DoNothing: true,
	}).Create(seed).Error; err != nil {
		return nil, err
	}

	var model models.CustomerBalanceModel
	if err := db.Clauses(forUpdate).
		Where("company_id = ? AND customer_id = ?", companyID, customerID).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Customer balance")
	}
	return model.ToDomain(), nil
}

// FindAllForCompany lists balances of a company, largest balance first by default
func (r *GormBalanceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.CustomerBalance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerBalanceModel{}).
		Where("company_id = ?", companyID)
	if owing, ok := filter.Filters["owing"].(bool); ok && owing {
		query = query.Where("balance > 0")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CustomerBalanceModel
	if err := query.Scopes(paginate(filter, balanceSortFields, "balance")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	balances := make([]finance.CustomerBalance, len(rows))
	for i := range rows {
		balances[i] = *rows[i].ToDomain()
	}
	return balances, total, nil
}

// Save overwrites the balance totals
func (r *GormBalanceRepository) Save(ctx context.Context, balance *finance.CustomerBalance) error {
	return r.db.WithContext(ctx).Model(&models.CustomerBalanceModel{}).
		Where("company_id = ? AND customer_id = ?", balance.CompanyID, balance.CustomerID).
		Updates(map[string]any{
			"total_invoiced": balance.TotalInvoiced,
			"total_paid":     balance.TotalPaid,
			"total_returns":  balance.TotalReturns,
			"balance":        balance.Balance,
			"last_updated":   balance.LastUpdated,
			"updated_at":     balance.UpdatedAt,
			"version":        gorm.Expr("version + 1"),
		}).Error
}

// Ensure GormBalanceRepository implements BalanceRepository
var _ finance.BalanceRepository = (*GormBalanceRepository)(nil)
