package persistence

import (
	"context"
	"fmt"

	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReturnSequenceRepository hands out per-company return numbers
// from a locked counter row
type GormReturnSequenceRepository struct {
	db *gorm.DB
}

// NewGormReturnSequenceRepository creates a new GormReturnSequenceRepository
func NewGormReturnSequenceRepository(db *gorm.DB) *GormReturnSequenceRepository {
	return &GormReturnSequenceRepository{db: db}
}

// Next increments and returns the company's counter. The caller's
// transaction holds the row lock until commit.
func (r *GormReturnSequenceRepository) Next(ctx context.Context, companyID uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)

	seed := models.ReturnSequenceModel{CompanyID: companyID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, fmt.Errorf("failed to seed return sequence: %w", err)
	}

	var seq models.ReturnSequenceModel
	if err := db.Clauses(forUpdate).
		Where("company_id = ?", companyID).
		First(&seq).Error; err != nil {
		return 0, fmt.Errorf("failed to lock return sequence: %w", err)
	}

	seq.LastValue++
	if err := db.Model(&models.ReturnSequenceModel{}).
		Where("company_id = ?", companyID).
		Update("last_value", seq.LastValue).Error; err != nil {
		return 0, fmt.Errorf("failed to advance return sequence: %w", err)
	}
	return seq.LastValue, nil
}

// Ensure GormReturnSequenceRepository implements ReturnSequenceRepository
var _ trade.ReturnSequenceRepository = (*GormReturnSequenceRepository)(nil)
