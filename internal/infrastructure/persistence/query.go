package persistence

import (
	"errors"
	"strings"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate is the row lock used by every *ForUpdate lookup.
// The SQLite dialect drops it, which is fine under a single connection.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// Allowed sort columns per listing
var (
	productSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "sku": true, "price": true, "stock_qty": true,
	}
	customerSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true,
	}
	invoiceSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "confirmed_at": true, "total_amount": true, "status": true,
	}
	returnSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "return_number": true, "total_amount": true, "status": true,
	}
	paymentSortFields = map[string]bool{
		"created_at": true, "payment_date": true, "amount": true,
	}
	balanceSortFields = map[string]bool{
		"last_updated": true, "balance": true, "total_invoiced": true,
	}
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowed[trimmed] {
		return trimmed
	}
	return defaultField
}

// paginate applies whitelisted ordering, offset and limit
func paginate(filter shared.Filter, allowed map[string]bool, defaultField string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := ValidateSortField(filter.OrderBy, allowed, defaultField)
		return db.
			Order(field + " " + ValidateSortOrder(filter.OrderDir)).
			Order("id ASC").
			Offset(filter.Offset()).
			Limit(filter.Limit())
	}
}

// searchLike matches a case-insensitive substring on the given columns
func searchLike(search string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(search) + "%"
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

// notFound maps gorm.ErrRecordNotFound to a NOT_FOUND domain error for resource
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}
