package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_FindByIDsForUpdate_LocksInOrder(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormProductRepository(mdb.DB)
	companyID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mdb.Mock.ExpectQuery(`SELECT \* FROM "products" WHERE company_id = \$1 AND id IN \(\$2,\$3\) ORDER BY id ASC FOR UPDATE`).
		WithArgs(companyID, ids[0], ids[1]).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "sku", "price", "stock_qty"}))

	products, err := repo.FindByIDsForUpdate(context.Background(), companyID, ids)
	require.NoError(t, err)
	assert.Empty(t, products)
	mdb.ExpectationsWereMet(t)
}

func TestProductRepository_FindByIDsForUpdate_NoIDs(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormProductRepository(mdb.DB)

	products, err := repo.FindByIDsForUpdate(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	mdb.ExpectationsWereMet(t)
}

func TestInvoiceRepository_FindByIDForUpdate_NotFound(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormInvoiceRepository(mdb.DB)
	companyID, id := uuid.New(), uuid.New()

	mdb.Mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE company_id = \$1 AND id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(companyID, id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByIDForUpdate(context.Background(), companyID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	mdb.ExpectationsWereMet(t)
}

func TestBalanceRepository_Save_BumpsVersion(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormBalanceRepository(mdb.DB)
	balance := finance.NewCustomerBalance(uuid.New(), uuid.New())
	balance.Apply(finance.BalanceTotals{Invoiced: decimal.NewFromInt(5), Paid: decimal.Zero, Returns: decimal.Zero})

	mdb.Mock.ExpectExec(`UPDATE "customer_balances" SET .*"version"=version \+ 1 WHERE company_id = \$\d+ AND customer_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), balance))
	mdb.ExpectationsWereMet(t)
}

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE products;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "price", ValidateSortField("price", productSortFields, "name"))
	assert.Equal(t, "name", ValidateSortField("password", productSortFields, "name"))
	assert.Equal(t, "balance", ValidateSortField("", balanceSortFields, "balance"))
	assert.Equal(t, "last_updated", ValidateSortField(" last_updated ", balanceSortFields, "balance"))
}
