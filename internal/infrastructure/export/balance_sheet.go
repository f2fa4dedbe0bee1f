// Package export renders report data as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/SamerElhamdo/stockly/internal/application/finance"
	"github.com/xuri/excelize/v2"
)

// BalanceSheetName is the worksheet holding the balances
const BalanceSheetName = "Balances"

// ContentTypeXLSX is the MIME type of the produced workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var balanceHeaders = []string{
	"Customer", "Customer ID", "Total Invoiced", "Total Paid", "Total Returns", "Balance", "Last Updated",
}

// XLSXBalanceSheetWriter writes customer balances as an XLSX workbook
type XLSXBalanceSheetWriter struct{}

// NewXLSXBalanceSheetWriter creates a new XLSXBalanceSheetWriter
func NewXLSXBalanceSheetWriter() *XLSXBalanceSheetWriter {
	return &XLSXBalanceSheetWriter{}
}

// WriteBalances writes one row per balance under a title and header row.
// Amounts are written as numbers so the sheet can be summed.
func (x *XLSXBalanceSheetWriter) WriteBalances(w io.Writer, companyName string, rows []finance.BalanceResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", BalanceSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetCellValue(BalanceSheetName, "A1", companyName+" customer balances"); err != nil {
		return err
	}
	if err := f.SetSheetRow(BalanceSheetName, "A2", &balanceHeaders); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(BalanceSheetName, "A1", "G2", headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		values := []any{
			row.CustomerName,
			row.CustomerID.String(),
			row.TotalInvoiced.InexactFloat64(),
			row.TotalPaid.InexactFloat64(),
			row.TotalReturns.InexactFloat64(),
			row.Balance.InexactFloat64(),
			row.LastUpdated.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(BalanceSheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write balance row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(BalanceSheetName, "A", "B", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(BalanceSheetName, "C", "G", 18); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

var _ finance.BalanceSheetWriter = (*XLSXBalanceSheetWriter)(nil)
