package main

import (
	"fmt"

	financeapp "github.com/SamerElhamdo/stockly/internal/application/finance"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Inspect and repair customer balances",
}

var balancesRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild customer balances from invoices, payments and returns",
	Long: `Rebuild customer balances from the confirmed invoices, payments and
approved returns recorded for them. With --customer only that customer is
rebuilt; otherwise every customer of the company is.`,
	Example: `  stocklyctl balances recompute --company 5f0c...
  stocklyctl balances recompute --company 5f0c... --customer 9a1e...`,
	RunE: runBalancesRecompute,
}

func init() {
	balancesRecomputeCmd.Flags().String("company", "", "Company ID")
	balancesRecomputeCmd.Flags().String("customer", "", "Customer ID (optional)")
	_ = balancesRecomputeCmd.MarkFlagRequired("company")

	balancesCmd.AddCommand(balancesRecomputeCmd)
	rootCmd.AddCommand(balancesCmd)
}

func runBalancesRecompute(cmd *cobra.Command, _ []string) error {
	companyID, err := uuidFlag(cmd, "company")
	if err != nil {
		return err
	}
	customerRaw, _ := cmd.Flags().GetString("customer")

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	reconciler := financeapp.NewBalanceReconciler(
		persistence.NewGormFinanceTransactionScope(db.DB),
		persistence.NewGormCustomerRepository(db.DB),
		companyRepo,
		state.log.Named("reconciler"),
	)

	ctx := cmd.Context()
	if _, err := companyRepo.FindByID(ctx, companyID); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if customerRaw != "" {
		customerID, err := uuid.Parse(customerRaw)
		if err != nil {
			return fmt.Errorf("invalid --customer: %w", err)
		}
		balance, err := reconciler.Recompute(ctx, companyID, customerID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "customer %s: invoiced=%s paid=%s returns=%s balance=%s\n",
			customerID, balance.TotalInvoiced.StringFixed(2), balance.TotalPaid.StringFixed(2),
			balance.TotalReturns.StringFixed(2), balance.Balance.StringFixed(2))
		return nil
	}

	n, err := reconciler.RecomputeCompany(ctx, companyID)
	if err != nil {
		return err
	}
	state.log.Info("Balances recomputed", zap.String("company_id", companyID.String()), zap.Int("balances", n))
	fmt.Fprintf(out, "recomputed %d balances\n", n)
	return nil
}

func uuidFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return id, nil
}
