package finance

import (
	"context"
	"fmt"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/identity"
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BalanceReconciler derives customer balances from invoices, payments and
// returns. It is the only writer of CustomerBalance and never mutates its sources.
type BalanceReconciler struct {
	txScope      TransactionScope
	customerRepo partner.CustomerRepository
	companyRepo  identity.CompanyRepository
	logger       *zap.Logger
}

// NewBalanceReconciler creates a new BalanceReconciler
func NewBalanceReconciler(
	txScope TransactionScope,
	customerRepo partner.CustomerRepository,
	companyRepo identity.CompanyRepository,
	logger *zap.Logger,
) *BalanceReconciler {
	return &BalanceReconciler{
		txScope:      txScope,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		logger:       logger,
	}
}

// Recompute rebuilds one customer's balance from scratch under the balance
// row lock. Concurrent calls serialize on that row; repeated calls converge.
func (r *BalanceReconciler) Recompute(ctx context.Context, companyID, customerID uuid.UUID) (_ *finance.CustomerBalance, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "balance", "recompute",
		telemetry.AttrCompanyID.String(companyID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var result *finance.CustomerBalance

	err = r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.BalanceRepo().GetOrCreateForUpdate(ctx, companyID, customerID)
		if err != nil {
			return err
		}

		invoiced, err := repos.InvoiceRepo().SumConfirmedTotal(ctx, companyID, customerID)
		if err != nil {
			return fmt.Errorf("failed to sum invoices: %w", err)
		}
		paid, err := repos.PaymentRepo().SumByCustomer(ctx, companyID, customerID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}
		returns, err := repos.ReturnRepo().SumApprovedTotal(ctx, companyID, customerID)
		if err != nil {
			return fmt.Errorf("failed to sum returns: %w", err)
		}

		balance.Apply(finance.BalanceTotals{Invoiced: invoiced, Paid: paid, Returns: returns})
		if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
			return err
		}
		result = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("customer balance recomputed",
		zap.String("company_id", companyID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("balance", result.Balance.String()),
	)
	return result, nil
}

// RecomputeCompany recomputes every customer of a company and returns how
// many balances were rebuilt. It stops at the first failure.
func (r *BalanceReconciler) RecomputeCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	customerIDs, err := r.customerRepo.ListIDsForCompany(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list customers: %w", err)
	}
	for i, customerID := range customerIDs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := r.Recompute(ctx, companyID, customerID); err != nil {
			return i, fmt.Errorf("failed to recompute customer %s: %w", customerID, err)
		}
	}
	return len(customerIDs), nil
}

// RecomputeAll recomputes every balance of every active company. A failing
// company is logged and skipped so one bad tenant cannot stall the sweep.
func (r *BalanceReconciler) RecomputeAll(ctx context.Context) (int, error) {
	companies, err := r.companyRepo.FindActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list companies: %w", err)
	}
	total := 0
	for _, company := range companies {
		n, err := r.RecomputeCompany(ctx, company.ID)
		total += n
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			r.logger.Error("balance sweep failed for company",
				zap.String("company_id", company.ID.String()),
				zap.Error(err),
			)
		}
	}
	return total, nil
}
