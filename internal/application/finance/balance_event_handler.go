package finance

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BalanceEventHandler recomputes the affected customer's balance whenever an
// invoice is confirmed, a return approved or a payment recorded
type BalanceEventHandler struct {
	reconciler *BalanceReconciler
	logger     *zap.Logger
}

// NewBalanceEventHandler creates a new BalanceEventHandler
func NewBalanceEventHandler(reconciler *BalanceReconciler, logger *zap.Logger) *BalanceEventHandler {
	return &BalanceEventHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *BalanceEventHandler) EventTypes() []string {
	return []string{
		trade.EventTypeInvoiceConfirmed,
		trade.EventTypeReturnApproved,
		finance.EventTypePaymentRecorded,
	}
}

// Handle recomputes the balance. Failures are logged and swallowed: the
// triggering operation has already committed and the sweeper repairs drift.
func (h *BalanceEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	customerID, ok := customerOf(event)
	if !ok {
		h.logger.Warn("unexpected event type",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return nil
	}

	if _, err := h.reconciler.Recompute(ctx, event.CompanyID(), customerID); err != nil {
		h.logger.Error("failed to recompute customer balance",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("company_id", event.CompanyID().String()),
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
	}
	return nil
}

func customerOf(event shared.DomainEvent) (uuid.UUID, bool) {
	switch e := event.(type) {
	case *trade.InvoiceConfirmedEvent:
		return e.CustomerID, true
	case *trade.ReturnApprovedEvent:
		return e.CustomerID, true
	case *finance.PaymentRecordedEvent:
		return e.CustomerID, true
	default:
		return uuid.Nil, false
	}
}

var _ shared.EventHandler = (*BalanceEventHandler)(nil)
