package notify

import (
	"context"

	"github.com/SamerElhamdo/stockly/internal/application/notification"
	"go.uber.org/zap"
)

// LogNotifier writes messages to the log. Used when no transport is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

// Notify implements notification.Notifier
func (n *LogNotifier) Notify(_ context.Context, msg notification.Message) error {
	n.logger.Info("Notification",
		zap.String("kind", msg.Kind),
		zap.String("message_id", msg.ID.String()),
		zap.String("company_id", msg.CompanyID.String()),
		zap.String("customer_id", msg.CustomerID.String()),
		zap.String("subject", msg.Subject),
		zap.Any("data", msg.Data),
	)
	return nil
}

var _ notification.Notifier = (*LogNotifier)(nil)
