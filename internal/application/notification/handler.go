package notification

import (
	"context"
	"errors"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Enqueuer accepts messages for asynchronous delivery
type Enqueuer interface {
	Enqueue(msg Message) error
}

// NotificationHandler maps committed business events to messages
type NotificationHandler struct {
	queue  Enqueuer
	logger *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(queue Enqueuer, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{queue: queue, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *NotificationHandler) EventTypes() []string {
	return []string{
		trade.EventTypeInvoiceConfirmed,
		trade.EventTypeReturnApproved,
		trade.EventTypeReturnRejected,
		finance.EventTypePaymentRecorded,
	}
}

// Handle builds the message for event and enqueues it. A full queue drops
// the message with a warning; notifications never fail the publisher.
func (h *NotificationHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	msg, ok := BuildMessage(event)
	if !ok {
		return nil
	}

	if err := h.queue.Enqueue(msg); err != nil {
		level := h.logger.Warn
		if !errors.Is(err, ErrQueueFull) {
			level = h.logger.Error
		}
		level("Notification dropped",
			zap.String("kind", msg.Kind),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
	return nil
}

// BuildMessage converts a supported event to a Message
func BuildMessage(event shared.DomainEvent) (Message, bool) {
	msg := Message{
		ID:         event.EventID(),
		CompanyID:  event.CompanyID(),
		OccurredAt: event.OccurredAt(),
	}

	switch e := event.(type) {
	case *trade.InvoiceConfirmedEvent:
		msg.Kind = KindInvoiceConfirmed
		msg.CustomerID = e.CustomerID
		msg.Subject = "Invoice confirmed"
		msg.Data = map[string]any{
			"invoice_id":   e.InvoiceID,
			"total_amount": e.TotalAmount.String(),
			"item_count":   len(e.Items),
		}
	case *trade.ReturnApprovedEvent:
		msg.Kind = KindReturnApproved
		msg.CustomerID = e.CustomerID
		msg.Subject = "Return " + e.ReturnNumber + " approved"
		msg.Data = map[string]any{
			"return_id":     e.ReturnID,
			"return_number": e.ReturnNumber,
			"invoice_id":    e.InvoiceID,
			"total_amount":  e.TotalAmount.String(),
		}
	case *trade.ReturnRejectedEvent:
		msg.Kind = KindReturnRejected
		msg.CustomerID = e.CustomerID
		msg.Subject = "Return " + e.ReturnNumber + " rejected"
		msg.Data = map[string]any{
			"return_id":     e.ReturnID,
			"return_number": e.ReturnNumber,
			"invoice_id":    e.InvoiceID,
			"reason":        e.Reason,
		}
	case *finance.PaymentRecordedEvent:
		msg.Kind = KindPaymentRecorded
		msg.CustomerID = e.CustomerID
		msg.Subject = "Payment recorded"
		if e.Amount.IsNegative() {
			msg.Subject = "Withdrawal recorded"
		}
		data := map[string]any{
			"payment_id": e.PaymentID,
			"amount":     e.Amount.String(),
			"method":     e.Method,
		}
		if e.InvoiceID != nil {
			data["invoice_id"] = *e.InvoiceID
		}
		msg.Data = data
	default:
		return Message{}, false
	}

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return msg, true
}

var _ shared.EventHandler = (*NotificationHandler)(nil)
