package notification

import (
	"context"
	"testing"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type sliceQueue struct {
	messages []Message
	err      error
}

func (q *sliceQueue) Enqueue(msg Message) error {
	if q.err != nil {
		return q.err
	}
	q.messages = append(q.messages, msg)
	return nil
}

func TestBuildMessage(t *testing.T) {
	companyID := uuid.New()
	customerID := uuid.New()
	invoiceID := uuid.New()

	confirmed := &trade.InvoiceConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeInvoiceConfirmed, trade.AggregateTypeInvoice, invoiceID, companyID),
		InvoiceID:       invoiceID,
		CustomerID:      customerID,
		TotalAmount:     decimal.RequireFromString("125.50"),
		Items:           []trade.InvoiceItemInfo{{}, {}},
	}
	approved := &trade.ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeReturnApproved, trade.AggregateTypeReturn, uuid.New(), companyID),
		ReturnNumber:    "RET-ACME-0001",
		CustomerID:      customerID,
		TotalAmount:     decimal.NewFromInt(20),
	}
	rejected := &trade.ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeReturnRejected, trade.AggregateTypeReturn, uuid.New(), companyID),
		ReturnNumber:    "RET-ACME-0002",
		CustomerID:      customerID,
		Reason:          "damaged by customer",
	}
	withdrawal := &finance.PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypePaymentRecorded, finance.AggregateTypePayment, uuid.New(), companyID),
		CustomerID:      customerID,
		InvoiceID:       &invoiceID,
		Amount:          decimal.NewFromInt(-30),
		Method:          "cash",
	}

	tests := []struct {
		name    string
		event   shared.DomainEvent
		kind    string
		subject string
	}{
		{"invoice confirmed", confirmed, KindInvoiceConfirmed, "Invoice confirmed"},
		{"return approved", approved, KindReturnApproved, "Return RET-ACME-0001 approved"},
		{"return rejected", rejected, KindReturnRejected, "Return RET-ACME-0002 rejected"},
		{"withdrawal", withdrawal, KindPaymentRecorded, "Withdrawal recorded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := BuildMessage(tt.event)
			require.True(t, ok)
			assert.Equal(t, tt.kind, msg.Kind)
			assert.Equal(t, tt.subject, msg.Subject)
			assert.Equal(t, tt.event.EventID(), msg.ID)
			assert.Equal(t, companyID, msg.CompanyID)
			assert.Equal(t, customerID, msg.CustomerID)
		})
	}

	msg, _ := BuildMessage(confirmed)
	assert.Equal(t, "125.5", msg.Data["total_amount"])
	assert.Equal(t, 2, msg.Data["item_count"])

	msg, _ = BuildMessage(withdrawal)
	assert.Equal(t, invoiceID, msg.Data["invoice_id"])
}

func TestBuildMessage_UnsupportedEvent(t *testing.T) {
	event := &trade.InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeInvoiceCreated, trade.AggregateTypeInvoice, uuid.New(), uuid.New()),
	}
	_, ok := BuildMessage(event)
	assert.False(t, ok)
}

func TestNotificationHandler_Handle(t *testing.T) {
	queue := &sliceQueue{}
	handler := NewNotificationHandler(queue, zap.NewNop())

	event := &finance.PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypePaymentRecorded, finance.AggregateTypePayment, uuid.New(), uuid.New()),
		Amount:          decimal.NewFromInt(50),
	}
	require.NoError(t, handler.Handle(context.Background(), event))

	require.Len(t, queue.messages, 1)
	assert.Equal(t, "Payment recorded", queue.messages[0].Subject)
	assert.ElementsMatch(t, []string{
		trade.EventTypeInvoiceConfirmed,
		trade.EventTypeReturnApproved,
		trade.EventTypeReturnRejected,
		finance.EventTypePaymentRecorded,
	}, handler.EventTypes())
}

func TestNotificationHandler_FullQueueIsNotAnError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	handler := NewNotificationHandler(&sliceQueue{err: ErrQueueFull}, zap.New(core))

	event := &finance.PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypePaymentRecorded, finance.AggregateTypePayment, uuid.New(), uuid.New()),
		Amount:          decimal.NewFromInt(50),
	}

	require.NoError(t, handler.Handle(context.Background(), event))
	entries := logs.FilterMessage("Notification dropped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}
