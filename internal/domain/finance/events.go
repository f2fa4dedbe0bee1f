package finance

import (
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Payment
const AggregateTypePayment = "Payment"

// EventTypePaymentRecorded is published after a payment is persisted
const EventTypePaymentRecorded = "PaymentRecorded"

// PaymentRecordedEvent is raised when a payment or withdrawal is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	InvoiceID  *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID, p.CompanyID),
		PaymentID:       p.ID,
		CustomerID:      p.CustomerID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
		Method:          p.Method.String(),
	}
}
