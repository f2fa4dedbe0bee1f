// Package notification turns committed business events into outbound
// messages and delivers them asynchronously.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message kinds
const (
	KindInvoiceConfirmed = "invoice.confirmed"
	KindReturnApproved   = "return.approved"
	KindReturnRejected   = "return.rejected"
	KindPaymentRecorded  = "payment.recorded"
)

// Message is one outbound notification
type Message struct {
	ID         uuid.UUID      `json:"id"`
	Kind       string         `json:"kind"`
	CompanyID  uuid.UUID      `json:"company_id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	Subject    string         `json:"subject"`
	Data       map[string]any `json:"data"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Notifier delivers a message to the outside world
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
