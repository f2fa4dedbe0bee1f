package finance

import (
	"strings"
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how money changed hands
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is a free-standing cash movement for a customer.
// A negative Amount is a withdrawal or refund of customer credit.
type Payment struct {
	shared.CompanyAggregateRoot
	CustomerID  uuid.UUID
	InvoiceID   *uuid.UUID
	Amount      decimal.Decimal
	Method      PaymentMethod
	PaymentDate time.Time
	Notes       string
}

// NewPayment creates a payment. A zero paymentDate means now.
func NewPayment(companyID, customerID uuid.UUID, amount decimal.Decimal, method PaymentMethod, paymentDate time.Time, createdBy uuid.UUID) (*Payment, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("Company ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if amount.IsZero() {
		return nil, shared.NewValidationError("Payment amount cannot be zero")
	}
	if method == "" {
		method = PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("Unknown payment method: " + method.String())
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment := &Payment{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		CustomerID:           customerID,
		Amount:               amount,
		Method:               method,
		PaymentDate:          paymentDate,
	}
	return payment, nil
}

// LinkInvoice attaches the payment to an invoice of the same customer
func (p *Payment) LinkInvoice(invoiceID uuid.UUID) {
	p.InvoiceID = &invoiceID
}

// SetNotes sets the free-form notes
func (p *Payment) SetNotes(notes string) {
	p.Notes = strings.TrimSpace(notes)
}

// IsWithdrawal reports whether the payment gives money back to the customer
func (p *Payment) IsWithdrawal() bool {
	return p.Amount.IsNegative()
}

// Record finalizes the payment and emits PaymentRecorded
func (p *Payment) Record() {
	p.AddDomainEvent(NewPaymentRecordedEvent(p))
}
