package finance

import (
	"context"
	"time"

	appevent "github.com/SamerElhamdo/stockly/internal/application/event"
	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService records customer payments and withdrawals
type PaymentService struct {
	paymentRepo    finance.PaymentRepository
	customerRepo   partner.CustomerRepository
	invoiceRepo    trade.InvoiceRepository
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo finance.PaymentRepository,
	customerRepo partner.CustomerRepository,
	invoiceRepo trade.InvoiceRepository,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a payment. Amounts are not checked against invoice totals.
func (s *PaymentService) Create(ctx context.Context, companyID, actorID uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	var paymentDate time.Time
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	payment, err := finance.NewPayment(companyID, req.CustomerID, req.Amount, finance.PaymentMethod(req.Method), paymentDate, actorID)
	if err != nil {
		return nil, err
	}
	payment.SetNotes(req.Notes)

	if _, err := s.customerRepo.FindByIDForCompany(ctx, companyID, req.CustomerID); err != nil {
		return nil, err
	}
	if req.InvoiceID != nil {
		invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		if invoice.CustomerID != req.CustomerID {
			return nil, shared.NewValidationError("Invoice does not belong to the customer")
		}
		payment.LinkInvoice(invoice.ID)
	}

	payment.Record()
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// ListByCustomer lists a customer's payments, newest first
func (s *PaymentService) ListByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter ListFilter) ([]PaymentResponse, int64, error) {
	if _, err := s.customerRepo.FindByIDForCompany(ctx, companyID, customerID); err != nil {
		return nil, 0, err
	}
	payments, total, err := s.paymentRepo.FindByCustomer(ctx, companyID, customerID, toFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, total, nil
}

// InvoicePaymentSummary returns the payments linked to an invoice and what remains
func (s *PaymentService) InvoicePaymentSummary(ctx context.Context, companyID, invoiceID uuid.UUID) (*InvoicePaymentSummary, error) {
	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindByInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		paid = paid.Add(payments[i].Amount)
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return &InvoicePaymentSummary{
		InvoiceID:   invoice.ID,
		TotalAmount: invoice.TotalAmount,
		TotalPaid:   paid,
		Remaining:   invoice.TotalAmount.Sub(paid),
		Payments:    responses,
	}, nil
}

func toFilter(f ListFilter) shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = ""
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	if f.Owing {
		filter.Filters["owing"] = true
	}
	return filter
}
