package finance

import (
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records a payment; a negative amount is a withdrawal
type CreatePaymentRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	InvoiceID   *uuid.UUID      `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer card check other"`
	PaymentDate *time.Time      `json:"payment_date"`
	Notes       string          `json:"notes" binding:"max=2000"`
}

// PaymentResponse is one payment
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	InvoiceID   *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"payment_method"`
	PaymentDate time.Time       `json:"payment_date"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain Payment to its response DTO
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		CustomerID:  p.CustomerID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		Method:      p.Method.String(),
		PaymentDate: p.PaymentDate,
		Notes:       p.Notes,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

// InvoicePaymentSummary is what has been paid against one invoice
type InvoicePaymentSummary struct {
	InvoiceID   uuid.UUID         `json:"invoice_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	TotalPaid   decimal.Decimal   `json:"total_paid"`
	Remaining   decimal.Decimal   `json:"remaining"`
	Payments    []PaymentResponse `json:"payments"`
}

// BalanceResponse is a customer's derived money position
type BalanceResponse struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalReturns  decimal.Decimal `json:"total_returns"`
	Balance       decimal.Decimal `json:"balance"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// ToBalanceResponse converts a domain CustomerBalance to its response DTO
func ToBalanceResponse(b *finance.CustomerBalance) BalanceResponse {
	return BalanceResponse{
		CustomerID:    b.CustomerID,
		TotalInvoiced: b.TotalInvoiced,
		TotalPaid:     b.TotalPaid,
		TotalReturns:  b.TotalReturns,
		Balance:       b.Balance,
		LastUpdated:   b.LastUpdated,
	}
}

// ListFilter is the shared paging query of finance listings
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Owing    bool   `form:"owing"`
}
