package models

import (
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment domain entity.
type PaymentModel struct {
	AggregateModel
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_payment_company_customer,priority:1"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_payment_company_customer,priority:2"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'"`
	PaymentDate   time.Time       `gorm:"not null"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		CompanyAggregateRoot: companyRoot(m.AggregateModel, m.CompanyID, m.CreatedBy),
		CustomerID:           m.CustomerID,
		InvoiceID:            m.InvoiceID,
		Amount:               m.Amount,
		Method:               finance.PaymentMethod(m.PaymentMethod),
		PaymentDate:          m.PaymentDate,
		Notes:                m.Notes,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{
		CompanyID:     p.CompanyID,
		CreatedBy:     p.CreatedBy,
		CustomerID:    p.CustomerID,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		PaymentMethod: p.Method.String(),
		PaymentDate:   p.PaymentDate,
		Notes:         p.Notes,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// CustomerBalanceModel is the persistence model for the derived customer balance.
type CustomerBalanceModel struct {
	AggregateModel
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_company_customer,priority:1"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_company_customer,priority:2"`
	TotalInvoiced decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPaid     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalReturns  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastUpdated   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerBalanceModel) TableName() string {
	return "customer_balances"
}

// ToDomain converts the persistence model to a domain CustomerBalance.
func (m *CustomerBalanceModel) ToDomain() *finance.CustomerBalance {
	return &finance.CustomerBalance{
		CompanyAggregateRoot: companyRoot(m.AggregateModel, m.CompanyID, nil),
		CustomerID:           m.CustomerID,
		TotalInvoiced:        m.TotalInvoiced,
		TotalPaid:            m.TotalPaid,
		TotalReturns:         m.TotalReturns,
		Balance:              m.Balance,
		LastUpdated:          m.LastUpdated,
	}
}

// CustomerBalanceModelFromDomain creates a persistence model from a domain CustomerBalance.
func CustomerBalanceModelFromDomain(b *finance.CustomerBalance) *CustomerBalanceModel {
	m := &CustomerBalanceModel{
		CompanyID:     b.CompanyID,
		CustomerID:    b.CustomerID,
		TotalInvoiced: b.TotalInvoiced,
		TotalPaid:     b.TotalPaid,
		TotalReturns:  b.TotalReturns,
		Balance:       b.Balance,
		LastUpdated:   b.LastUpdated,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}
