package models

import (
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_customer_company_name,priority:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	Name      string     `gorm:"type:varchar(200);not null"`
	NameKey   string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_customer_company_name,priority:2"`
	Phone     string     `gorm:"type:varchar(32)"`
	Email     string     `gorm:"type:varchar(200)"`
	Address   string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		CompanyAggregateRoot: companyRoot(m.AggregateModel, m.CompanyID, m.CreatedBy),
		Name:                 m.Name,
		NameKey:              m.NameKey,
		Phone:                m.Phone,
		Email:                m.Email,
		Address:              m.Address,
	}
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		CompanyID: c.CompanyID,
		CreatedBy: c.CreatedBy,
		Name:      c.Name,
		NameKey:   c.NameKey,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
