package models

import (
	"github.com/SamerElhamdo/stockly/internal/domain/identity"
)

// CompanyModel is the persistence model for the Company domain entity.
type CompanyModel struct {
	AggregateModel
	Name   string `gorm:"type:varchar(200);not null"`
	Code   string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Phone  string `gorm:"type:varchar(32)"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company entity.
func (m *CompanyModel) ToDomain() *identity.Company {
	return &identity.Company{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Code:              m.Code,
		Phone:             m.Phone,
		Active:            m.Active,
	}
}

// CompanyModelFromDomain creates a new persistence model from a domain Company entity.
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{
		Name:   c.Name,
		Code:   c.Code,
		Phone:  c.Phone,
		Active: c.Active,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
