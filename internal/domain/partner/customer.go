package partner

import (
	"net/mail"
	"strings"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// EventTypeCustomerCreated is published when a customer is registered
const EventTypeCustomerCreated = "CustomerCreated"

// Customer represents a buyer within a company.
// NameKey is the folded name used for find-or-create lookups.
type Customer struct {
	shared.CompanyAggregateRoot
	Name    string
	NameKey string
	Phone   string
	Email   string
	Address string
}

// NewCustomer creates a new customer with a normalized name
func NewCustomer(companyID uuid.UUID, name string) (*Customer, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("Company ID cannot be empty")
	}
	name = NormalizeName(name)
	if name == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Customer name cannot exceed 200 characters")
	}

	customer := &Customer{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		NameKey:              NameKey(name),
	}
	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))
	return customer, nil
}

// SetContact sets phone, email and address. The phone is stored in E.164
// when it parses for region; otherwise it is kept as entered.
func (c *Customer) SetContact(phone, email, address, region string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("Invalid email address")
		}
	}
	c.Phone = NormalizePhone(phone, region)
	c.Email = email
	c.Address = strings.TrimSpace(address)
	c.Touch()
	return nil
}

// NormalizeName applies NFC and collapses internal whitespace
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// NameKey returns the case-folded lookup key of a name
func NameKey(name string) string {
	return cases.Fold().String(NormalizeName(name))
}

// NormalizePhone formats phone as E.164 when valid for region
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	num, err := libphonenumber.Parse(phone, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return phone
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.CompanyID),
		CustomerID:      c.ID,
		Name:            c.Name,
	}
}
