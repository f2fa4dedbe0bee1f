package identity

import (
	"context"
	"regexp"
	"strings"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeCompany is the aggregate type name for companies
const AggregateTypeCompany = "Company"

var companyCodeRegex = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// Company is the tenant that owns every business record.
// Code is globally unique and appears in return numbers.
type Company struct {
	shared.BaseAggregateRoot
	Name   string
	Code   string
	Phone  string
	Active bool
}

// NewCompany creates a new active company
func NewCompany(name, code string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Company name cannot be empty")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateCompanyCode(code); err != nil {
		return nil, err
	}

	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Active:            true,
	}, nil
}

// SetPhone sets the company contact phone
func (c *Company) SetPhone(phone string) {
	c.Phone = strings.TrimSpace(phone)
	c.Touch()
}

// Deactivate suspends the company; its balances are skipped by the sweeper
func (c *Company) Deactivate() {
	c.Active = false
	c.Touch()
	c.IncrementVersion()
}

// Activate re-enables the company
func (c *Company) Activate() {
	c.Active = true
	c.Touch()
	c.IncrementVersion()
}

func validateCompanyCode(code string) error {
	if code == "" {
		return shared.NewValidationError("Company code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewValidationError("Company code cannot exceed 20 characters")
	}
	if !companyCodeRegex.MatchString(code) {
		return shared.NewValidationError("Company code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByCode(ctx context.Context, code string) (*Company, error)
	FindActive(ctx context.Context) ([]Company, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, company *Company) error
}
