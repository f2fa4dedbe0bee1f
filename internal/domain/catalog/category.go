package catalog

import (
	"strings"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups products within a company
type Category struct {
	shared.CompanyAggregateRoot
	Name     string
	ParentID *uuid.UUID
}

// NewCategory creates a new category, optionally nested under parentID
func NewCategory(companyID uuid.UUID, name string, parentID *uuid.UUID) (*Category, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("Company ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("Category name cannot exceed 100 characters")
	}

	return &Category{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		ParentID:             parentID,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Category name cannot be empty")
	}
	c.Name = name
	c.Touch()
	c.IncrementVersion()
	return nil
}

// IsRoot reports whether the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
