package catalog

import (
	"context"
	"errors"

	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a category, optionally under an existing parent
func (s *CategoryService) Create(ctx context.Context, companyID, actorID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	if req.ParentID != nil {
		if _, err := s.categoryRepo.FindByIDForCompany(ctx, companyID, *req.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("Parent category not found")
			}
			return nil, err
		}
	}

	category, err := catalog.NewCategory(companyID, req.Name, req.ParentID)
	if err != nil {
		return nil, err
	}
	if actorID != uuid.Nil {
		category.CreatedBy = &actorID
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// List returns all categories of a company
func (s *CategoryService) List(ctx context.Context, companyID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}
