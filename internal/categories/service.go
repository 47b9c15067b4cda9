package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/pkg/db/models"
	pkgerrors "github.com/tradecove/catalog-backend/pkg/errors"
)

// Service exposes category management and hierarchy operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	Tree(ctx context.Context) ([]CategoryNode, error)
	Path(ctx context.Context, id uuid.UUID) ([]CategoryDTO, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name     string
	ParentID *uuid.UUID
}

// UpdateCategoryInput holds optional mutation values for a category.
// ParentID uses a double pointer so the patch can distinguish "unset"
// from "move to root".
type UpdateCategoryInput struct {
	Name     *string
	ParentID **uuid.UUID
}

type categoryStore interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
}

type entityCache interface {
	GetCategory(ctx context.Context, id uuid.UUID, dest any) bool
	SetCategory(ctx context.Context, id uuid.UUID, value any)
	InvalidateCategory(ctx context.Context, id uuid.UUID)
}

type service struct {
	repo  categoryStore
	cache entityCache
}

// NewService constructs a category service instance.
func NewService(repo categoryStore, cache entityCache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache service required")
	}
	return &service{repo: repo, cache: cache}, nil
}

// CreateCategory inserts a new category, validating the referenced parent.
func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	if input.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load parent category")
		}
	}

	created, err := s.repo.Create(ctx, &models.Category{
		Name:     name,
		ParentID: input.ParentID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}

	dto := NewCategoryDTO(created)
	s.cache.SetCategory(ctx, created.ID, dto)
	return dto, nil
}

// GetCategory loads a category, cache first.
func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	var cached CategoryDTO
	if s.cache.GetCategory(ctx, id, &cached) {
		return &cached, nil
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	dto := NewCategoryDTO(category)
	s.cache.SetCategory(ctx, id, dto)
	return dto, nil
}

// UpdateCategory applies the patch and drops the cached entry before
// returning.
func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		category.Name = name
	}
	if input.ParentID != nil {
		newParent := *input.ParentID
		if newParent != nil {
			if *newParent == id {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
			}
			if _, err := s.repo.FindByID(ctx, *newParent); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent category does not exist")
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load parent category")
			}
		}
		category.ParentID = newParent
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}

	s.cache.InvalidateCategory(ctx, id)
	return NewCategoryDTO(updated), nil
}

// DeleteCategory removes the category and drops its cached entry.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}

	s.cache.InvalidateCategory(ctx, id)
	return nil
}

// ListCategories returns the flat list of all categories.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, *NewCategoryDTO(&categories[i]))
	}
	return dtos, nil
}

// Exists reports whether the category id references a stored row.
func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return true, nil
}
