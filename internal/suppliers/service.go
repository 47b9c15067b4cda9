package supplier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/pkg/db/models"
	"github.com/tradecove/catalog-backend/pkg/enums"
	pkgerrors "github.com/tradecove/catalog-backend/pkg/errors"
	"github.com/tradecove/catalog-backend/pkg/pagination"
)

// Service exposes supplier management operations.
type Service interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	ListSuppliers(ctx context.Context, limit, offset int) ([]SupplierDTO, error)
}

// CreateSupplierInput holds the validated payload to create a supplier.
type CreateSupplierInput struct {
	Name         string
	Description  *string
	ContactEmail string
	Status       *enums.SupplierStatus
}

// UpdateSupplierInput holds optional mutation values for a supplier.
type UpdateSupplierInput struct {
	Name         *string
	Description  *string
	ContactEmail *string
	Status       *enums.SupplierStatus
}

type supplierStore interface {
	Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, page pagination.Page) ([]models.Supplier, error)
}

type entityCache interface {
	GetSupplier(ctx context.Context, id uuid.UUID, dest any) bool
	SetSupplier(ctx context.Context, id uuid.UUID, value any)
	InvalidateSupplier(ctx context.Context, id uuid.UUID)
}

type service struct {
	repo  supplierStore
	cache entityCache
}

// NewService constructs a supplier service instance.
func NewService(repo supplierStore, cache entityCache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache service required")
	}
	return &service{repo: repo, cache: cache}, nil
}

// CreateSupplier inserts a new supplier. A duplicate contact email
// surfaces as a conflict.
func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.ContactEmail)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact_email is required")
	}

	status := enums.SupplierStatusActive
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier status")
		}
		status = *input.Status
	}

	created, err := s.repo.Create(ctx, &models.Supplier{
		Name:         name,
		Description:  input.Description,
		ContactEmail: email,
		Status:       status,
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "supplier contact email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return NewSupplierDTO(created), nil
}

// GetSupplier loads a supplier, cache first.
func (s *service) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	var cached SupplierDTO
	if s.cache.GetSupplier(ctx, id, &cached) {
		return &cached, nil
	}

	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}

	dto := NewSupplierDTO(supplier)
	s.cache.SetSupplier(ctx, id, dto)
	return dto, nil
}

// UpdateSupplier applies the patch and drops the cached entry before
// returning, so the next read observes the new row.
func (s *service) UpdateSupplier(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}

	if err := applyUpdate(supplier, input); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, supplier)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "supplier contact email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}

	s.cache.InvalidateSupplier(ctx, id)
	return NewSupplierDTO(updated), nil
}

// DeleteSupplier removes the supplier and drops its cached entry.
func (s *service) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
	}

	s.cache.InvalidateSupplier(ctx, id)
	return nil
}

// ListSuppliers returns a page of suppliers ordered by name.
func (s *service) ListSuppliers(ctx context.Context, limit, offset int) ([]SupplierDTO, error) {
	page := pagination.Normalize(limit, offset)
	suppliers, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}

	dtos := make([]SupplierDTO, 0, len(suppliers))
	for i := range suppliers {
		dtos = append(dtos, *NewSupplierDTO(&suppliers[i]))
	}
	return dtos, nil
}

func applyUpdate(supplier *models.Supplier, input UpdateSupplierInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		supplier.Name = name
	}
	if input.Description != nil {
		supplier.Description = input.Description
	}
	if input.ContactEmail != nil {
		email := strings.TrimSpace(*input.ContactEmail)
		if email == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "contact_email cannot be empty")
		}
		supplier.ContactEmail = email
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier status")
		}
		supplier.Status = *input.Status
	}
	return nil
}
