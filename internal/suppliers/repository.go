package supplier

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/pkg/db/models"
	"github.com/tradecove/catalog-backend/pkg/pagination"
)

// Repository handles supplier persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the supplier and returns the stored row.
func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// Update persists the full supplier row.
func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete removes the supplier by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id).Error
}

// FindByID loads a supplier without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns suppliers ordered by name.
func (r *Repository) List(ctx context.Context, page pagination.Page) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}
