package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradecove/catalog-backend/pkg/db/models"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CategoryNode is a category with its resolved children, forming the
// hierarchy tree returned by the tree endpoint.
type CategoryNode struct {
	CategoryDTO
	Children []CategoryNode `json:"children"`
}

// NewCategoryDTO maps the model into its client payload.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		ParentID:  category.ParentID,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}
