package supplier

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradecove/catalog-backend/pkg/db/models"
)

// SupplierDTO is the supplier payload returned to clients.
type SupplierDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	ContactEmail string    `json:"contact_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSupplierDTO maps the model into its client payload.
func NewSupplierDTO(supplier *models.Supplier) *SupplierDTO {
	if supplier == nil {
		return nil
	}
	return &SupplierDTO{
		ID:           supplier.ID,
		Name:         supplier.Name,
		Description:  supplier.Description,
		ContactEmail: supplier.ContactEmail,
		Status:       supplier.Status.String(),
		CreatedAt:    supplier.CreatedAt,
		UpdatedAt:    supplier.UpdatedAt,
	}
}
