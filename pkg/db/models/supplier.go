package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradecove/catalog-backend/pkg/enums"
)

// Supplier owns products in the catalog. Contact email is unique.
type Supplier struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string               `gorm:"column:name;not null"`
	Description  *string              `gorm:"column:description"`
	ContactEmail string               `gorm:"column:contact_email;not null;uniqueIndex"`
	Status       enums.SupplierStatus `gorm:"column:status;type:supplier_status;not null;default:'active'"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
