package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/tradecove/catalog-backend/pkg/db/types"
	"github.com/tradecove/catalog-backend/pkg/enums"
)

// Product is the canonical catalog listing. SearchVector is maintained
// by a trigger; Embedding is written by the enrichment pipeline.
type Product struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID   uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null"`
	CategoryID   *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Name         string              `gorm:"column:name;not null"`
	Description  *string             `gorm:"column:description"`
	Brand        *string             `gorm:"column:brand"`
	BasePrice    *decimal.Decimal    `gorm:"column:base_price;type:numeric(12,2)"`
	Status       enums.ProductStatus `gorm:"column:status;type:product_status;not null;default:'draft'"`
	Attributes   dbtypes.JSONMap     `gorm:"column:attributes;type:jsonb;not null;default:'{}'"`
	SearchVector *string             `gorm:"column:search_vector;type:tsvector;->"`
	Embedding    dbtypes.Vector      `gorm:"column:embedding;type:vector(384)"`
	Supplier     *Supplier           `gorm:"foreignKey:SupplierID"`
	Category     *Category           `gorm:"foreignKey:CategoryID"`
	Variants     []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Metrics      *ProductMetrics     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
