package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/tradecove/catalog-backend/pkg/db/types"
	"github.com/tradecove/catalog-backend/pkg/enums"
)

// ProductVariant is a purchasable SKU under a product. Price may be
// nil, in which case the product's base price applies.
type ProductVariant struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	SKU            string              `gorm:"column:sku;not null;uniqueIndex"`
	Name           *string             `gorm:"column:name"`
	Price          *decimal.Decimal    `gorm:"column:price;type:numeric(12,2)"`
	InventoryCount int                 `gorm:"column:inventory_count;not null;default:0"`
	Attributes     dbtypes.JSONMap     `gorm:"column:attributes;type:jsonb;not null;default:'{}'"`
	Status         enums.VariantStatus `gorm:"column:status;type:variant_status;not null;default:'active'"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
