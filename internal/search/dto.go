package search

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradecove/catalog-backend/pkg/db/models"
	dbtypes "github.com/tradecove/catalog-backend/pkg/db/types"
	"github.com/tradecove/catalog-backend/pkg/enums"
)

// SearchInput is the validated request shape for a ranked search.
type SearchInput struct {
	Query      string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Attributes map[string]any
	Limit      int
	Offset     int
}

// SupplierRef is the supplier snapshot attached to a scored product.
type SupplierRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// VariantDTO is one buyable configuration attached to a result.
type VariantDTO struct {
	ID         uuid.UUID        `json:"id"`
	SKU        string           `json:"sku"`
	Name       *string          `json:"name"`
	Price      *decimal.Decimal `json:"price"`
	Inventory  int              `json:"inventory"`
	Attributes dbtypes.JSONMap  `json:"attributes"`
}

// MetricsSnapshot is the popularity snapshot attached to a result.
type MetricsSnapshot struct {
	TotalSales      int64   `json:"total_sales"`
	PopularityScore float64 `json:"popularity_score"`
}

// ScoreBreakdown exposes the fused score alongside its components.
type ScoreBreakdown struct {
	Semantic   float64 `json:"semantic"`
	Lexical    float64 `json:"lexical"`
	Popularity float64 `json:"popularity"`
	Final      float64 `json:"final"`
}

// ScoredProduct is one shaped search hit.
type ScoredProduct struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Supplier    SupplierRef     `json:"supplier"`
	Variants    []VariantDTO    `json:"variants"`
	Metrics     MetricsSnapshot `json:"metrics"`
	Score       ScoreBreakdown  `json:"score"`
}

// SearchResult is the full shaped response for one search call. This is
// the unit cached under the derived search key.
type SearchResult struct {
	Query   string          `json:"query"`
	Results []ScoredProduct `json:"results"`
	Count   int             `json:"count"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ProductDetail is the shaped single-product lookup response.
type ProductDetail struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Brand       *string             `json:"brand"`
	BasePrice   *decimal.Decimal    `json:"base_price"`
	Status      enums.ProductStatus `json:"status"`
	Attributes  dbtypes.JSONMap     `json:"attributes"`
	Category    *string             `json:"category"`
	Supplier    SupplierRef         `json:"supplier"`
	Variants    []VariantDTO        `json:"variants"`
	Metrics     MetricsSnapshot     `json:"metrics"`
}

// NewVariantDTO maps a variant row into its response shape.
func NewVariantDTO(variant models.ProductVariant) VariantDTO {
	return VariantDTO{
		ID:         variant.ID,
		SKU:        variant.SKU,
		Name:       variant.Name,
		Price:      variant.Price,
		Inventory:  variant.InventoryCount,
		Attributes: variant.Attributes,
	}
}

// NewVariantDTOs maps variant rows, keeping input order.
func NewVariantDTOs(variants []models.ProductVariant) []VariantDTO {
	out := make([]VariantDTO, 0, len(variants))
	for _, variant := range variants {
		out = append(out, NewVariantDTO(variant))
	}
	return out
}

// NewProductDetail shapes a fully loaded product row. Only active
// variants are exposed.
func NewProductDetail(product *models.Product) *ProductDetail {
	detail := &ProductDetail{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		BasePrice:   product.BasePrice,
		Status:      product.Status,
		Attributes:  product.Attributes,
	}
	if product.Category != nil {
		name := product.Category.Name
		detail.Category = &name
	}
	if product.Supplier != nil {
		detail.Supplier = SupplierRef{ID: product.Supplier.ID, Name: product.Supplier.Name}
	} else {
		detail.Supplier = SupplierRef{ID: product.SupplierID}
	}
	active := make([]models.ProductVariant, 0, len(product.Variants))
	for _, variant := range product.Variants {
		if variant.Status == enums.VariantStatusActive {
			active = append(active, variant)
		}
	}
	detail.Variants = NewVariantDTOs(active)
	if product.Metrics != nil {
		detail.Metrics = MetricsSnapshot{
			TotalSales:      product.Metrics.TotalSales,
			PopularityScore: product.Metrics.PopularityScore,
		}
	}
	return detail
}
