package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/pkg/config"
	"github.com/tradecove/catalog-backend/pkg/db/models"
	dbtypes "github.com/tradecove/catalog-backend/pkg/db/types"
	"github.com/tradecove/catalog-backend/pkg/enums"
)

// RankedSearchInput carries the store-level search parameters. The
// query embedding arrives already computed; limit/offset arrive
// normalized.
type RankedSearchInput struct {
	Embedding  dbtypes.Vector
	Query      string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Weights    config.Weights
	Limit      int
	Offset     int
}

// RankedRow is one scored product row from the fused ranking query.
type RankedRow struct {
	ID              uuid.UUID `gorm:"column:id"`
	Name            string    `gorm:"column:name"`
	Description     *string   `gorm:"column:description"`
	CategoryName    *string   `gorm:"column:category_name"`
	SupplierID      uuid.UUID `gorm:"column:supplier_id"`
	SupplierName    string    `gorm:"column:supplier_name"`
	TotalSales      int64     `gorm:"column:total_sales"`
	PopularityScore float64   `gorm:"column:popularity_score"`
	SemanticSim     float64   `gorm:"column:semantic_sim"`
	TextRank        float64   `gorm:"column:text_rank"`
	FinalScore      float64   `gorm:"column:final_score"`
}

// Price bounds match existentially: a product is in range when at least
// one of its active variants satisfies the bound. Ties in the fused
// score break on total_sales, then id, keeping pagination stable.
const rankedSearchQuery = `
WITH q AS (SELECT ?::vector AS q_emb)
SELECT
    p.id,
    p.name,
    p.description,
    c.name AS category_name,
    s.id AS supplier_id,
    s.name AS supplier_name,
    COALESCE(pm.total_sales, 0) AS total_sales,
    COALESCE(pm.popularity_score, 0) AS popularity_score,
    (1 - (p.embedding <=> q.q_emb)) AS semantic_sim,
    ts_rank_cd(p.search_vector, plainto_tsquery(?)) AS text_rank,
    (
      ? * (1 - (p.embedding <=> q.q_emb)) +
      ? * ts_rank_cd(p.search_vector, plainto_tsquery(?)) +
      ? * COALESCE(pm.popularity_score, 0)
    ) AS final_score
FROM products p
JOIN suppliers s ON p.supplier_id = s.id
LEFT JOIN categories c ON p.category_id = c.id
LEFT JOIN product_metrics pm ON p.id = pm.product_id, q
WHERE p.status = 'active'
  AND (?::uuid IS NULL OR p.category_id = ?)
  AND (?::uuid IS NULL OR p.supplier_id = ?)
  AND (?::decimal IS NULL OR EXISTS (
    SELECT 1 FROM product_variants pv
    WHERE pv.product_id = p.id AND pv.status = 'active' AND pv.price >= ?
  ))
  AND (?::decimal IS NULL OR EXISTS (
    SELECT 1 FROM product_variants pv
    WHERE pv.product_id = p.id AND pv.status = 'active' AND pv.price <= ?
  ))
ORDER BY final_score DESC, total_sales DESC, p.id ASC
LIMIT ? OFFSET ?
`

// Repository handles product persistence and the ranked search query.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RankedSearch runs the fused semantic/lexical/popularity ranking over
// active products.
func (r *Repository) RankedSearch(ctx context.Context, input RankedSearchInput) ([]RankedRow, error) {
	embedding, err := input.Embedding.Value()
	if err != nil {
		return nil, err
	}

	var rows []RankedRow
	err = r.db.WithContext(ctx).Raw(
		rankedSearchQuery,
		embedding,
		input.Query,
		input.Weights.Semantic,
		input.Weights.Lexical,
		input.Query,
		input.Weights.Popularity,
		input.CategoryID, input.CategoryID,
		input.SupplierID, input.SupplierID,
		input.PriceMin, input.PriceMin,
		input.PriceMax, input.PriceMax,
		input.Limit,
		input.Offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindDetail loads a product with supplier, category, variants, and
// metrics attached.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Category").
		Preload("Variants").
		Preload("Metrics").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariants returns a product's variants, optionally restricted to
// one status.
func (r *Repository) FindVariants(ctx context.Context, productID uuid.UUID, status *enums.VariantStatus) ([]models.ProductVariant, error) {
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var variants []models.ProductVariant
	if err := query.Order("sku ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindSupplierByID loads the referenced supplier row.
func (r *Repository) FindSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindCategoryByID loads the referenced category row.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateSearchVector overwrites the product's lexical payload.
func (r *Repository) UpdateSearchVector(ctx context.Context, productID uuid.UUID, searchVector string) error {
	return r.db.WithContext(ctx).
		Exec("UPDATE products SET search_vector = to_tsvector('english', ?), updated_at = now() WHERE id = ?", searchVector, productID).
		Error
}

// UpdateEmbedding overwrites the product's semantic embedding.
func (r *Repository) UpdateEmbedding(ctx context.Context, productID uuid.UUID, embedding dbtypes.Vector) error {
	value, err := embedding.Value()
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Exec("UPDATE products SET embedding = ?::vector, updated_at = now() WHERE id = ?", value, productID).
		Error
}
