package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/pkg/config"
	"github.com/tradecove/catalog-backend/pkg/db/models"
	dbtypes "github.com/tradecove/catalog-backend/pkg/db/types"
	"github.com/tradecove/catalog-backend/pkg/enums"
)

func defaultWeights() config.Weights {
	return config.Weights{Semantic: 0.5, Lexical: 0.3, Popularity: 0.2}
}

func testEmbedding(seed float64) dbtypes.Vector {
	v := make(dbtypes.Vector, 384)
	for i := range v {
		v[i] = seed
	}
	return v
}

func mustCreateSupplier(t *testing.T, tx *gorm.DB) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		ID:           uuid.New(),
		Name:         "Repo Supplier",
		ContactEmail: fmt.Sprintf("repo_%s@example.com", uuid.NewString()),
		Status:       enums.SupplierStatusActive,
	}
	if err := tx.Create(supplier).Error; err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	return supplier
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, supplierID uuid.UUID, name string, status enums.ProductStatus, popularity float64) *models.Product {
	t.Helper()
	prod := &models.Product{
		ID:         uuid.New(),
		SupplierID: supplierID,
		Name:       name,
		Status:     status,
		Attributes: dbtypes.JSONMap{},
		Embedding:  testEmbedding(0.1),
	}
	if err := tx.Create(prod).Error; err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	metrics := &models.ProductMetrics{
		ProductID:       prod.ID,
		TotalSales:      10,
		PopularityScore: popularity,
	}
	if err := tx.Create(metrics).Error; err != nil {
		t.Fatalf("create metrics: %v", err)
	}
	return prod
}

func mustCreateVariant(t *testing.T, tx *gorm.DB, productID uuid.UUID, price float64, status enums.VariantStatus) *models.ProductVariant {
	t.Helper()
	p := decimal.NewFromFloat(price)
	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: productID,
		SKU:       fmt.Sprintf("SKU-%s", uuid.NewString()),
		Price:     &p,
		Status:    status,
	}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return variant
}

func TestRankedSearch(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()
	supplier := mustCreateSupplier(t, tx)

	popular := mustCreateProduct(t, tx, supplier.ID, "nitrile gloves large", enums.ProductStatusActive, 0.9)
	modest := mustCreateProduct(t, tx, supplier.ID, "nitrile gloves small", enums.ProductStatusActive, 0.2)
	mustCreateProduct(t, tx, supplier.ID, "nitrile gloves draft", enums.ProductStatusDraft, 0.99)

	mustCreateVariant(t, tx, popular.ID, 5, enums.VariantStatusActive)
	mustCreateVariant(t, tx, popular.ID, 50, enums.VariantStatusActive)
	mustCreateVariant(t, tx, modest.ID, 5, enums.VariantStatusActive)

	t.Run("ordersByScoreAndExcludesInactive", func(t *testing.T) {
		rows, err := repo.RankedSearch(ctx, RankedSearchInput{
			Embedding: testEmbedding(0.1),
			Query:     "nitrile gloves",
			Weights:   defaultWeights(),
			Limit:     10,
		})
		if err != nil {
			t.Fatalf("ranked search: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 active products, got %d", len(rows))
		}
		if rows[0].ID != popular.ID {
			t.Fatalf("expected most popular product first, got %s", rows[0].Name)
		}
		if rows[0].FinalScore < rows[1].FinalScore {
			t.Fatalf("rows out of score order: %f < %f", rows[0].FinalScore, rows[1].FinalScore)
		}
	})

	t.Run("priceBoundMatchesExistentially", func(t *testing.T) {
		min := decimal.NewFromInt(10)
		rows, err := repo.RankedSearch(ctx, RankedSearchInput{
			Embedding: testEmbedding(0.1),
			Query:     "nitrile gloves",
			PriceMin:  &min,
			Weights:   defaultWeights(),
			Limit:     10,
		})
		if err != nil {
			t.Fatalf("ranked search: %v", err)
		}
		// popular has variants {5, 50}: the 50 variant satisfies min=10.
		// modest has only {5} and must drop out.
		if len(rows) != 1 || rows[0].ID != popular.ID {
			t.Fatalf("expected only the product with an in-range variant, got %+v", rows)
		}
	})

	t.Run("inactiveVariantDoesNotSatisfyBound", func(t *testing.T) {
		mustCreateVariant(t, tx, modest.ID, 80, enums.VariantStatusInactive)

		min := decimal.NewFromInt(60)
		rows, err := repo.RankedSearch(ctx, RankedSearchInput{
			Embedding: testEmbedding(0.1),
			Query:     "nitrile gloves",
			PriceMin:  &min,
			Weights:   defaultWeights(),
			Limit:     10,
		})
		if err != nil {
			t.Fatalf("ranked search: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("inactive variant must not satisfy the bound, got %+v", rows)
		}
	})

	t.Run("paginationIsStable", func(t *testing.T) {
		first, err := repo.RankedSearch(ctx, RankedSearchInput{
			Embedding: testEmbedding(0.1),
			Query:     "nitrile gloves",
			Weights:   defaultWeights(),
			Limit:     1,
			Offset:    0,
		})
		if err != nil {
			t.Fatalf("page 1: %v", err)
		}
		second, err := repo.RankedSearch(ctx, RankedSearchInput{
			Embedding: testEmbedding(0.1),
			Query:     "nitrile gloves",
			Weights:   defaultWeights(),
			Limit:     1,
			Offset:    1,
		})
		if err != nil {
			t.Fatalf("page 2: %v", err)
		}
		if len(first) != 1 || len(second) != 1 {
			t.Fatalf("expected one row per page, got %d and %d", len(first), len(second))
		}
		if first[0].ID == second[0].ID {
			t.Fatal("pages must not overlap")
		}
	})
}

func TestRankedSearchTieBreak(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()
	supplier := mustCreateSupplier(t, tx)

	// identical name, embedding, and popularity give identical fused
	// scores, so ordering falls through to total_sales, then id.
	setSales := func(id uuid.UUID, sales int64) {
		t.Helper()
		err := tx.Model(&models.ProductMetrics{}).
			Where("product_id = ?", id).
			Update("total_sales", sales).Error
		if err != nil {
			t.Fatalf("set total_sales: %v", err)
		}
	}
	first := mustCreateProduct(t, tx, supplier.ID, "sterile gauze pads", enums.ProductStatusActive, 0.4)
	second := mustCreateProduct(t, tx, supplier.ID, "sterile gauze pads", enums.ProductStatusActive, 0.4)
	third := mustCreateProduct(t, tx, supplier.ID, "sterile gauze pads", enums.ProductStatusActive, 0.4)
	setSales(first.ID, 30)
	setSales(second.ID, 50)
	setSales(third.ID, 30)

	rows, err := repo.RankedSearch(ctx, RankedSearchInput{
		Embedding: testEmbedding(0.1),
		Query:     "sterile gauze",
		Weights:   defaultWeights(),
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("ranked search: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].FinalScore != rows[1].FinalScore || rows[1].FinalScore != rows[2].FinalScore {
		t.Fatalf("expected tied scores, got %f %f %f", rows[0].FinalScore, rows[1].FinalScore, rows[2].FinalScore)
	}

	if rows[0].ID != second.ID {
		t.Fatalf("expected highest total_sales first, got %s", rows[0].ID)
	}
	lowID, highID := first.ID, third.ID
	if highID.String() < lowID.String() {
		lowID, highID = highID, lowID
	}
	if rows[1].ID != lowID || rows[2].ID != highID {
		t.Fatalf("expected id ASC among equal sales, got %s then %s", rows[1].ID, rows[2].ID)
	}
}

func TestFindDetailAndVariants(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()
	supplier := mustCreateSupplier(t, tx)
	prod := mustCreateProduct(t, tx, supplier.ID, "surgical mask", enums.ProductStatusActive, 0.5)
	mustCreateVariant(t, tx, prod.ID, 12, enums.VariantStatusActive)
	mustCreateVariant(t, tx, prod.ID, 15, enums.VariantStatusOutOfStock)

	detail, err := repo.FindDetail(ctx, prod.ID)
	if err != nil {
		t.Fatalf("find detail: %v", err)
	}
	if detail.Supplier == nil || detail.Supplier.ID != supplier.ID {
		t.Fatalf("expected supplier preloaded, got %+v", detail.Supplier)
	}
	if len(detail.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(detail.Variants))
	}
	if detail.Metrics == nil || detail.Metrics.PopularityScore != 0.5 {
		t.Fatalf("expected metrics preloaded, got %+v", detail.Metrics)
	}

	active := enums.VariantStatusActive
	variants, err := repo.FindVariants(ctx, prod.ID, &active)
	if err != nil {
		t.Fatalf("find variants: %v", err)
	}
	if len(variants) != 1 || variants[0].Status != enums.VariantStatusActive {
		t.Fatalf("expected only the active variant, got %+v", variants)
	}
}
