package search

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/internal/analytics"
	"github.com/tradecove/catalog-backend/internal/cache"
	product "github.com/tradecove/catalog-backend/internal/products"
	"github.com/tradecove/catalog-backend/pkg/config"
	"github.com/tradecove/catalog-backend/pkg/db/models"
	dbtypes "github.com/tradecove/catalog-backend/pkg/db/types"
	"github.com/tradecove/catalog-backend/pkg/enums"
	pkgerrors "github.com/tradecove/catalog-backend/pkg/errors"
	"github.com/tradecove/catalog-backend/pkg/logger"
	"github.com/tradecove/catalog-backend/pkg/metrics"
	"github.com/tradecove/catalog-backend/pkg/pagination"
)

// analyticsTimeout bounds the best-effort write that follows a cache
// miss so a slow analytics table cannot pile up goroutines.
const analyticsTimeout = 2 * time.Second

// Service is the ranked-search surface.
type Service interface {
	Search(ctx context.Context, input SearchInput) (*SearchResult, error)
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	PopularQueries(ctx context.Context, limit int) ([]analytics.PopularQuery, error)
}

// Embedder turns query text into the vector the ranking query compares
// product embeddings against.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

type searchStore interface {
	RankedSearch(ctx context.Context, input product.RankedSearchInput) ([]product.RankedRow, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariants(ctx context.Context, productID uuid.UUID, status *enums.VariantStatus) ([]models.ProductVariant, error)
	FindSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type searchCache interface {
	GetSearch(ctx context.Context, input cache.SearchKeyInput, dest any) bool
	SetSearch(ctx context.Context, input cache.SearchKeyInput, value any)
	GetProduct(ctx context.Context, id uuid.UUID, dest any) bool
	SetProduct(ctx context.Context, id uuid.UUID, value any)
}

type popularLister interface {
	analytics.Recorder
	PopularQueries(ctx context.Context, limit int) ([]analytics.PopularQuery, error)
}

type service struct {
	repo      searchStore
	cache     searchCache
	embedder  Embedder
	analytics popularLister
	logg      *logger.Logger
	weights   config.Weights
	metrics   *metrics.SearchMetrics
}

// NewService wires the search pipeline. Metrics may be nil.
func NewService(
	repo searchStore,
	cacheSvc searchCache,
	embedder Embedder,
	recorder popularLister,
	logg *logger.Logger,
	weights config.Weights,
	m *metrics.SearchMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if cacheSvc == nil {
		return nil, fmt.Errorf("cache service required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		cache:     cacheSvc,
		embedder:  embedder,
		analytics: recorder,
		logg:      logg,
		weights:   weights,
		metrics:   m,
	}, nil
}

// Search runs the hybrid-ranked query with cache-aside. On a hit no
// part of the scoring pipeline runs; on a miss the shaped result is
// cached and one analytics row is written in the background.
func (s *service) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	started := time.Now()

	normalized, err := s.normalize(input)
	if err != nil {
		s.metrics.IncFailure("search")
		return nil, err
	}

	key := cache.SearchKeyInput{
		Query:      normalized.Query,
		CategoryID: normalized.CategoryID,
		SupplierID: normalized.SupplierID,
		PriceMin:   normalized.PriceMin,
		PriceMax:   normalized.PriceMax,
		Limit:      normalized.Limit,
		Offset:     normalized.Offset,
	}

	var cached SearchResult
	if s.cache.GetSearch(ctx, key, &cached) {
		s.metrics.ObserveDuration("search", time.Since(started))
		return filterResultVariants(&cached, normalized.Attributes), nil
	}

	if err := s.validateFilterRefs(ctx, normalized); err != nil {
		s.metrics.IncFailure("search")
		return nil, err
	}

	embedding, err := s.embedder.EmbedQuery(ctx, normalized.Query)
	if err != nil {
		s.metrics.IncFailure("search")
		return nil, err
	}

	rows, err := s.repo.RankedSearch(ctx, product.RankedSearchInput{
		Embedding:  dbtypes.Vector(embedding),
		Query:      normalized.Query,
		CategoryID: normalized.CategoryID,
		SupplierID: normalized.SupplierID,
		PriceMin:   normalized.PriceMin,
		PriceMax:   normalized.PriceMax,
		Weights:    s.weights,
		Limit:      normalized.Limit,
		Offset:     normalized.Offset,
	})
	if err != nil {
		s.metrics.IncFailure("search")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: ranked search")
	}

	result, err := s.shape(ctx, normalized, rows)
	if err != nil {
		s.metrics.IncFailure("search")
		return nil, err
	}

	s.cache.SetSearch(ctx, key, result)
	s.recordAnalytics(ctx, normalized.Query, len(result.Results), time.Since(started))
	s.metrics.ObserveDuration("search", time.Since(started))
	return filterResultVariants(result, normalized.Attributes), nil
}

// ProductByID loads one shaped product with cache-aside. An unknown id
// yields (nil, nil) so callers decide the not-found response.
func (s *service) ProductByID(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	started := time.Now()

	var cached ProductDetail
	if s.cache.GetProduct(ctx, id, &cached) {
		s.metrics.ObserveDuration("product_detail", time.Since(started))
		return &cached, nil
	}

	row, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.metrics.IncFailure("product_detail")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product detail")
	}

	detail := NewProductDetail(row)
	s.cache.SetProduct(ctx, id, detail)
	s.metrics.ObserveDuration("product_detail", time.Since(started))
	return detail, nil
}

// PopularQueries surfaces the most frequent recorded queries.
func (s *service) PopularQueries(ctx context.Context, limit int) ([]analytics.PopularQuery, error) {
	queries, err := s.analytics.PopularQueries(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: popular queries")
	}
	return queries, nil
}

// normalize trims the query, checks price bounds, and clamps paging.
func (s *service) normalize(input SearchInput) (SearchInput, error) {
	input.Query = strings.TrimSpace(input.Query)
	if input.Query == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}
	if input.PriceMin != nil && input.PriceMin.IsNegative() {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "price_min must be non-negative")
	}
	if input.PriceMax != nil && input.PriceMax.IsNegative() {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "price_max must be non-negative")
	}
	if input.PriceMin != nil && input.PriceMax != nil && input.PriceMin.GreaterThan(*input.PriceMax) {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "price_min must not exceed price_max")
	}
	page := pagination.Normalize(input.Limit, input.Offset)
	input.Limit = page.Limit
	input.Offset = page.Offset
	return input, nil
}

// validateFilterRefs rejects filters pointing at entities that do not
// exist, before any scoring work is done.
func (s *service) validateFilterRefs(ctx context.Context, input SearchInput) error {
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "category filter references an unknown category")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category filter")
		}
	}
	if input.SupplierID != nil {
		if _, err := s.repo.FindSupplierByID(ctx, *input.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "supplier filter references an unknown supplier")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier filter")
		}
	}
	return nil
}

// shape attaches active-variant detail to each ranked row. Variant
// fetches for distinct products are independent and run concurrently;
// nothing is cached until every fetch has finished.
func (s *service) shape(ctx context.Context, input SearchInput, rows []product.RankedRow) (*SearchResult, error) {
	results := make([]ScoredProduct, len(rows))
	group, groupCtx := errgroup.WithContext(ctx)

	active := enums.VariantStatusActive
	for i, row := range rows {
		results[i] = ScoredProduct{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Category:    row.CategoryName,
			Supplier:    SupplierRef{ID: row.SupplierID, Name: row.SupplierName},
			Metrics: MetricsSnapshot{
				TotalSales:      row.TotalSales,
				PopularityScore: row.PopularityScore,
			},
			Score: ScoreBreakdown{
				Semantic:   row.SemanticSim,
				Lexical:    row.TextRank,
				Popularity: row.PopularityScore,
				Final:      row.FinalScore,
			},
		}
		group.Go(func() error {
			variants, err := s.repo.FindVariants(groupCtx, row.ID, &active)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variants")
			}
			results[i].Variants = NewVariantDTOs(variants)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &SearchResult{
		Query:   input.Query,
		Results: results,
		Count:   len(results),
		Limit:   input.Limit,
		Offset:  input.Offset,
	}, nil
}

// recordAnalytics writes the per-search row off the request path. A
// failed write is logged and swallowed.
func (s *service) recordAnalytics(ctx context.Context, query string, resultCount int, duration time.Duration) {
	logCtx := s.logg.WithQuery(context.WithoutCancel(ctx), query)
	go func() {
		writeCtx, cancel := context.WithTimeout(logCtx, analyticsTimeout)
		defer cancel()
		if err := s.analytics.Record(writeCtx, query, resultCount, duration); err != nil {
			s.logg.Error(writeCtx, "analytics: record search", err)
		}
	}()
}

// filterResultVariants applies the variant-attribute predicate to the
// displayed variants. The cached entry keeps the unfiltered shape so
// the cache key stays a pure function of the query/filter/page tuple.
func filterResultVariants(result *SearchResult, predicate map[string]any) *SearchResult {
	if len(predicate) == 0 {
		return result
	}
	for i := range result.Results {
		kept := make([]VariantDTO, 0, len(result.Results[i].Variants))
		for _, variant := range result.Results[i].Variants {
			if matchesAttributes(variant.Attributes, predicate) {
				kept = append(kept, variant)
			}
		}
		result.Results[i].Variants = kept
	}
	return result
}

func matchesAttributes(attrs map[string]any, predicate map[string]any) bool {
	for key, want := range predicate {
		got, ok := attrs[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
