package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradecove/catalog-backend/pkg/config"
	"github.com/tradecove/catalog-backend/pkg/logger"
	"github.com/tradecove/catalog-backend/pkg/metrics"
	pkgredis "github.com/tradecove/catalog-backend/pkg/redis"
)

const (
	productKeyPrefix  = "product:"
	supplierKeyPrefix = "supplier:"
	categoryKeyPrefix = "category:"
	searchKeyPrefix   = "search"
)

// Store is the Redis surface the cache layer needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
}

// SearchKeyInput carries the normalized search parameters that shape a
// cache key. Limit and Offset arrive already normalized.
type SearchKeyInput struct {
	Query      string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Limit      int
	Offset     int
}

// Service coordinates cache-aside reads and writes. Every backend
// failure degrades to a miss or a no-op; callers never see cache errors.
type Service struct {
	store   Store
	logg    *logger.Logger
	cfg     config.CacheConfig
	metrics *metrics.SearchMetrics
}

// NewService builds the cache service.
func NewService(store Store, logg *logger.Logger, cfg config.CacheConfig, m *metrics.SearchMetrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{store: store, logg: logg, cfg: cfg, metrics: m}, nil
}

// Get loads and unmarshals the value at key into dest. Returns false on
// a miss or any backend/decode failure.
func (s *Service) Get(ctx context.Context, entity, key string, dest any) bool {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsMiss(err) {
			s.logg.Warn(ctx, fmt.Sprintf("cache get failed for key %s: %v", key, err))
		}
		s.metrics.IncCacheMiss(entity)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("cache decode failed for key %s: %v", key, err))
		s.metrics.IncCacheMiss(entity)
		return false
	}
	s.metrics.IncCacheHit(entity)
	return true
}

// Set marshals and stores the value at key. Failures are logged and
// swallowed.
func (s *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("cache encode failed for key %s: %v", key, err))
		return
	}
	if err := s.store.Set(ctx, key, string(raw), ttl); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("cache set failed for key %s: %v", key, err))
	}
}

// Delete removes the given key, logging and swallowing failures.
func (s *Service) Delete(ctx context.Context, key string) {
	if err := s.store.Del(ctx, key); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("cache delete failed for key %s: %v", key, err))
	}
}

// GetSearch loads a cached search page.
func (s *Service) GetSearch(ctx context.Context, input SearchKeyInput, dest any) bool {
	return s.Get(ctx, "search", SearchKey(input), dest)
}

// SetSearch stores a search page under the derived key with the search TTL.
func (s *Service) SetSearch(ctx context.Context, input SearchKeyInput, value any) {
	s.Set(ctx, SearchKey(input), value, s.cfg.SearchTTL)
}

// GetProduct loads a cached product detail.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID, dest any) bool {
	return s.Get(ctx, "product", productKeyPrefix+id.String(), dest)
}

// SetProduct stores a product detail with the product TTL.
func (s *Service) SetProduct(ctx context.Context, id uuid.UUID, value any) {
	s.Set(ctx, productKeyPrefix+id.String(), value, s.cfg.ProductTTL)
}

// InvalidateProduct drops the cached product entry.
func (s *Service) InvalidateProduct(ctx context.Context, id uuid.UUID) {
	s.Delete(ctx, productKeyPrefix+id.String())
}

// GetSupplier loads a cached supplier.
func (s *Service) GetSupplier(ctx context.Context, id uuid.UUID, dest any) bool {
	return s.Get(ctx, "supplier", supplierKeyPrefix+id.String(), dest)
}

// SetSupplier stores a supplier with the supplier TTL.
func (s *Service) SetSupplier(ctx context.Context, id uuid.UUID, value any) {
	s.Set(ctx, supplierKeyPrefix+id.String(), value, s.cfg.SupplierTTL)
}

// InvalidateSupplier drops the cached supplier entry.
func (s *Service) InvalidateSupplier(ctx context.Context, id uuid.UUID) {
	s.Delete(ctx, supplierKeyPrefix+id.String())
}

// GetCategory loads a cached category.
func (s *Service) GetCategory(ctx context.Context, id uuid.UUID, dest any) bool {
	return s.Get(ctx, "category", categoryKeyPrefix+id.String(), dest)
}

// SetCategory stores a category with the category TTL.
func (s *Service) SetCategory(ctx context.Context, id uuid.UUID, value any) {
	s.Set(ctx, categoryKeyPrefix+id.String(), value, s.cfg.CategoryTTL)
}

// InvalidateCategory drops the cached category entry.
func (s *Service) InvalidateCategory(ctx context.Context, id uuid.UUID) {
	s.Delete(ctx, categoryKeyPrefix+id.String())
}

// InvalidateByPattern removes all keys matching the glob pattern.
func (s *Service) InvalidateByPattern(ctx context.Context, pattern string) {
	removed, err := s.store.DeleteByPattern(ctx, pattern)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("cache pattern invalidation failed for %s: %v", pattern, err))
		return
	}
	if removed > 0 {
		s.logg.Info(ctx, fmt.Sprintf("invalidated %d cache keys matching %s", removed, pattern))
	}
}

// InvalidateAllProducts drops every cached product entry.
func (s *Service) InvalidateAllProducts(ctx context.Context) {
	s.InvalidateByPattern(ctx, productKeyPrefix+"*")
}

// InvalidateAllSuppliers drops every cached supplier entry.
func (s *Service) InvalidateAllSuppliers(ctx context.Context) {
	s.InvalidateByPattern(ctx, supplierKeyPrefix+"*")
}

// InvalidateAllCategories drops every cached category entry.
func (s *Service) InvalidateAllCategories(ctx context.Context) {
	s.InvalidateByPattern(ctx, categoryKeyPrefix+"*")
}

// InvalidateAllSearches drops every cached search page.
func (s *Service) InvalidateAllSearches(ctx context.Context) {
	s.InvalidateByPattern(ctx, searchKeyPrefix+":*")
}

// SearchKey derives the deterministic cache key for a search page.
// Absent filters collapse to fixed placeholders so distinct parameter
// sets can never collide.
func SearchKey(input SearchKeyInput) string {
	parts := []string{
		searchKeyPrefix,
		input.Query,
		uuidOr(input.CategoryID, "all"),
		uuidOr(input.SupplierID, "all"),
		decimalOr(input.PriceMin, "min"),
		decimalOr(input.PriceMax, "max"),
		strconv.Itoa(input.Limit),
		strconv.Itoa(input.Offset),
	}
	return strings.Join(parts, ":")
}

func uuidOr(id *uuid.UUID, fallback string) string {
	if id == nil {
		return fallback
	}
	return id.String()
}

func decimalOr(d *decimal.Decimal, fallback string) string {
	if d == nil {
		return fallback
	}
	return d.String()
}
