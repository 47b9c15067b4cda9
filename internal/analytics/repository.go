package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tradecove/catalog-backend/pkg/db/models"
)

// Recorder is the write-side surface consumed by the search pipeline.
type Recorder interface {
	Record(ctx context.Context, query string, resultCount int, duration time.Duration) error
}

// PopularQuery aggregates how often a query was executed.
type PopularQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Repository persists and aggregates search analytics rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts one analytics row for an executed search.
func (r *Repository) Record(ctx context.Context, query string, resultCount int, duration time.Duration) error {
	row := &models.SearchAnalytics{
		Query:       query,
		ResultCount: resultCount,
		DurationMS:  duration.Milliseconds(),
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// PopularQueries returns the most frequently executed queries.
func (r *Repository) PopularQueries(ctx context.Context, limit int) ([]PopularQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []PopularQuery
	err := r.db.WithContext(ctx).
		Model(&models.SearchAnalytics{}).
		Select("query, COUNT(*) AS count").
		Group("query").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HistoryByQuery returns the recorded executions of one query, newest first.
func (r *Repository) HistoryByQuery(ctx context.Context, query string, limit int) ([]models.SearchAnalytics, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.SearchAnalytics
	err := r.db.WithContext(ctx).
		Where("query = ?", query).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
