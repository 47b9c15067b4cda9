package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductMetrics tracks aggregate engagement per product. The
// popularity score is a normalized blend recomputed offline.
type ProductMetrics struct {
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	ViewCount       int64     `gorm:"column:view_count;not null;default:0"`
	TotalSales      int64     `gorm:"column:total_sales;not null;default:0"`
	PopularityScore float64   `gorm:"column:popularity_score;not null;default:0"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
