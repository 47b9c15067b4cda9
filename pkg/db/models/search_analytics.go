package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchAnalytics records one executed search for later aggregation.
type SearchAnalytics struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Query            string     `gorm:"column:query;not null;index"`
	UserID           *uuid.UUID `gorm:"column:user_id;type:uuid"`
	ResultCount      int        `gorm:"column:result_count;not null"`
	ClickedProductID *uuid.UUID `gorm:"column:clicked_product_id;type:uuid"`
	DurationMS       int64      `gorm:"column:duration_ms;not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime;index"`
}
