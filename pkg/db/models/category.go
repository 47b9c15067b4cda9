package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the catalog hierarchy. ParentID is nil for
// roots; Path holds the materialized ltree path maintained by the DB.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Path      *string    `gorm:"column:path;type:ltree"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
