package models

import (
	"time"

	"github.com/google/uuid"
)

// Resource is an informational link owned by the admin who created it.
type Resource struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID     uuid.UUID `gorm:"type:uuid;column:admin_id;not null;index"`
	Title       string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Link        string    `gorm:"type:text;not null"`
	Category    string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
