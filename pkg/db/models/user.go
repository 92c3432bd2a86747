package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/scholarbridge/scholarbridge-backend/pkg/db/types"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

// PrefFieldNotifications is the notification-preference flag gating the
// field-matched scholarship broadcast. It must be explicitly true to opt in.
const PrefFieldNotifications = "fieldNotifications"

// User represents the canonical identity entity. STUDENT accounts are
// approved at creation; ADMIN accounts stay unapproved until a super-admin
// acts; SUPER_ADMIN accounts can never be blocked or revoked.
type User struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email             string          `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash      string          `gorm:"column:password_hash;not null"`
	Name              string          `gorm:"column:name;not null"`
	Role              enums.UserRole  `gorm:"type:user_role;column:role;not null"`
	Approved          bool            `gorm:"column:approved;not null;default:false"`
	FieldOfStudy      *string         `gorm:"column:field_of_study"`
	DegreeLevel       *string         `gorm:"column:degree_level"`
	NotificationPrefs dbtypes.BoolMap `gorm:"type:jsonb;column:notification_prefs;not null;default:'{}'"`
	Preferences       dbtypes.JSONMap `gorm:"type:jsonb;column:preferences;not null;default:'{}'"`
	LastLoginAt       *time.Time      `gorm:"column:last_login_at"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
