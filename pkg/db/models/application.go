package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

// Application is a student's submission against one scholarship, correlated
// by email. A unique index on (scholarship_id, email) closes the duplicate
// apply race at the store level.
type Application struct {
	ID            uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ScholarshipID uuid.UUID               `gorm:"type:uuid;column:scholarship_id;not null;uniqueIndex:applications_scholarship_email_key"`
	Email         string                  `gorm:"type:text;not null;uniqueIndex:applications_scholarship_email_key"`
	FullName      string                  `gorm:"column:full_name;not null"`
	Phone         *string                 `gorm:"column:phone"`
	Message       string                  `gorm:"type:text;not null;default:''"`
	Status        enums.ApplicationStatus `gorm:"type:application_status;not null;default:'APPLIED'"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
