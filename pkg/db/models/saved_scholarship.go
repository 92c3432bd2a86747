package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedScholarship links a student to a bookmarked scholarship. Existence
// implies saved; absence implies not saved.
type SavedScholarship struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:saved_scholarships_user_id_idx;uniqueIndex:saved_scholarships_user_scholarship_key"`
	ScholarshipID uuid.UUID `gorm:"column:scholarship_id;type:uuid;not null;index:saved_scholarships_scholarship_id_idx;uniqueIndex:saved_scholarships_user_scholarship_key"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
