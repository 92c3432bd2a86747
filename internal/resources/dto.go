package resources

import (
	"time"

	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
)

// ResourceDTO exposes resource data in API responses.
type ResourceDTO struct {
	ID          uuid.UUID `json:"id"`
	AdminID     uuid.UUID `json:"admin_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateResourceDTO holds creation-time data.
type CreateResourceDTO struct {
	AdminID     uuid.UUID
	Title       string
	Description string
	Link        string
	Category    string
}

// UpdateResourceDTO carries a partial update; nil fields are untouched.
type UpdateResourceDTO struct {
	Title       *string
	Description *string
	Link        *string
	Category    *string
}

func (c CreateResourceDTO) ToModel() *models.Resource {
	return &models.Resource{
		AdminID:     c.AdminID,
		Title:       c.Title,
		Description: c.Description,
		Link:        c.Link,
		Category:    c.Category,
	}
}

func FromModel(r *models.Resource) *ResourceDTO {
	if r == nil {
		return nil
	}
	return &ResourceDTO{
		ID:          r.ID,
		AdminID:     r.AdminID,
		Title:       r.Title,
		Description: r.Description,
		Link:        r.Link,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toDTOs(rows []models.Resource) []ResourceDTO {
	out := make([]ResourceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
