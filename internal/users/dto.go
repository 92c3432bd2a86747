package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	dbtypes "github.com/scholarbridge/scholarbridge-backend/pkg/db/types"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Role         enums.UserRole  `json:"role"`
	Approved     bool            `json:"approved"`
	FieldOfStudy *string         `json:"field_of_study,omitempty"`
	DegreeLevel  *string         `json:"degree_level,omitempty"`
	LastLoginAt  *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email             string
	PasswordHash      string
	Name              string
	Role              enums.UserRole
	Approved          bool
	FieldOfStudy      *string
	DegreeLevel       *string
	NotificationPrefs map[string]bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Approved:     u.Approved,
		FieldOfStudy: u.FieldOfStudy,
		DegreeLevel:  u.DegreeLevel,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	prefs := dbtypes.BoolMap{}
	for k, v := range c.NotificationPrefs {
		prefs[k] = v
	}

	return &models.User{
		Email:             c.Email,
		PasswordHash:      c.PasswordHash,
		Name:              c.Name,
		Role:              c.Role,
		Approved:          c.Approved,
		FieldOfStudy:      c.FieldOfStudy,
		DegreeLevel:       c.DegreeLevel,
		NotificationPrefs: prefs,
		Preferences:       dbtypes.JSONMap{},
	}
}
