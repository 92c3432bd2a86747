package auth

import (
	"github.com/scholarbridge/scholarbridge-backend/internal/users"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

// SigninRequest captures the credentials sent to the signin endpoint.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest captures the payload for account creation. Role decides the
// approval path: students are usable immediately, admins wait for review.
type SignupRequest struct {
	Email             string          `json:"email" validate:"required,email"`
	Password          string          `json:"password" validate:"required,min=8"`
	Name              string          `json:"name" validate:"required"`
	Role              enums.UserRole  `json:"role" validate:"required"`
	FieldOfStudy      *string         `json:"field_of_study,omitempty"`
	DegreeLevel       *string         `json:"degree_level,omitempty"`
	NotificationPrefs map[string]bool `json:"notification_prefs,omitempty"`
}

// SigninResponse contains the tokens and user produced by a successful signin.
type SigninResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// SignupResponse reports the created account and whether it still needs
// super-admin approval.
type SignupResponse struct {
	User            *users.UserDTO `json:"user"`
	PendingApproval bool           `json:"pending_approval"`
}
