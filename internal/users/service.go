package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
)

// ModerationService covers super-admin account moderation.
type ModerationService interface {
	ListPendingAdmins(ctx context.Context) ([]UserDTO, error)
	ListByRole(ctx context.Context, role enums.UserRole) ([]UserDTO, error)
	Approve(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	Block(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	Unblock(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

type moderationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	ListPendingAdmins(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error)
}

type moderationService struct {
	repo moderationRepository
}

// NewModerationService builds the moderation service used by super-admin routes.
func NewModerationService(repo moderationRepository) (ModerationService, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &moderationService{repo: repo}, nil
}

func (s *moderationService) ListPendingAdmins(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.ListPendingAdmins(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending admins")
	}
	return toDTOs(rows), nil
}

func (s *moderationService) ListByRole(ctx context.Context, role enums.UserRole) ([]UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	rows, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users by role")
	}
	return toDTOs(rows), nil
}

func (s *moderationService) Approve(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	return s.setApproval(ctx, userID, true)
}

func (s *moderationService) Block(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	return s.setApproval(ctx, userID, false)
}

func (s *moderationService) Unblock(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	return s.setApproval(ctx, userID, true)
}

// setApproval flips the flag after rejecting super-admin targets outright.
func (s *moderationService) setApproval(ctx context.Context, userID uuid.UUID, approved bool) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.Role == enums.UserRoleSuperAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "super admin accounts cannot be moderated")
	}

	if user.Approved != approved {
		if err := s.repo.SetApproved(ctx, userID, approved); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update approval")
		}
		user.Approved = approved
	}
	return FromModel(user), nil
}

func toDTOs(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
