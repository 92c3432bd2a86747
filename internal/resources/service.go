package resources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
)

// Actor identifies who is performing a mutation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Service manages admin-curated resources.
type Service interface {
	Create(ctx context.Context, dto CreateResourceDTO) (*ResourceDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, dto UpdateResourceDTO) (*ResourceDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ResourceDTO, error)
	List(ctx context.Context, category string) ([]ResourceDTO, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]ResourceDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds the resources service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("resources repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, dto CreateResourceDTO) (*ResourceDTO, error) {
	if dto.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if strings.TrimSpace(dto.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if err := validateLink(dto.Link); err != nil {
		return nil, err
	}

	resource := dto.ToModel()
	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create resource")
	}
	return FromModel(resource), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, dto UpdateResourceDTO) (*ResourceDTO, error) {
	resource, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if dto.Title != nil {
		if strings.TrimSpace(*dto.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Link != nil {
		if err := validateLink(*dto.Link); err != nil {
			return nil, err
		}
		updates["link"] = *dto.Link
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if len(updates) == 0 {
		return FromModel(resource), nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update resource")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload resource")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete resource")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ResourceDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource id required")
	}
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resource")
	}
	return FromModel(resource), nil
}

func (s *service) List(ctx context.Context, category string) ([]ResourceDTO, error) {
	rows, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list resources")
	}
	return toDTOs(rows), nil
}

func (s *service) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]ResourceDTO, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	rows, err := s.repo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admin resources")
	}
	return toDTOs(rows), nil
}

func (s *service) loadOwned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Resource, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource id required")
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resource")
	}
	if actor.Role != enums.UserRoleSuperAdmin && resource.AdminID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "resource does not belong to admin")
	}
	return resource, nil
}

func validateLink(link string) error {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "link must be an absolute URL")
	}
	return nil
}
