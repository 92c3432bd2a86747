package saved

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/internal/scholarships"
	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
)

type scholarshipSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error)
}

// ToggleResult reports the bookmark state after a toggle.
type ToggleResult struct {
	ScholarshipID uuid.UUID `json:"scholarship_id"`
	Saved         bool      `json:"saved"`
}

// Service manages student scholarship bookmarks.
type Service interface {
	// Toggle flips the bookmark: saves when absent, removes when present,
	// and returns the resulting state.
	Toggle(ctx context.Context, userID, scholarshipID uuid.UUID) (*ToggleResult, error)
	List(ctx context.Context, userID uuid.UUID) ([]scholarships.ScholarshipDTO, error)
	IsSaved(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error)
}

type service struct {
	repo         Repository
	scholarships scholarshipSource
}

// ServiceParams bundles saved-scholarship service dependencies.
type ServiceParams struct {
	Repo         Repository
	Scholarships scholarshipSource
}

// NewService builds the saved-scholarships service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("saved repository required")
	}
	if params.Scholarships == nil {
		return nil, fmt.Errorf("scholarship source required")
	}
	return &service{repo: params.Repo, scholarships: params.Scholarships}, nil
}

func (s *service) Toggle(ctx context.Context, userID, scholarshipID uuid.UUID) (*ToggleResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if scholarshipID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scholarship id required")
	}

	if _, err := s.scholarships.FindByID(ctx, scholarshipID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scholarship not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scholarship")
	}

	inserted, err := s.repo.Insert(ctx, userID, scholarshipID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save scholarship")
	}
	if inserted {
		return &ToggleResult{ScholarshipID: scholarshipID, Saved: true}, nil
	}

	if _, err := s.repo.Remove(ctx, userID, scholarshipID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unsave scholarship")
	}
	return &ToggleResult{ScholarshipID: scholarshipID, Saved: false}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]scholarships.ScholarshipDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list saved scholarships")
	}
	out := make([]scholarships.ScholarshipDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *scholarships.FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) IsSaved(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	saved, err := s.repo.Exists(ctx, userID, scholarshipID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check saved scholarship")
	}
	return saved, nil
}
