package saved

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
)

type fakeSavedRepo struct {
	insertFn                 func(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error)
	removeFn                 func(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error)
	existsFn                 func(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error)
	listByUserFn             func(ctx context.Context, userID uuid.UUID) ([]models.Scholarship, error)
	listSaversWithDeadlineFn func(ctx context.Context, from, until time.Time) ([]SavedDeadline, error)
}

func (f *fakeSavedRepo) Insert(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error) {
	return f.insertFn(ctx, userID, scholarshipID)
}

func (f *fakeSavedRepo) Remove(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error) {
	return f.removeFn(ctx, userID, scholarshipID)
}

func (f *fakeSavedRepo) Exists(ctx context.Context, userID, scholarshipID uuid.UUID) (bool, error) {
	return f.existsFn(ctx, userID, scholarshipID)
}

func (f *fakeSavedRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Scholarship, error) {
	return f.listByUserFn(ctx, userID)
}

func (f *fakeSavedRepo) ListSaversWithDeadline(ctx context.Context, from, until time.Time) ([]SavedDeadline, error) {
	return f.listSaversWithDeadlineFn(ctx, from, until)
}

type fakeScholarshipSource struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error)
}

func (f *fakeScholarshipSource) FindByID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
	return f.findByIDFn(ctx, id)
}

func existingScholarshipSource(id uuid.UUID) *fakeScholarshipSource {
	return &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, lookup uuid.UUID) (*models.Scholarship, error) {
			return &models.Scholarship{ID: id, Status: enums.ScholarshipStatusActive}, nil
		},
	}
}

func TestToggleSavesWhenAbsent(t *testing.T) {
	scholarshipID := uuid.New()
	repo := &fakeSavedRepo{
		insertFn: func(ctx context.Context, userID, sID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo, Scholarships: existingScholarshipSource(scholarshipID)})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.Toggle(context.Background(), uuid.New(), scholarshipID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !got.Saved {
		t.Fatal("expected saved = true after first toggle")
	}
}

func TestToggleRemovesWhenPresent(t *testing.T) {
	scholarshipID := uuid.New()
	removed := false
	repo := &fakeSavedRepo{
		insertFn: func(ctx context.Context, userID, sID uuid.UUID) (bool, error) {
			return false, nil
		},
		removeFn: func(ctx context.Context, userID, sID uuid.UUID) (bool, error) {
			removed = true
			return true, nil
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo, Scholarships: existingScholarshipSource(scholarshipID)})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.Toggle(context.Background(), uuid.New(), scholarshipID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if got.Saved {
		t.Fatal("expected saved = false after second toggle")
	}
	if !removed {
		t.Fatal("expected bookmark removal")
	}
}

func TestToggleUnknownScholarship(t *testing.T) {
	source := &fakeScholarshipSource{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, err := NewService(ServiceParams{Repo: &fakeSavedRepo{}, Scholarships: source})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Toggle(context.Background(), uuid.New(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestToggleRequiresIdentity(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &fakeSavedRepo{}, Scholarships: &fakeScholarshipSource{}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Toggle(context.Background(), uuid.Nil, uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestListReturnsSavedScholarships(t *testing.T) {
	userID := uuid.New()
	repo := &fakeSavedRepo{
		listByUserFn: func(ctx context.Context, id uuid.UUID) ([]models.Scholarship, error) {
			return []models.Scholarship{
				{ID: uuid.New(), Title: "STEM Futures Grant"},
				{ID: uuid.New(), Title: "Arts Council Award"},
			}, nil
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo, Scholarships: &fakeScholarshipSource{}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scholarships, got %d", len(got))
	}
	if got[0].Title != "STEM Futures Grant" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
}
