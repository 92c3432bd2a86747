package resources

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarbridge/scholarbridge-backend/pkg/db/models"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
)

type fakeResourceRepo struct {
	createFn      func(ctx context.Context, resource *models.Resource) error
	findByIDFn    func(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	updateFn      func(ctx context.Context, id uuid.UUID, updates map[string]any) error
	deleteFn      func(ctx context.Context, id uuid.UUID) error
	listFn        func(ctx context.Context, category string) ([]models.Resource, error)
	listByAdminFn func(ctx context.Context, adminID uuid.UUID) ([]models.Resource, error)
}

func (f *fakeResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	return f.createFn(ctx, resource)
}

func (f *fakeResourceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeResourceRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return f.updateFn(ctx, id, updates)
}

func (f *fakeResourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeResourceRepo) List(ctx context.Context, category string) ([]models.Resource, error) {
	return f.listFn(ctx, category)
}

func (f *fakeResourceRepo) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.Resource, error) {
	return f.listByAdminFn(ctx, adminID)
}

func TestCreateResource(t *testing.T) {
	var stored *models.Resource
	repo := &fakeResourceRepo{
		createFn: func(ctx context.Context, resource *models.Resource) error {
			stored = resource
			return nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.Create(context.Background(), CreateResourceDTO{
		AdminID:  uuid.New(),
		Title:    "FAFSA Guide",
		Link:     "https://studentaid.gov/h/apply-for-aid/fafsa",
		Category: "Financial Aid",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if stored.Title != "FAFSA Guide" {
		t.Fatalf("unexpected stored row %+v", stored)
	}
	if got.Category != "Financial Aid" {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestCreateResourceRejectsRelativeLink(t *testing.T) {
	svc, err := NewService(&fakeResourceRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateResourceDTO{
		AdminID: uuid.New(),
		Title:   "Broken",
		Link:    "/guides/fafsa",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateResourceForeignAdminRejected(t *testing.T) {
	resource := &models.Resource{ID: uuid.New(), AdminID: uuid.New(), Title: "FAFSA Guide"}
	repo := &fakeResourceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
			return resource, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	title := "Hijacked"
	_, err = svc.Update(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}, resource.ID, UpdateResourceDTO{Title: &title})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateResourceByOwner(t *testing.T) {
	adminID := uuid.New()
	resource := &models.Resource{ID: uuid.New(), AdminID: adminID, Title: "FAFSA Guide"}
	var applied map[string]any
	repo := &fakeResourceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
			return resource, nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
			applied = updates
			resource.Title = updates["title"].(string)
			return nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	title := "FAFSA Guide 2026"
	got, err := svc.Update(context.Background(), Actor{UserID: adminID, Role: enums.UserRoleAdmin}, resource.ID, UpdateResourceDTO{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if applied["title"] != "FAFSA Guide 2026" {
		t.Fatalf("unexpected updates %+v", applied)
	}
	if got.Title != "FAFSA Guide 2026" {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestUpdateResourceNoFieldsReturnsCurrentRow(t *testing.T) {
	adminID := uuid.New()
	resource := &models.Resource{ID: uuid.New(), AdminID: adminID, Title: "FAFSA Guide"}
	repo := &fakeResourceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
			return resource, nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
			t.Fatal("update should not run when nothing changed")
			return nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.Update(context.Background(), Actor{UserID: adminID, Role: enums.UserRoleAdmin}, resource.ID, UpdateResourceDTO{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "FAFSA Guide" {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestDeleteResourceBySuperAdmin(t *testing.T) {
	resource := &models.Resource{ID: uuid.New(), AdminID: uuid.New()}
	deleted := false
	repo := &fakeResourceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
			return resource, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Delete(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleSuperAdmin}, resource.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected deletion")
	}
}

func TestGetUnknownResource(t *testing.T) {
	repo := &fakeResourceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFiltersByCategory(t *testing.T) {
	var seen string
	repo := &fakeResourceRepo{
		listFn: func(ctx context.Context, category string) ([]models.Resource, error) {
			seen = category
			return []models.Resource{{Title: "FAFSA Guide"}}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.List(context.Background(), "Financial Aid")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if seen != "Financial Aid" || len(got) != 1 {
		t.Fatalf("unexpected result filter=%q rows=%d", seen, len(got))
	}
}
