package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/internal/applications"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

type testApplicationsService struct {
	applyFn         func(ctx context.Context, dto applications.ApplyDTO) (*applications.ApplyResult, error)
	updateStatusFn  func(ctx context.Context, actor applications.Actor, id uuid.UUID, status enums.ApplicationStatus) (*applications.ApplicationDTO, error)
	studentUpdateFn func(ctx context.Context, email string, id uuid.UUID, status enums.ApplicationStatus) (*applications.ApplicationDTO, error)
}

func (s *testApplicationsService) Apply(ctx context.Context, dto applications.ApplyDTO) (*applications.ApplyResult, error) {
	if s.applyFn != nil {
		return s.applyFn(ctx, dto)
	}
	return &applications.ApplyResult{}, nil
}

func (s *testApplicationsService) UpdateStatus(ctx context.Context, actor applications.Actor, id uuid.UUID, status enums.ApplicationStatus) (*applications.ApplicationDTO, error) {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, actor, id, status)
	}
	return &applications.ApplicationDTO{}, nil
}

func (s *testApplicationsService) UpdateStatusAsStudent(ctx context.Context, email string, id uuid.UUID, status enums.ApplicationStatus) (*applications.ApplicationDTO, error) {
	if s.studentUpdateFn != nil {
		return s.studentUpdateFn(ctx, email, id, status)
	}
	return &applications.ApplicationDTO{}, nil
}

func (s *testApplicationsService) ListByEmail(ctx context.Context, email string) ([]applications.ApplicationDTO, error) {
	return nil, nil
}

func (s *testApplicationsService) ListByScholarship(ctx context.Context, actor applications.Actor, scholarshipID uuid.UUID) ([]applications.ApplicationDTO, error) {
	return nil, nil
}

func TestApplyUsesPrincipalEmail(t *testing.T) {
	scholarshipID := uuid.New()
	svc := &testApplicationsService{
		applyFn: func(ctx context.Context, dto applications.ApplyDTO) (*applications.ApplyResult, error) {
			if dto.Email != "student@example.com" {
				t.Fatalf("expected principal email, got %q", dto.Email)
			}
			if dto.ScholarshipID != scholarshipID {
				t.Fatalf("unexpected scholarship %s", dto.ScholarshipID)
			}
			return &applications.ApplyResult{}, nil
		},
	}

	body := `{"full_name":"Dana Olsen","message":"Excited to apply"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scholarships/"+scholarshipID.String()+"/apply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = asPrincipal(req, uuid.New(), "student@example.com", enums.UserRoleStudent)
	req = addRouteParam(req, "id", scholarshipID.String())

	resp := httptest.NewRecorder()
	Apply(svc, testLogger())(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestApplyDuplicateReturnsOK(t *testing.T) {
	scholarshipID := uuid.New()
	svc := &testApplicationsService{
		applyFn: func(ctx context.Context, dto applications.ApplyDTO) (*applications.ApplyResult, error) {
			return &applications.ApplyResult{AlreadyApplied: true}, nil
		},
	}

	body := `{"full_name":"Dana Olsen"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scholarships/"+scholarshipID.String()+"/apply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = asPrincipal(req, uuid.New(), "student@example.com", enums.UserRoleStudent)
	req = addRouteParam(req, "id", scholarshipID.String())

	resp := httptest.NewRecorder()
	Apply(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate got %d", resp.Code)
	}
}

func TestUpdateApplicationStatusRejectsUnknownStatus(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/applications/"+id.String()+"/status", strings.NewReader(`{"status":"SHORTLISTED"}`))
	req.Header.Set("Content-Type", "application/json")
	req = asPrincipal(req, uuid.New(), "admin@example.com", enums.UserRoleAdmin)
	req = addRouteParam(req, "id", id.String())

	resp := httptest.NewRecorder()
	UpdateApplicationStatus(&testApplicationsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestStudentStatusUpdateUsesPrincipalEmail(t *testing.T) {
	id := uuid.New()
	svc := &testApplicationsService{
		studentUpdateFn: func(ctx context.Context, email string, aid uuid.UUID, status enums.ApplicationStatus) (*applications.ApplicationDTO, error) {
			if email != "student@example.com" {
				t.Fatalf("expected principal email, got %q", email)
			}
			if status != enums.ApplicationStatusRejected {
				t.Fatalf("unexpected status %s", status)
			}
			return &applications.ApplicationDTO{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/applications/"+id.String(), strings.NewReader(`{"status":"REJECTED"}`))
	req.Header.Set("Content-Type", "application/json")
	req = asPrincipal(req, uuid.New(), "student@example.com", enums.UserRoleStudent)
	req = addRouteParam(req, "id", id.String())

	resp := httptest.NewRecorder()
	WithdrawOrAcceptApplication(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
