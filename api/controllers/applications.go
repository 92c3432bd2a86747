package controllers

import (
	"net/http"

	"github.com/scholarbridge/scholarbridge-backend/api/responses"
	"github.com/scholarbridge/scholarbridge-backend/api/validators"
	"github.com/scholarbridge/scholarbridge-backend/internal/applications"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
)

const (
	maxNameLength    = 255
	maxMessageLength = 2000
)

type applyRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone,omitempty"`
	Message  string  `json:"message"`
}

type applicationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Apply submits an application for the scholarship in the path. The applicant
// identity comes from the signed-in principal, so the (scholarship, email)
// pair cannot be spoofed.
func Apply(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scholarshipID, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req applyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Apply(r.Context(), applications.ApplyDTO{
			ScholarshipID: scholarshipID,
			Email:         principal.Email,
			FullName:      validators.SanitizeString(req.FullName, maxNameLength),
			Phone:         req.Phone,
			Message:       validators.SanitizeString(req.Message, maxMessageLength),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if result.AlreadyApplied {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

// UpdateApplicationStatus records an admin decision on an application.
func UpdateApplicationStatus(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := decodeApplicationStatus(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := applications.Actor{UserID: principal.UserID, Role: principal.Role}
		resp, err := svc.UpdateStatus(r.Context(), actor, id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// WithdrawOrAcceptApplication lets a student move their own application
// between the statuses students may set themselves.
func WithdrawOrAcceptApplication(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := decodeApplicationStatus(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.UpdateStatusAsStudent(r.Context(), principal.Email, id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// ListMyApplications returns every application the caller has submitted.
func ListMyApplications(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ListByEmail(r.Context(), principal.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// ListScholarshipApplications returns the applicant list for an owned
// scholarship.
func ListScholarshipApplications(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scholarshipID, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := applications.Actor{UserID: principal.UserID, Role: principal.Role}
		resp, err := svc.ListByScholarship(r.Context(), actor, scholarshipID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func decodeApplicationStatus(r *http.Request) (enums.ApplicationStatus, error) {
	var req applicationStatusRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		return "", err
	}
	status, err := enums.ParseApplicationStatus(req.Status)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid application status")
	}
	return status, nil
}
