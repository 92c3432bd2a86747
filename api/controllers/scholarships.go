package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scholarbridge/scholarbridge-backend/api/responses"
	"github.com/scholarbridge/scholarbridge-backend/api/validators"
	"github.com/scholarbridge/scholarbridge-backend/internal/scholarships"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
	"github.com/scholarbridge/scholarbridge-backend/pkg/pagination"
)

type createScholarshipRequest struct {
	Title           string          `json:"title" validate:"required"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	AmountType      string          `json:"amount_type" validate:"required"`
	Category        string          `json:"category" validate:"required"`
	DegreeLevel     string          `json:"degree_level" validate:"required"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	AwardsAvailable int             `json:"awards_available"`
}

type updateScholarshipRequest struct {
	Title           *string          `json:"title,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	AmountType      *string          `json:"amount_type,omitempty"`
	Category        *string          `json:"category,omitempty"`
	DegreeLevel     *string          `json:"degree_level,omitempty"`
	Deadline        *time.Time       `json:"deadline,omitempty"`
	ClearDeadline   bool             `json:"clear_deadline,omitempty"`
	AwardsAvailable *int             `json:"awards_available,omitempty"`
}

type setApprovalRequest struct {
	ApprovalStatus string `json:"approval_status" validate:"required"`
}

// ListScholarships returns the public, currently applyable catalog.
func ListScholarships(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
			return
		}

		params, err := scholarshipListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ListPublic(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// GetScholarship returns one scholarship and bumps its view counter.
func GetScholarship(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.GetDetail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// CreateScholarship registers a new draft owned by the calling admin.
func CreateScholarship(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
			return
		}

		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createScholarshipRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Create(r.Context(), scholarships.CreateScholarshipDTO{
			AdminID:         principal.UserID,
			Title:           req.Title,
			Description:     req.Description,
			Amount:          req.Amount,
			AmountType:      req.AmountType,
			Category:        req.Category,
			DegreeLevel:     req.DegreeLevel,
			Deadline:        req.Deadline,
			AwardsAvailable: req.AwardsAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// UpdateScholarship applies a partial update to an owned scholarship.
func UpdateScholarship(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
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

		var req updateScholarshipRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Update(r.Context(), actorFrom(principal), id, scholarships.UpdateScholarshipDTO{
			Title:           req.Title,
			Description:     req.Description,
			Amount:          req.Amount,
			AmountType:      req.AmountType,
			Category:        req.Category,
			DegreeLevel:     req.DegreeLevel,
			Deadline:        req.Deadline,
			ClearDeadline:   req.ClearDeadline,
			AwardsAvailable: req.AwardsAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// DeleteScholarship removes an owned scholarship.
func DeleteScholarship(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
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

		if err := svc.Delete(r.Context(), actorFrom(principal), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// PublishScholarship moves an approved scholarship to ACTIVE.
func PublishScholarship(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return scholarshipTransition(svc, logg, scholarships.Service.Publish)
}

// CloseScholarship retires a scholarship.
func CloseScholarship(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return scholarshipTransition(svc, logg, scholarships.Service.Close)
}

// ListMyScholarships returns every scholarship owned by the calling admin.
func ListMyScholarships(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
			return
		}

		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := scholarshipListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ListByAdmin(r.Context(), principal.UserID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// ListPendingScholarships returns scholarships awaiting super-admin review.
func ListPendingScholarships(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
			return
		}

		resp, err := svc.ListPendingApproval(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// SetScholarshipApproval records a super-admin review decision.
func SetScholarshipApproval(svc scholarships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setApprovalRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		approval, err := enums.ParseApprovalStatus(req.ApprovalStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid approval status"))
			return
		}

		resp, err := svc.SetApproval(r.Context(), id, approval)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func scholarshipTransition(
	svc scholarships.Service,
	logg *logger.Logger,
	transition func(scholarships.Service, context.Context, scholarships.Actor, uuid.UUID) (*scholarships.ScholarshipDTO, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholarships service unavailable"))
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

		resp, err := transition(svc, r.Context(), actorFrom(principal), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func scholarshipListParams(r *http.Request) (scholarships.ListParams, error) {
	params := scholarships.ListParams{
		Cursor:      strings.TrimSpace(r.URL.Query().Get("cursor")),
		Category:    strings.TrimSpace(r.URL.Query().Get("category")),
		DegreeLevel: strings.TrimSpace(r.URL.Query().Get("degreeLevel")),
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return scholarships.ListParams{}, err
	}
	params.Limit = limit
	return params, nil
}
