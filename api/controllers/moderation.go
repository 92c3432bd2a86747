package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/api/responses"
	"github.com/scholarbridge/scholarbridge-backend/internal/users"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
)

// ListPendingAdmins returns admin accounts awaiting super-admin approval.
func ListPendingAdmins(svc users.ModerationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		resp, err := svc.ListPendingAdmins(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// ListUsersByRole returns every account holding the requested role.
func ListUsersByRole(svc users.ModerationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		role, err := enums.ParseUserRole(strings.TrimSpace(r.URL.Query().Get("role")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		resp, err := svc.ListByRole(r.Context(), role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// ApproveUser grants an account access to the platform.
func ApproveUser(svc users.ModerationService, logg *logger.Logger) http.HandlerFunc {
	return moderationAction(svc, logg, users.ModerationService.Approve)
}

// BlockUser revokes an account's access.
func BlockUser(svc users.ModerationService, logg *logger.Logger) http.HandlerFunc {
	return moderationAction(svc, logg, users.ModerationService.Block)
}

// UnblockUser restores a previously blocked account.
func UnblockUser(svc users.ModerationService, logg *logger.Logger) http.HandlerFunc {
	return moderationAction(svc, logg, users.ModerationService.Unblock)
}

func moderationAction(
	svc users.ModerationService,
	logg *logger.Logger,
	action func(users.ModerationService, context.Context, uuid.UUID) (*users.UserDTO, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := action(svc, r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
