package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/api/middleware"
	"github.com/scholarbridge/scholarbridge-backend/internal/scholarships"
	pkgerrors "github.com/scholarbridge/scholarbridge-backend/pkg/errors"
)

func actorFrom(principal middleware.Principal) scholarships.Actor {
	return scholarships.Actor{UserID: principal.UserID, Role: principal.Role}
}

func requirePrincipal(r *http.Request) (middleware.Principal, error) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || principal.UserID == uuid.Nil {
		return middleware.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return principal, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
