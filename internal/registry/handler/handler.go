// Package handler wires the registry endpoints. It is the thin HTTP layer:
// decode, validate, delegate, encode. Business rules live in the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"uniregistry/internal/registry/models"
	dErrors "uniregistry/pkg/domain-errors"
	"uniregistry/pkg/platform/httputil"
	"uniregistry/pkg/requestcontext"
)

// Service defines the registry operations the handler depends on.
type Service interface {
	Register(ctx context.Context, name, accountID string) (models.University, error)
	GetAllUniversities(ctx context.Context) ([]models.AccountEntry, error)
	GetByName(ctx context.Context, name string) ([]models.University, error)
	GetByAccount(ctx context.Context, accountID string) (*models.University, error)
	VerifyIntegrity(ctx context.Context) (models.IntegrityReport, error)
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the open read endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/registry/universities", h.HandleGetAll)
	r.Get("/registry/universities/by-name/{name}", h.HandleGetByName)
	r.Get("/registry/universities/{accountID}", h.HandleGetByAccount)
	r.Get("/registry/integrity", h.HandleIntegrity)
}

// RegisterProtected mounts the write endpoint. The router wraps this group
// with the auth middleware so a caller identity is always present.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/registry/universities", h.HandleRegister)
}

// HandleRegister handles POST /registry/universities.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	if err := validateRegisterRequest(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	university, err := h.service.Register(ctx, req.Name, req.AccountID)
	if err != nil {
		h.logger.WarnContext(ctx, "registration rejected",
			"request_id", requestID,
			"account_id", req.AccountID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, university)
}

// HandleGetAll handles GET /registry/universities.
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetAllUniversities(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

// HandleGetByName handles GET /registry/universities/by-name/{name}.
func (h *Handler) HandleGetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	universities, err := h.service.GetByName(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, universities)
}

// HandleGetByAccount handles GET /registry/universities/{accountID}.
// Absence surfaces as 404 at the transport layer; the service itself treats
// it as a nil record, not an error.
func (h *Handler) HandleGetByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	university, err := h.service.GetByAccount(r.Context(), accountID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if university == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "account is not registered"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, university)
}

// HandleIntegrity handles GET /registry/integrity.
func (h *Handler) HandleIntegrity(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.VerifyIntegrity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
