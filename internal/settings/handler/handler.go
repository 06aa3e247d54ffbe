package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "mangonet/pkg/domain-errors"
	"mangonet/pkg/platform/httputil"
	"mangonet/pkg/requestcontext"
)

// Service defines the settings operations the HTTP layer needs.
type Service interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Handler wires the settings endpoints to the settings service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRead mounts the read endpoint (any authenticated staff).
func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/settings/{key}", h.HandleGet)
}

// RegisterWrite mounts the write endpoint (admin role only).
func (h *Handler) RegisterWrite(r chi.Router) {
	r.Put("/settings/{key}", h.HandleSet)
}

type setRequest struct {
	Value string `json:"value"`
}

func (r *setRequest) Validate() error { return nil }

// HandleGet handles GET /api/settings/{key}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := h.service.Get(r.Context(), key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"value": value})
}

// HandleSet handles PUT /api/settings/{key}.
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "setting key is required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[setRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.Set(ctx, key, req.Value); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "setting updated",
		"request_id", requestcontext.RequestID(ctx),
		"key", key,
		"actor", requestcontext.Username(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
