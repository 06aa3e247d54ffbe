package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mangonet/internal/submission/models"
	dErrors "mangonet/pkg/domain-errors"
	"mangonet/pkg/platform/httputil"
	"mangonet/pkg/requestcontext"
)

// Service defines the submission operations the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, fields models.Fields) (*models.Submission, error)
	List(ctx context.Context) ([]*models.Submission, error)
	RecordPayment(ctx context.Context, id uuid.UUID, reference string) (*models.Submission, error)
	SetStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*models.Submission, error)
}

// Handler wires submission endpoints to the submission service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the endpoints the signup form uses.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/submissions", h.HandleCreate)
	r.Patch("/submissions/{id}/payment", h.HandleRecordPayment)
}

// RegisterStaff mounts the endpoints behind the staff session.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Get("/submissions", h.HandleList)
	r.Patch("/submissions/{id}/status", h.HandleSetStatus)
}

// HandleCreate handles POST /api/submissions.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateSubmissionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.service.Create(ctx, req.ParsedFields())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sub)
}

// HandleList handles GET /api/submissions.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if subs == nil {
		subs = []*models.Submission{}
	}
	httputil.WriteJSON(w, http.StatusOK, subs)
}

// HandleRecordPayment handles PATCH /api/submissions/{id}/payment.
func (h *Handler) HandleRecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordPaymentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.service.RecordPayment(ctx, id, req.PaymentRef)
	if err != nil {
		h.logger.WarnContext(ctx, "record payment failed",
			"request_id", requestID,
			"submission_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

// HandleSetStatus handles PATCH /api/submissions/{id}/status.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.service.SetStatus(ctx, id, req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "submission not found"))
		return uuid.Nil, false
	}
	return id, true
}
