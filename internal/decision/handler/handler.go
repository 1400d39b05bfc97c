// Package handler exposes the decision endpoint the emailed links point at.
package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clearway/internal/decision"
	"clearway/internal/platform/middleware"
	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
	"clearway/pkg/platform/httputil"
)

// Service processes a validated decision request.
type Service interface {
	Decide(ctx context.Context, req decision.Request) (*decision.Outcome, error)
}

// Handler handles the decision endpoint.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a decision handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the decision route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/decision", h.handleDecision)
}

// handleDecision consumes one emailed decision link. All three query
// parameters are validated before anything touches the store.
func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	query := r.URL.Query()
	rawCaseID := query.Get("caseId")
	rawAction := query.Get("action")
	token := query.Get("token")

	if rawCaseID == "" || rawAction == "" || token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "caseId, action and token are required"))
		return
	}

	caseID, err := id.ParseCaseID(rawCaseID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid case identifier"))
		return
	}

	action, err := decision.ParseAction(rawAction)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	outcome, err := h.service.Decide(ctx, decision.Request{
		CaseID:      caseID,
		Action:      action,
		Token:       token,
		RequesterIP: requesterIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "decision rejected",
			"request_id", requestID,
			"case_id", caseID,
			"action", action,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// requesterIP strips the port from the remote address, keeping the raw
// value if it does not parse.
func requesterIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
