// Package handler exposes case submission, re-screening and status queries
// over HTTP.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"clearway/internal/applicant"
	"clearway/internal/audit"
	"clearway/internal/casestore"
	"clearway/internal/notify"
	"clearway/internal/platform/middleware"
	"clearway/internal/screening"
	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
	"clearway/pkg/platform/httputil"
)

// Screener runs the verification checks for one applicant record.
type Screener interface {
	Screen(ctx context.Context, rec *applicant.Record) (*screening.Summary, error)
}

// TokenIssuer mints single-use decision tokens for the reviewer links.
type TokenIssuer interface {
	Issue(caseID id.CaseID, action string) (string, error)
}

// AuditPublisher records submission events on the case audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Config carries the handler's notification settings.
type Config struct {
	AdminEmail    string
	PublicBaseURL string
}

// Handler handles the case endpoints.
type Handler struct {
	store    casestore.Store
	screener Screener
	tokens   TokenIssuer
	notifier notify.Notifier
	auditor  AuditPublisher
	cfg      Config
	logger   *slog.Logger
}

// New creates a case handler.
func New(
	store casestore.Store,
	screener Screener,
	tokens TokenIssuer,
	notifier notify.Notifier,
	auditor AuditPublisher,
	cfg Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		store:    store,
		screener: screener,
		tokens:   tokens,
		notifier: notifier,
		auditor:  auditor,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register registers the case routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cases", h.handleSubmit)
	r.Post("/cases/{caseID}/screening", h.handleRescreen)
	r.Get("/cases/{caseID}/status", h.handleStatus)
}

// submitResponse is the payload returned after submission and screening.
type submitResponse struct {
	CaseID         string `json:"caseId"`
	OverallStatus  string `json:"overallStatus"`
	ResultsCount   int    `json:"resultsCount"`
	DocumentsCount int    `json:"documentsCount"`
}

// handleSubmit accepts a new application, persists it and screens it
// immediately. The screening summary write is part of the operation; the
// reviewer notification is best effort.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[applicant.SubmitRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	caseID := id.NewCaseID()
	rec := req.ToRecord(caseID, time.Now().UTC())

	if err := h.store.SaveApplicant(ctx, rec); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist applicant record",
			"request_id", requestID,
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist application"))
		return
	}

	h.emit(ctx, audit.Event{
		CaseID:    caseID,
		Action:    audit.ActionCaseSubmitted,
		Email:     rec.Email,
		RequestID: requestID,
	})

	summary, err := h.screener.Screen(ctx, rec)
	if err != nil {
		h.logger.ErrorContext(ctx, "screening failed",
			"request_id", requestID,
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.notifyReviewer(ctx, summary)

	httputil.WriteJSON(w, http.StatusCreated, submitResponse{
		CaseID:         caseID.String(),
		OverallStatus:  summary.Overall.String(),
		ResultsCount:   len(summary.Results),
		DocumentsCount: len(rec.Documents),
	})
}

// rescreenResponse is the payload returned by an explicit re-screen.
type rescreenResponse struct {
	CaseID        string   `json:"caseId"`
	OverallStatus string   `json:"overallStatus"`
	MissingInfo   []string `json:"missingInfo"`
	RFIs          []string `json:"rfis"`
}

// handleRescreen re-runs screening over the stored applicant record,
// replacing the prior summary.
func (h *Handler) handleRescreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	caseID, ok := h.parseCaseID(w, r)
	if !ok {
		return
	}

	rec, err := h.store.FindApplicant(ctx, caseID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "case not found"))
		return
	}

	summary, err := h.screener.Screen(ctx, rec)
	if err != nil {
		h.logger.ErrorContext(ctx, "re-screening failed",
			"request_id", requestID,
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.notifyReviewer(ctx, summary)

	httputil.WriteJSON(w, http.StatusOK, rescreenResponse{
		CaseID:        caseID.String(),
		OverallStatus: summary.Overall.String(),
		MissingInfo:   summary.MissingInfo,
		RFIs:          summary.RFIs,
	})
}

// handleStatus answers a case status query with derived state, timeline,
// checklist and pending RFIs.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caseID, ok := h.parseCaseID(w, r)
	if !ok {
		return
	}

	status, err := casestore.LoadStatus(ctx, h.store, caseID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "case not found"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) parseCaseID(w http.ResponseWriter, r *http.Request) (id.CaseID, bool) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid case identifier"))
		return id.CaseID{}, false
	}
	return caseID, true
}

// notifyReviewer mails the admin the screened case with one single-use link
// per decision action. Best effort.
func (h *Handler) notifyReviewer(ctx context.Context, summary *screening.Summary) {
	if h.cfg.AdminEmail == "" {
		return
	}

	links := make(map[string]string, 3)
	for _, action := range []string{"approve", "request", "reject"} {
		token, err := h.tokens.Issue(summary.CaseID, action)
		if err != nil {
			h.logger.WarnContext(ctx, "failed to issue decision token",
				"case_id", summary.CaseID,
				"action", action,
				"error", err,
			)
			return
		}
		links[action] = fmt.Sprintf("%s/decision?caseId=%s&action=%s&token=%s",
			h.cfg.PublicBaseURL, summary.CaseID, action, url.QueryEscape(token))
	}

	err := h.notifier.SendCaseReady(ctx, notify.CaseNotice{
		AdminEmail:    h.cfg.AdminEmail,
		CaseID:        summary.CaseID,
		ClientName:    summary.ClientName,
		Overall:       summary.Overall.String(),
		MissingInfo:   summary.MissingInfo,
		RFIs:          summary.RFIs,
		DecisionLinks: links,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to notify reviewer",
			"case_id", summary.CaseID,
			"error", err,
		)
		h.emit(ctx, audit.Event{
			CaseID: summary.CaseID,
			Action: audit.ActionNotificationFailed,
			Reason: err.Error(),
		})
	}
}

func (h *Handler) emit(ctx context.Context, event audit.Event) {
	if err := h.auditor.Emit(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "failed to emit audit event",
			"case_id", event.CaseID,
			"action", event.Action,
			"error", err,
		)
	}
}
