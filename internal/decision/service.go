package decision

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clearway/internal/applicant"
	"clearway/internal/audit"
	"clearway/internal/decision/metrics"
	"clearway/internal/notify"
	"clearway/internal/screening"
	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
	"clearway/pkg/sentinel"
)

// CaseStore is the slice of the case store the decision processor needs.
type CaseStore interface {
	FindApplicant(ctx context.Context, caseID id.CaseID) (*applicant.Record, error)
	FindSummary(ctx context.Context, caseID id.CaseID) (*screening.Summary, error)
	AppendDecision(ctx context.Context, record *Record) error
	ListDecisions(ctx context.Context, caseID id.CaseID) ([]Record, error)
}

// TokenVerifier checks a decision token against its case and action scope
// and burns it on success.
type TokenVerifier interface {
	Verify(ctx context.Context, token string, caseID id.CaseID, action string) error
}

// AuditPublisher records decision events on the case audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Request carries one decision action from the HTTP boundary.
type Request struct {
	CaseID      id.CaseID
	Action      Action
	Token       string
	RequesterIP string
	UserAgent   string
}

// Service processes reviewer decisions. It is stateless; all per-case state
// lives in the case store.
type Service struct {
	store      CaseStore
	tokens     TokenVerifier
	notifier   notify.Notifier
	auditor    AuditPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	adminEmail string
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithAdminEmail sets the administrative recipient copied on every decision
// outcome mail. Empty disables the copy.
func WithAdminEmail(email string) Option {
	return func(s *Service) {
		s.adminEmail = email
	}
}

// New creates a decision service.
// Panics if required dependencies are nil - fail fast at startup.
func New(store CaseStore, tokens TokenVerifier, notifier notify.Notifier, auditor AuditPublisher, opts ...Option) *Service {
	if store == nil {
		panic("decision.New: case store is required")
	}
	if tokens == nil {
		panic("decision.New: token verifier is required")
	}
	if notifier == nil {
		panic("decision.New: notifier is required")
	}
	if auditor == nil {
		panic("decision.New: auditor is required for the case audit trail")
	}

	s := &Service{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		auditor:  auditor,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide validates the request, appends an immutable decision record and
// notifies the client. The append is the commit point: notification failures
// are logged and audited but never surfaced as a failure of the decision.
func (s *Service) Decide(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()

	rec, err := s.store.FindApplicant(ctx, req.CaseID)
	if err != nil {
		if sentinelNotFound(err) {
			return nil, dErrors.New(dErrors.CodeNotFound, "case not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load case")
	}
	if rec.Email == "" {
		return nil, dErrors.New(dErrors.CodeNotFound, "case has no client email on record")
	}

	if err := s.tokens.Verify(ctx, req.Token, req.CaseID, string(req.Action)); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementTokenRejection(rejectionReason(err))
		}
		return nil, err
	}

	record := &Record{
		ID:          id.NewDecisionID(),
		CaseID:      req.CaseID,
		Action:      req.Action,
		Token:       req.Token,
		DecidedAt:   time.Now().UTC(),
		RequesterIP: req.RequesterIP,
		UserAgent:   req.UserAgent,
	}
	if err := s.store.AppendDecision(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist decision record")
	}

	s.emitDecided(ctx, record, rec.Email)
	s.notifyClient(ctx, record, rec)

	if s.metrics != nil {
		s.metrics.ObserveDecision(string(req.Action), time.Since(start))
	}
	s.logger.InfoContext(ctx, "decision recorded",
		"case_id", req.CaseID,
		"action", req.Action,
	)

	return &Outcome{
		Success:     true,
		CaseID:      req.CaseID,
		Action:      req.Action,
		ClientEmail: rec.Email,
	}, nil
}

// notifyClient sends the outcome mail to the client, copying the admin
// recipient when configured. Best effort: a failure is logged,
// counted and audited, and the decision still stands.
func (s *Service) notifyClient(ctx context.Context, record *Record, rec *applicant.Record) {
	notice := notify.DecisionNotice{
		ClientEmail: rec.Email,
		AdminEmail:  s.adminEmail,
		ClientName:  rec.FullLegalName,
		CaseID:      record.CaseID,
		Action:      string(record.Action),
	}

	if record.Action == ActionRequest {
		if summary, err := s.store.FindSummary(ctx, record.CaseID); err == nil && summary != nil {
			notice.RFIs = summary.RFIs
		}
	}

	if err := s.notifier.SendDecision(ctx, notice); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementNotifyFailure()
		}
		s.logger.WarnContext(ctx, "failed to notify client of decision",
			"case_id", record.CaseID,
			"action", record.Action,
			"error", err,
		)
		s.emitEvent(ctx, audit.Event{
			CaseID:  record.CaseID,
			Action:  audit.ActionNotificationFailed,
			Outcome: string(record.Action),
			Reason:  err.Error(),
		})
	}
}

func (s *Service) emitDecided(ctx context.Context, record *Record, email string) {
	s.emitEvent(ctx, audit.Event{
		CaseID:  record.CaseID,
		Action:  audit.ActionCaseDecided,
		Outcome: string(record.Action),
		Email:   email,
	})
}

func (s *Service) emitEvent(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"case_id", event.CaseID,
			"action", event.Action,
			"error", err,
		)
	}
}

func sentinelNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound)
}

func rejectionReason(err error) string {
	switch {
	case dErrors.HasCode(err, dErrors.CodeTokenUsed):
		return "used"
	default:
		return "invalid"
	}
}
