package screening

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"clearway/internal/applicant"
	"clearway/internal/audit"
	"clearway/internal/screening/metrics"
	"clearway/internal/screening/tracer"
	dErrors "clearway/pkg/domain-errors"
)

// defaultCheckTimeout bounds every external check call. A timed-out check
// degrades to AMBER instead of hanging the aggregation.
const defaultCheckTimeout = 5 * time.Second

// SummaryStore is the slice of the case store the aggregator writes to.
type SummaryStore interface {
	SaveSummary(ctx context.Context, summary *Summary) error
}

// AuditPublisher records screening events on the case audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ConditionalCheck is implemented by checks that only apply to some client
// categories, such as the registry and UBO checks for entity clients.
type ConditionalCheck interface {
	Applies(rec *applicant.Record) bool
}

// Service runs the applicable checks over an applicant record and persists
// the aggregated summary. It is stateless: all per-case state lives in the
// case store.
type Service struct {
	checks       []Check
	store        SummaryStore
	auditor      AuditPublisher
	metrics      *metrics.Metrics
	tracer       tracer.Tracer
	logger       *slog.Logger
	checkTimeout time.Duration
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

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithCheckTimeout overrides the per-check timeout.
func WithCheckTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.checkTimeout = d
		}
	}
}

// New creates a screening service over the given check set.
// Panics if required dependencies are nil - fail fast at startup.
func New(checks []Check, store SummaryStore, auditor AuditPublisher, opts ...Option) *Service {
	if len(checks) == 0 {
		panic("screening.New: at least one check is required")
	}
	if store == nil {
		panic("screening.New: summary store is required")
	}
	if auditor == nil {
		panic("screening.New: auditor is required for the case audit trail")
	}

	s := &Service{
		checks:       checks,
		store:        store,
		auditor:      auditor,
		tracer:       tracer.NewNoop(),
		logger:       slog.Default(),
		checkTimeout: defaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Screen runs every applicable check concurrently, aggregates the results
// into a summary and persists it, replacing any prior summary for the case.
// Re-screening the same record against unchanged sources yields the same
// summary modulo timestamped evidence.
func (s *Service) Screen(ctx context.Context, rec *applicant.Record) (*Summary, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanScreeningRun,
		tracer.String(tracer.AttrCaseID, rec.CaseID.String()),
	)

	applicable := s.applicableChecks(rec)

	// Isolated result slots - each goroutine writes only its own index, and
	// the Wait below is a full barrier before any aggregation.
	results := make([]CheckResult, len(applicable))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range applicable {
		g.Go(func() error {
			results[i] = s.runCheck(gctx, check, rec)
			return nil
		})
	}
	// Checks never fail, so the only error source would be a future check
	// that violates the contract; treat results as complete either way.
	_ = g.Wait()

	summary := &Summary{
		CaseID:      rec.CaseID,
		ClientName:  rec.FullLegalName,
		Category:    rec.Category,
		Overall:     OverallSeverity(results),
		Results:     results,
		MissingInfo: MissingInfo(rec),
		RFIs:        RequestsForInformation(results),
		Documents:   rec.Documents,
		ScreenedAt:  time.Now().UTC(),
	}

	if err := s.store.SaveSummary(ctx, summary); err != nil {
		span.End(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist screening summary")
	}

	s.emitScreened(ctx, summary)

	if s.metrics != nil {
		s.metrics.ObserveScreening(summary.Overall.String(), time.Since(start), len(summary.RFIs))
	}
	s.logger.InfoContext(ctx, "case screened",
		"case_id", rec.CaseID,
		"overall", summary.Overall.String(),
		"checks", len(results),
		"rfis", len(summary.RFIs),
	)

	span.SetAttributes(tracer.String(tracer.AttrSeverity, summary.Overall.String()))
	span.End(nil)
	return summary, nil
}

// applicableChecks filters the configured set by client category.
func (s *Service) applicableChecks(rec *applicant.Record) []Check {
	applicable := make([]Check, 0, len(s.checks))
	for _, check := range s.checks {
		if cond, ok := check.(ConditionalCheck); ok && !cond.Applies(rec) {
			continue
		}
		applicable = append(applicable, check)
	}
	return applicable
}

// runCheck bounds one check with the per-check timeout and converts a panic
// into an AMBER result, honoring the contract that checks never fail.
func (s *Service) runCheck(ctx context.Context, check Check, rec *applicant.Record) (result CheckResult) {
	ctx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, tracer.SpanCheckRun,
		tracer.String(tracer.AttrCheckName, check.Name()),
	)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "check panicked",
				"check", check.Name(),
				"panic", fmt.Sprintf("%v", r),
			)
			result = amber(check.Name(), "check failed internally", map[string]string{
				"checked_at": checkedAt(),
			})
		}
		if s.metrics != nil {
			s.metrics.ObserveCheck(check.Name(), result.Severity.String(), time.Since(start))
		}
		span.SetAttributes(tracer.String(tracer.AttrSeverity, result.Severity.String()))
		span.End(nil)
	}()

	return check.Run(ctx, rec)
}

// emitScreened records the screening on the audit trail. Best effort: a
// failed emit never fails the screening.
func (s *Service) emitScreened(ctx context.Context, summary *Summary) {
	err := s.auditor.Emit(ctx, audit.Event{
		CaseID:  summary.CaseID,
		Action:  audit.ActionCaseScreened,
		Outcome: summary.Overall.String(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"case_id", summary.CaseID,
			"error", err,
		)
	}
}
