package screening

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"clearway/internal/applicant"
	"clearway/internal/audit"
	id "clearway/pkg/domain"
)

// stubCheck returns a fixed result, for driving the aggregation rules.
type stubCheck struct {
	name     string
	severity Severity
	reason   string
	panics   bool
}

func (c *stubCheck) Name() string { return c.name }

func (c *stubCheck) Run(_ context.Context, _ *applicant.Record) CheckResult {
	if c.panics {
		panic("stub check exploded")
	}
	return CheckResult{Name: c.name, Severity: c.severity, Reason: c.reason}
}

// entityStubCheck is a stub that only applies to entity clients.
type entityStubCheck struct {
	stubCheck
}

func (c *entityStubCheck) Applies(rec *applicant.Record) bool { return rec.IsEntity() }

// memorySummaryStore records saved summaries.
type memorySummaryStore struct {
	mu        sync.Mutex
	summaries map[id.CaseID]*Summary
}

func newMemorySummaryStore() *memorySummaryStore {
	return &memorySummaryStore{summaries: make(map[id.CaseID]*Summary)}
}

func (s *memorySummaryStore) SaveSummary(_ context.Context, summary *Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.CaseID] = summary
	return nil
}

// recordingAuditor captures emitted audit events.
type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Emit(_ context.Context, event audit.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

type ScreeningSuite struct {
	suite.Suite
	store   *memorySummaryStore
	auditor *recordingAuditor
}

func TestScreeningSuite(t *testing.T) {
	suite.Run(t, new(ScreeningSuite))
}

func (s *ScreeningSuite) SetupTest() {
	s.store = newMemorySummaryStore()
	s.auditor = &recordingAuditor{}
}

func (s *ScreeningSuite) newService(checks ...Check) *Service {
	return New(checks, s.store, s.auditor)
}

func (s *ScreeningSuite) documentedIndividual() *applicant.Record {
	rec := individualRecord()
	rec.CaseID = id.NewCaseID()
	rec.Documents = []applicant.Document{
		{Category: DocProofOfAddress, StorageKey: "submissions/x/poa.pdf"},
		{Category: DocSourceOfFunds, StorageKey: "submissions/x/sof.pdf"},
	}
	return rec
}

func (s *ScreeningSuite) TestAllGreenYieldsCleanSummary() {
	svc := s.newService(
		&stubCheck{name: CheckSanctions, severity: SeverityGreen},
		&stubCheck{name: CheckPEP, severity: SeverityGreen},
		&stubCheck{name: CheckTaxIDFormat, severity: SeverityGreen},
	)

	summary, err := svc.Screen(context.Background(), s.documentedIndividual())
	s.Require().NoError(err)

	s.Equal(SeverityGreen, summary.Overall)
	s.Empty(summary.MissingInfo)
	s.Empty(summary.RFIs)
	s.Len(summary.Results, 3)
}

func (s *ScreeningSuite) TestSingleRedForcesOverallRed() {
	svc := s.newService(
		&stubCheck{name: CheckSanctions, severity: SeverityGreen},
		&stubCheck{name: CheckTaxIDFormat, severity: SeverityRed, reason: "tax identification number too short"},
		&stubCheck{name: CheckPEP, severity: SeverityAmber, reason: "politically exposed person match"},
	)

	summary, err := svc.Screen(context.Background(), s.documentedIndividual())
	s.Require().NoError(err)

	s.Equal(SeverityRed, summary.Overall)
	// Only the AMBER check generates an RFI; RED blocks, it does not clarify.
	s.Require().Len(summary.RFIs, 1)
	s.Equal("pep: politically exposed person match", summary.RFIs[0])
}

func (s *ScreeningSuite) TestPanickingCheckDegradesToAmber() {
	svc := s.newService(
		&stubCheck{name: CheckSanctions, severity: SeverityGreen},
		&stubCheck{name: CheckAdverseMedia, panics: true},
	)

	summary, err := svc.Screen(context.Background(), s.documentedIndividual())
	s.Require().NoError(err)

	s.Equal(SeverityAmber, summary.Overall)
	var found bool
	for _, r := range summary.Results {
		if r.Name == CheckAdverseMedia {
			found = true
			s.Equal(SeverityAmber, r.Severity)
			s.Equal("check failed internally", r.Reason)
		}
	}
	s.True(found)
}

func (s *ScreeningSuite) TestEntityChecksSkippedForIndividuals() {
	entityCheck := &entityStubCheck{stubCheck{name: CheckEntityRegistry, severity: SeverityAmber}}
	svc := s.newService(
		&stubCheck{name: CheckSanctions, severity: SeverityGreen},
		entityCheck,
	)

	summary, err := svc.Screen(context.Background(), s.documentedIndividual())
	s.Require().NoError(err)

	s.Len(summary.Results, 1)
	s.Equal(SeverityGreen, summary.Overall)
}

func (s *ScreeningSuite) TestMissingDocumentsReported() {
	svc := s.newService(&stubCheck{name: CheckSanctions, severity: SeverityGreen})

	rec := individualRecord()
	rec.CaseID = id.NewCaseID()
	rec.PEPStatus = applicant.PEPYes

	summary, err := svc.Screen(context.Background(), rec)
	s.Require().NoError(err)

	// Missing info informs reviewers without changing severity.
	s.Equal(SeverityGreen, summary.Overall)
	s.Contains(summary.MissingInfo, "proof of address document not provided")
	s.Contains(summary.MissingInfo, "source of funds document not provided")
	s.Contains(summary.MissingInfo, "PEP status declared without details")
}

func (s *ScreeningSuite) TestRescreeningReplacesSummary() {
	rec := s.documentedIndividual()

	first := s.newService(&stubCheck{name: CheckSanctions, severity: SeverityAmber, reason: "list degraded"})
	_, err := first.Screen(context.Background(), rec)
	s.Require().NoError(err)

	second := s.newService(&stubCheck{name: CheckSanctions, severity: SeverityGreen})
	_, err = second.Screen(context.Background(), rec)
	s.Require().NoError(err)

	stored := s.store.summaries[rec.CaseID]
	s.Require().NotNil(stored)
	s.Equal(SeverityGreen, stored.Overall)
}

func (s *ScreeningSuite) TestScreeningEmitsAuditEvent() {
	svc := s.newService(&stubCheck{name: CheckSanctions, severity: SeverityGreen})
	rec := s.documentedIndividual()

	_, err := svc.Screen(context.Background(), rec)
	s.Require().NoError(err)

	s.Require().Len(s.auditor.events, 1)
	s.Equal(audit.ActionCaseScreened, s.auditor.events[0].Action)
	s.Equal(rec.CaseID, s.auditor.events[0].CaseID)
	s.Equal("GREEN", s.auditor.events[0].Outcome)
}
