package decision

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clearway/internal/applicant"
	"clearway/internal/audit"
	"clearway/internal/decision/tokens"
	"clearway/internal/notify"
	"clearway/internal/screening"
	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
	"clearway/pkg/sentinel"
)

// mockCaseStore keeps case state in memory for service tests.
type mockCaseStore struct {
	mu         sync.Mutex
	applicants map[id.CaseID]*applicant.Record
	summaries  map[id.CaseID]*screening.Summary
	decisions  map[id.CaseID][]Record
}

func newMockCaseStore() *mockCaseStore {
	return &mockCaseStore{
		applicants: make(map[id.CaseID]*applicant.Record),
		summaries:  make(map[id.CaseID]*screening.Summary),
		decisions:  make(map[id.CaseID][]Record),
	}
}

func (m *mockCaseStore) FindApplicant(_ context.Context, caseID id.CaseID) (*applicant.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.applicants[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec, nil
}

func (m *mockCaseStore) FindSummary(_ context.Context, caseID id.CaseID) (*screening.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary, ok := m.summaries[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return summary, nil
}

func (m *mockCaseStore) AppendDecision(_ context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions[record.CaseID] = append(m.decisions[record.CaseID], *record)
	return nil
}

func (m *mockCaseStore) ListDecisions(_ context.Context, caseID id.CaseID) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.decisions[caseID]...), nil
}

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

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

type DecisionSuite struct {
	suite.Suite
	store    *mockCaseStore
	tokens   *tokens.Service
	notifier *notify.MemoryNotifier
	auditor  *recordingAuditor
	service  *Service
	caseID   id.CaseID
}

func TestDecisionSuite(t *testing.T) {
	suite.Run(t, new(DecisionSuite))
}

func (s *DecisionSuite) SetupTest() {
	s.store = newMockCaseStore()
	s.tokens = tokens.New("test-key", time.Hour, tokens.NewMemoryUsageStore())
	s.notifier = notify.NewMemoryNotifier()
	s.auditor = &recordingAuditor{}
	s.service = New(s.store, s.tokens, s.notifier, s.auditor,
		WithAdminEmail("compliance@clearway.example"))

	s.caseID = id.NewCaseID()
	s.store.applicants[s.caseID] = &applicant.Record{
		CaseID:        s.caseID,
		Email:         "jane@example.com",
		Category:      applicant.CategoryIndividual,
		FullLegalName: "Jane Doe",
	}
}

func (s *DecisionSuite) issue(action Action) string {
	token, err := s.tokens.Issue(s.caseID, string(action))
	s.Require().NoError(err)
	return token
}

func (s *DecisionSuite) TestDecideRecordsAndNotifies() {
	outcome, err := s.service.Decide(context.Background(), Request{
		CaseID:      s.caseID,
		Action:      ActionApprove,
		Token:       s.issue(ActionApprove),
		RequesterIP: "203.0.113.9",
	})
	s.Require().NoError(err)

	s.True(outcome.Success)
	s.Equal("jane@example.com", outcome.ClientEmail)

	records := s.store.decisions[s.caseID]
	s.Require().Len(records, 1)
	s.False(records[0].ID.IsNil())
	s.Equal(ActionApprove, records[0].Action)
	s.Equal("203.0.113.9", records[0].RequesterIP)
	s.False(records[0].DecidedAt.IsZero())

	s.Require().Len(s.notifier.Decisions, 1)
	s.Equal("jane@example.com", s.notifier.Decisions[0].ClientEmail)
	s.Equal("compliance@clearway.example", s.notifier.Decisions[0].AdminEmail)
	s.Contains(s.auditor.actions(), audit.ActionCaseDecided)
}

func (s *DecisionSuite) TestRepeatedDecisionsAppend() {
	_, err := s.service.Decide(context.Background(), Request{
		CaseID: s.caseID, Action: ActionApprove, Token: s.issue(ActionApprove),
	})
	s.Require().NoError(err)

	_, err = s.service.Decide(context.Background(), Request{
		CaseID: s.caseID, Action: ActionApprove, Token: s.issue(ActionApprove),
	})
	s.Require().NoError(err)

	// Every action call is logged; nothing is overwritten.
	s.Require().Len(s.store.decisions[s.caseID], 2)
	s.NotEqual(s.store.decisions[s.caseID][0].ID, s.store.decisions[s.caseID][1].ID)

	first := Authoritative(s.store.decisions[s.caseID])
	s.Require().NotNil(first)
	s.Equal(s.store.decisions[s.caseID][0].DecidedAt, first.DecidedAt)
}

func (s *DecisionSuite) TestUnknownCaseWritesNothing() {
	_, err := s.service.Decide(context.Background(), Request{
		CaseID: id.NewCaseID(), Action: ActionReject, Token: "whatever",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Empty(s.store.decisions)
	s.Empty(s.notifier.Decisions)
}

func (s *DecisionSuite) TestCaseWithoutEmailIsNotFound() {
	caseID := id.NewCaseID()
	s.store.applicants[caseID] = &applicant.Record{
		CaseID:        caseID,
		Category:      applicant.CategoryEntity,
		FullLegalName: "No Mail Ltd",
	}
	token, err := s.tokens.Issue(caseID, string(ActionApprove))
	s.Require().NoError(err)

	_, err = s.service.Decide(context.Background(), Request{
		CaseID: caseID, Action: ActionApprove, Token: token,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Empty(s.store.decisions)
	s.Empty(s.notifier.Decisions)
}

func (s *DecisionSuite) TestNoAdminConfiguredSkipsCopy() {
	service := New(s.store, s.tokens, s.notifier, s.auditor)

	_, err := service.Decide(context.Background(), Request{
		CaseID: s.caseID, Action: ActionReject, Token: s.issue(ActionReject),
	})
	s.Require().NoError(err)

	s.Require().Len(s.notifier.Decisions, 1)
	s.Equal("jane@example.com", s.notifier.Decisions[0].ClientEmail)
	s.Empty(s.notifier.Decisions[0].AdminEmail)
}

func (s *DecisionSuite) TestReusedTokenIsRejected() {
	token := s.issue(ActionReject)

	_, err := s.service.Decide(context.Background(), Request{
		CaseID: s.caseID, Action: ActionReject, Token: token,
	})
	s.Require().NoError(err)

	_, err = s.service.Decide(context.Background(), Request{
		CaseID: s.caseID, Action: ActionReject, Token: token,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTokenUsed))
	s.Len(s.store.decisions[s.caseID], 1)
}

func (s *DecisionSuite) TestTokenForOtherActionIsRejected() {
	_, err := s.service.Decide(context.Background(), Request{
		CaseID: s.caseID, Action: ActionReject, Token: s.issue(ActionApprove),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTokenInvalid))
	s.Empty(s.store.decisions[s.caseID])
}

func (s *DecisionSuite) TestRequestDecisionCarriesRFIs() {
	s.store.summaries[s.caseID] = &screening.Summary{
		CaseID: s.caseID,
		RFIs:   []string{"pep: politically exposed person match for Jane Doe"},
	}

	_, err := s.service.Decide(context.Background(), Request{
		CaseID: s.caseID, Action: ActionRequest, Token: s.issue(ActionRequest),
	})
	s.Require().NoError(err)

	s.Require().Len(s.notifier.Decisions, 1)
	s.Len(s.notifier.Decisions[0].RFIs, 1)
}

func (s *DecisionSuite) TestNotifyFailureDoesNotFailDecision() {
	s.notifier.Err = assertErr{}

	outcome, err := s.service.Decide(context.Background(), Request{
		CaseID: s.caseID, Action: ActionApprove, Token: s.issue(ActionApprove),
	})
	s.Require().NoError(err)
	s.True(outcome.Success)
	s.Len(s.store.decisions[s.caseID], 1)
	s.Contains(s.auditor.actions(), audit.ActionNotificationFailed)
}

type assertErr struct{}

func (assertErr) Error() string { return "mail API down" }

func TestParseAction(t *testing.T) {
	for _, valid := range []string{"approve", "request", "reject"} {
		if _, err := ParseAction(valid); err != nil {
			t.Fatalf("ParseAction(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseAction("escalate"); !dErrors.HasCode(err, dErrors.CodeInvalidAction) {
		t.Fatalf("expected invalid action error, got %v", err)
	}
}
