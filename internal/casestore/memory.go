package casestore

import (
	"context"
	"sync"

	"clearway/internal/applicant"
	"clearway/internal/decision"
	"clearway/internal/screening"
	id "clearway/pkg/domain"
	"clearway/pkg/sentinel"
)

// MemoryStore keeps all case state in memory. Suitable for development and
// tests; everything is copied on the way in and out so callers can never
// mutate stored state.
type MemoryStore struct {
	mu         sync.RWMutex
	applicants map[id.CaseID]applicant.Record
	summaries  map[id.CaseID]screening.Summary
	decisions  map[id.CaseID][]decision.Record
}

// NewMemoryStore creates an empty in-memory case store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		applicants: make(map[id.CaseID]applicant.Record),
		summaries:  make(map[id.CaseID]screening.Summary),
		decisions:  make(map[id.CaseID][]decision.Record),
	}
}

// SaveApplicant stores the submitted record.
func (s *MemoryStore) SaveApplicant(_ context.Context, rec *applicant.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *rec
	stored.Documents = append([]applicant.Document(nil), rec.Documents...)
	s.applicants[rec.CaseID] = stored
	return nil
}

// FindApplicant returns a copy of the stored record.
func (s *MemoryStore) FindApplicant(_ context.Context, caseID id.CaseID) (*applicant.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.applicants[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := stored
	out.Documents = append([]applicant.Document(nil), stored.Documents...)
	return &out, nil
}

// SaveSummary stores the screening summary, replacing any prior one for the
// case. Last write wins.
func (s *MemoryStore) SaveSummary(_ context.Context, summary *screening.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *summary
	stored.Results = append([]screening.CheckResult(nil), summary.Results...)
	stored.MissingInfo = append([]string(nil), summary.MissingInfo...)
	stored.RFIs = append([]string(nil), summary.RFIs...)
	stored.Documents = append([]applicant.Document(nil), summary.Documents...)
	s.summaries[summary.CaseID] = stored
	return nil
}

// FindSummary returns a copy of the latest summary for the case.
func (s *MemoryStore) FindSummary(_ context.Context, caseID id.CaseID) (*screening.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.summaries[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := stored
	out.Results = append([]screening.CheckResult(nil), stored.Results...)
	out.MissingInfo = append([]string(nil), stored.MissingInfo...)
	out.RFIs = append([]string(nil), stored.RFIs...)
	out.Documents = append([]applicant.Document(nil), stored.Documents...)
	return &out, nil
}

// AppendDecision adds a decision record to the case history. Nothing is ever
// overwritten.
func (s *MemoryStore) AppendDecision(_ context.Context, record *decision.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[record.CaseID] = append(s.decisions[record.CaseID], *record)
	return nil
}

// ListDecisions returns a copy of the decision history, oldest first.
func (s *MemoryStore) ListDecisions(_ context.Context, caseID id.CaseID) ([]decision.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]decision.Record(nil), s.decisions[caseID]...), nil
}

var _ Store = (*MemoryStore)(nil)
