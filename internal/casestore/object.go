package casestore

import (
	"context"
	"encoding/json"
	"fmt"

	"clearway/internal/applicant"
	"clearway/internal/decision"
	"clearway/internal/objectstore"
	"clearway/internal/screening"
	id "clearway/pkg/domain"
)

const jsonContentType = "application/json"

// ObjectStore persists case records as JSON objects in a blob store, one
// object per record under case-scoped prefixes. Decision objects carry a
// nanosecond timestamp in the key, which both prevents overwrites and makes
// a prefix listing chronological.
type ObjectStore struct {
	objects objectstore.ObjectStore
}

// NewObjectStore creates a case store over the given blob store.
func NewObjectStore(objects objectstore.ObjectStore) *ObjectStore {
	return &ObjectStore{objects: objects}
}

func (s *ObjectStore) SaveApplicant(ctx context.Context, rec *applicant.Record) error {
	return s.put(ctx, objectstore.SubmissionKey(rec.CaseID), rec)
}

func (s *ObjectStore) FindApplicant(ctx context.Context, caseID id.CaseID) (*applicant.Record, error) {
	var rec applicant.Record
	if err := s.get(ctx, objectstore.SubmissionKey(caseID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *ObjectStore) SaveSummary(ctx context.Context, summary *screening.Summary) error {
	return s.put(ctx, objectstore.SummaryKey(summary.CaseID), summary)
}

func (s *ObjectStore) FindSummary(ctx context.Context, caseID id.CaseID) (*screening.Summary, error) {
	var summary screening.Summary
	if err := s.get(ctx, objectstore.SummaryKey(caseID), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *ObjectStore) AppendDecision(ctx context.Context, record *decision.Record) error {
	key := objectstore.DecisionKey(record.CaseID, string(record.Action), record.DecidedAt)
	return s.put(ctx, key, record)
}

func (s *ObjectStore) ListDecisions(ctx context.Context, caseID id.CaseID) ([]decision.Record, error) {
	keys, err := s.objects.ListObjects(ctx, objectstore.DecisionPrefix(caseID))
	if err != nil {
		return nil, fmt.Errorf("list decision objects: %w", err)
	}

	records := make([]decision.Record, 0, len(keys))
	for _, key := range keys {
		var record decision.Record
		if err := s.get(ctx, key, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *ObjectStore) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.objects.PutObject(ctx, key, jsonContentType, data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *ObjectStore) get(ctx context.Context, key string, v any) error {
	data, err := s.objects.GetObject(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

var _ Store = (*ObjectStore)(nil)
