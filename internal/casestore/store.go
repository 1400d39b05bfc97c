// Package casestore is the system of record for onboarding cases. It owns
// the persisted forms of the applicant record, the screening summary and the
// decision history, all keyed by case identifier.
//
// Write semantics per entity:
//   - applicant records are written once at submission and never mutated
//   - screening summaries are last-write-wins (re-screening replaces)
//   - decision records are append-only (every action call is logged)
package casestore

import (
	"context"

	"clearway/internal/applicant"
	"clearway/internal/decision"
	"clearway/internal/screening"
	id "clearway/pkg/domain"
)

// Store is the full case store contract. Lookups for absent cases return
// sentinel.ErrNotFound.
type Store interface {
	SaveApplicant(ctx context.Context, rec *applicant.Record) error
	FindApplicant(ctx context.Context, caseID id.CaseID) (*applicant.Record, error)

	SaveSummary(ctx context.Context, summary *screening.Summary) error
	FindSummary(ctx context.Context, caseID id.CaseID) (*screening.Summary, error)

	AppendDecision(ctx context.Context, record *decision.Record) error
	ListDecisions(ctx context.Context, caseID id.CaseID) ([]decision.Record, error)
}
