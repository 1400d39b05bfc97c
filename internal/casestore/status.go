package casestore

import (
	"context"
	"errors"
	"time"

	"clearway/internal/applicant"
	"clearway/internal/decision"
	"clearway/internal/screening"
	id "clearway/pkg/domain"
	"clearway/pkg/sentinel"
)

// CaseState is the derived position of a case in the onboarding flow. It is
// never stored: it is computed from what the case store holds.
type CaseState string

const (
	StateSubmitted     CaseState = "submitted"
	StateScreened      CaseState = "screened"
	StateApproved      CaseState = "approved"
	StateInfoRequested CaseState = "info_requested"
	StateRejected      CaseState = "rejected"
)

// TimelineEntry is one step of a case's history.
type TimelineEntry struct {
	At     time.Time `json:"at"`
	Event  string    `json:"event"`
	Detail string    `json:"detail,omitempty"`
}

// ChecklistItem is one check's outcome on the reviewer checklist.
type ChecklistItem struct {
	Check    string `json:"check"`
	Severity string `json:"severity"`
	Reason   string `json:"reason,omitempty"`
}

// CaseStatus is the answer to a case status query.
type CaseStatus struct {
	CaseID      id.CaseID       `json:"caseId"`
	ClientName  string          `json:"clientName"`
	State       CaseState       `json:"status"`
	Overall     string          `json:"overallStatus,omitempty"`
	Timeline    []TimelineEntry `json:"timeline"`
	Checklist   []ChecklistItem `json:"checklist"`
	MissingInfo []string        `json:"missingInfo"`
	PendingRFIs []string        `json:"pendingRfis"`
}

// LoadStatus derives the status of one case from the store. The applicant
// record is required; summary and decisions are optional stages.
func LoadStatus(ctx context.Context, store Store, caseID id.CaseID) (*CaseStatus, error) {
	rec, err := store.FindApplicant(ctx, caseID)
	if err != nil {
		return nil, err
	}

	summary, err := store.FindSummary(ctx, caseID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	decisions, err := store.ListDecisions(ctx, caseID)
	if err != nil {
		return nil, err
	}

	return deriveStatus(rec, summary, decisions), nil
}

// deriveStatus folds the three record kinds into state, timeline, checklist
// and pending RFIs. The earliest decision is authoritative; later ones still
// appear on the timeline.
func deriveStatus(rec *applicant.Record, summary *screening.Summary, decisions []decision.Record) *CaseStatus {
	status := &CaseStatus{
		CaseID:      rec.CaseID,
		ClientName:  rec.FullLegalName,
		State:       StateSubmitted,
		Checklist:   []ChecklistItem{},
		MissingInfo: []string{},
		PendingRFIs: []string{},
		Timeline: []TimelineEntry{
			{At: rec.SubmittedAt, Event: "submitted"},
		},
	}

	if summary != nil {
		status.State = StateScreened
		status.Overall = summary.Overall.String()
		for _, result := range summary.Results {
			status.Checklist = append(status.Checklist, ChecklistItem{
				Check:    result.Name,
				Severity: result.Severity.String(),
				Reason:   result.Reason,
			})
		}
		status.MissingInfo = summary.MissingInfo
		status.PendingRFIs = summary.RFIs
		status.Timeline = append(status.Timeline, TimelineEntry{
			At:     summary.ScreenedAt,
			Event:  "screened",
			Detail: summary.Overall.String(),
		})
	}

	for _, d := range decisions {
		status.Timeline = append(status.Timeline, TimelineEntry{
			At:     d.DecidedAt,
			Event:  "decided",
			Detail: string(d.Action),
		})
	}

	if first := decision.Authoritative(decisions); first != nil {
		switch first.Action {
		case decision.ActionApprove:
			status.State = StateApproved
			status.PendingRFIs = []string{}
		case decision.ActionReject:
			status.State = StateRejected
			status.PendingRFIs = []string{}
		case decision.ActionRequest:
			status.State = StateInfoRequested
		}
	}

	return status
}
