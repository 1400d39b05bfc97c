// Package decision records human decisions on screened cases and notifies
// the client. Decision records are append-only: every action taken is logged,
// and the earliest record is the operationally authoritative one.
package decision

import (
	"time"

	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
)

// Action is one of the three decisions a reviewer can take.
type Action string

const (
	ActionApprove Action = "approve"
	ActionRequest Action = "request"
	ActionReject  Action = "reject"
)

// ParseAction validates a raw action string. Anything outside the fixed set
// is rejected before any persistence happens.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionRequest, ActionReject:
		return Action(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidAction, "action must be approve, request or reject")
	}
}

// Record is one decision taken on a case. Never mutated or deleted.
type Record struct {
	ID          id.DecisionID `json:"id"`
	CaseID      id.CaseID     `json:"case_id"`
	Action      Action        `json:"action"`
	Token       string        `json:"token"`
	DecidedAt   time.Time     `json:"decided_at"`
	RequesterIP string        `json:"requester_ip,omitempty"`
	UserAgent   string        `json:"user_agent,omitempty"`
}

// Authoritative returns the earliest decision from an append-only history,
// or nil if the case is undecided. Later records remain in the log for
// replay detection but do not change the outcome.
func Authoritative(records []Record) *Record {
	var first *Record
	for i := range records {
		if first == nil || records[i].DecidedAt.Before(first.DecidedAt) {
			first = &records[i]
		}
	}
	return first
}

// Outcome is returned to the decision endpoint caller.
type Outcome struct {
	Success     bool      `json:"success"`
	CaseID      id.CaseID `json:"caseId"`
	Action      Action    `json:"action"`
	ClientEmail string    `json:"clientEmail"`
}
