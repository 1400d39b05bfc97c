// Package audit captures the case audit trail: every submission, screening
// and decision leaves an event, as do failed notification attempts.
package audit

import (
	"context"
	"time"

	id "clearway/pkg/domain"
)

// Event is emitted from domain logic to capture key case actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	CaseID    id.CaseID `json:"case_id"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome,omitempty"` // overall severity or decision action
	Reason    string    `json:"reason,omitempty"`
	Email     string    `json:"email,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Audit actions recorded by the onboarding flow.
const (
	ActionCaseSubmitted      = "case_submitted"
	ActionCaseScreened       = "case_screened"
	ActionCaseDecided        = "case_decided"
	ActionNotificationFailed = "notification_failed"
)

// Store persists audit events. Events are append-only; there is no update
// or delete.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCase(ctx context.Context, caseID id.CaseID) ([]Event, error)
}
