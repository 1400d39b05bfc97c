// Package notify renders and sends onboarding emails. Sending is always a
// best-effort tail step: callers log failures and carry on, so a mail outage
// never rolls back a screening or decision.
package notify

import (
	"context"

	id "clearway/pkg/domain"
)

// CaseNotice tells the reviewing admin a screened case is ready, with
// single-use decision links for each action.
type CaseNotice struct {
	AdminEmail    string
	CaseID        id.CaseID
	ClientName    string
	Overall       string
	MissingInfo   []string
	RFIs          []string
	DecisionLinks map[string]string // action -> URL
}

// DecisionNotice tells the client the outcome of their application. When
// AdminEmail is set the admin gets a copy of the outcome too.
type DecisionNotice struct {
	ClientEmail string
	AdminEmail  string
	ClientName  string
	CaseID      id.CaseID
	Action      string // approve, request or reject
	RFIs        []string
}

// Notifier sends onboarding emails.
type Notifier interface {
	// SendCaseReady emails the reviewer after screening completes.
	SendCaseReady(ctx context.Context, notice CaseNotice) error

	// SendDecision emails the client after a decision is recorded.
	SendDecision(ctx context.Context, notice DecisionNotice) error
}
