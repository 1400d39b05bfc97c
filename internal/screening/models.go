// Package screening runs the fixed set of verification checks over an
// applicant record and aggregates them into a single traffic-light verdict.
package screening

import (
	"time"

	"clearway/internal/applicant"
	id "clearway/pkg/domain"
)

// Severity is the traffic-light outcome of a check or of a whole case.
// The order is total: Green < Amber < Red.
type Severity int

const (
	SeverityGreen Severity = iota
	SeverityAmber
	SeverityRed
)

// String implements fmt.Stringer using the wire representation.
func (s Severity) String() string {
	switch s {
	case SeverityRed:
		return "RED"
	case SeverityAmber:
		return "AMBER"
	default:
		return "GREEN"
	}
}

// MarshalText encodes the severity for JSON payloads.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a severity from its wire representation.
// Unknown values decode as AMBER so a corrupted record is flagged for review
// rather than silently cleared.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "RED":
		*s = SeverityRed
	case "GREEN":
		*s = SeverityGreen
	default:
		*s = SeverityAmber
	}
	return nil
}

// Max returns the higher of two severities.
func (s Severity) Max(other Severity) Severity {
	if other > s {
		return other
	}
	return s
}

// CheckResult is the outcome of one verification check. Every check produces
// exactly one result, even on internal failure.
type CheckResult struct {
	Name     string            `json:"name"`
	Severity Severity          `json:"severity"`
	Reason   string            `json:"reason"`
	Evidence map[string]string `json:"evidence,omitempty"`
}

// Summary is the persisted outcome of one screening run. Re-screening
// replaces the prior summary for the same case (last write wins).
type Summary struct {
	CaseID      id.CaseID            `json:"case_id"`
	ClientName  string               `json:"client_name"`
	Category    applicant.Category   `json:"category"`
	Overall     Severity             `json:"overall"`
	Results     []CheckResult        `json:"results"`
	MissingInfo []string             `json:"missing_info"`
	RFIs        []string             `json:"rfis"`
	Documents   []applicant.Document `json:"documents,omitempty"`
	ScreenedAt  time.Time            `json:"screened_at"`
}

// OverallSeverity reduces a result set to the aggregate verdict: strict
// precedence RED > AMBER > GREEN, no weighting.
func OverallSeverity(results []CheckResult) Severity {
	overall := SeverityGreen
	for _, r := range results {
		overall = overall.Max(r.Severity)
	}
	return overall
}

// UBOEntry is one structured beneficial owner parsed from the free-text list
// an entity applicant provides.
type UBOEntry struct {
	Name        string  `json:"name"`
	DateOfBirth string  `json:"date_of_birth"`
	Ownership   float64 `json:"ownership_percent"`
}
