// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "clearway/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a CaseID where a DecisionID is expected.
type (
	CaseID     uuid.UUID
	DecisionID uuid.UUID
)

// NewCaseID generates a fresh case identifier.
func NewCaseID() CaseID { return CaseID(uuid.New()) }

// NewDecisionID generates a fresh decision record identifier.
func NewDecisionID() DecisionID { return DecisionID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseCaseID(s string) (CaseID, error) {
	id, err := parseUUID(s, "case ID")
	return CaseID(id), err
}

func ParseDecisionID(s string) (DecisionID, error) {
	id, err := parseUUID(s, "decision ID")
	return DecisionID(id), err
}

// String methods - for logging, storage keys, and debugging.

func (id CaseID) String() string     { return uuid.UUID(id).String() }
func (id DecisionID) String() string { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id CaseID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DecisionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText makes IDs usable as JSON object values and map keys.

func (id CaseID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *CaseID) UnmarshalText(b []byte) error {
	parsed, err := ParseCaseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id DecisionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *DecisionID) UnmarshalText(b []byte) error {
	parsed, err := ParseDecisionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// parseUUID is the shared validation logic.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must be a valid UUID")
	}
	return id, nil
}
