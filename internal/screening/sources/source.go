// Package sources defines the external data sources consulted during screening
// and the HTTP adapters that talk to them.
//
// Each source kind gets a small, purpose-built interface so checks depend only on
// the lookup they actually perform. All failures are normalized into SourceError
// so callers can classify them without knowing the transport.
package sources

import "context"

// SanctionsResult is the outcome of screening a name against one sanctions list.
type SanctionsResult struct {
	Listed      bool   `json:"listed"`
	List        string `json:"list"`
	MatchedName string `json:"matched_name,omitempty"`
}

// SanctionsSource screens a name against a single sanctions list.
type SanctionsSource interface {
	// ID identifies the list behind this source, e.g. "ofac" or "eu-consolidated".
	ID() string

	// Screen checks whether the given full name appears on the list.
	Screen(ctx context.Context, fullName string) (*SanctionsResult, error)
}

// PEPResult is the outcome of a politically-exposed-person lookup.
type PEPResult struct {
	Matched      bool   `json:"matched"`
	Position     string `json:"position,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// PEPSource looks a person up in a register of politically exposed persons.
type PEPSource interface {
	ID() string
	Screen(ctx context.Context, fullName, country string) (*PEPResult, error)
}

// RegistryResult is the outcome of a company-registry lookup.
type RegistryResult struct {
	Found     bool   `json:"found"`
	Status    string `json:"status,omitempty"` // "active", "dissolved", or registry-specific
	LegalName string `json:"legal_name,omitempty"`
}

// Active reports whether the registry returned a conclusive active registration.
func (r *RegistryResult) Active() bool {
	return r.Found && r.Status == "active"
}

// RegistrySource resolves an entity's registration in its home company registry.
type RegistrySource interface {
	ID() string
	Lookup(ctx context.Context, registrationNumber, country string) (*RegistryResult, error)
}

// MediaResult is the outcome of an adverse media search.
type MediaResult struct {
	Articles    int    `json:"articles"`
	TopHeadline string `json:"top_headline,omitempty"`
}

// MediaSource searches news coverage for adverse mentions of a subject.
type MediaSource interface {
	ID() string
	Search(ctx context.Context, fullName string) (*MediaResult, error)
}
