package screening

import (
	"context"
	"fmt"

	"clearway/internal/applicant"
	"clearway/internal/screening/sources"
)

// EntityRegistryCheck confirms an entity applicant's registration number in
// its home company registry. Only a confirmed active registration clears the
// check; anything unverifiable stays AMBER. Uncertainty is never silently
// treated as clear.
type EntityRegistryCheck struct {
	registry sources.RegistrySource
}

// NewEntityRegistryCheck creates a registry check backed by the given source.
func NewEntityRegistryCheck(registry sources.RegistrySource) *EntityRegistryCheck {
	return &EntityRegistryCheck{registry: registry}
}

func (c *EntityRegistryCheck) Name() string { return CheckEntityRegistry }

// Applies limits the check to entity clients.
func (c *EntityRegistryCheck) Applies(rec *applicant.Record) bool { return rec.IsEntity() }

func (c *EntityRegistryCheck) Run(ctx context.Context, rec *applicant.Record) CheckResult {
	evidence := map[string]string{
		"registry":            c.registry.ID(),
		"registration_number": rec.RegistrationNumber,
		"checked_at":          checkedAt(),
	}

	if rec.RegistrationNumber == "" {
		return amber(c.Name(), "no registration number provided", evidence)
	}

	result, err := c.registry.Lookup(ctx, rec.RegistrationNumber, rec.TaxResidencyCountry)
	if err != nil {
		evidence["failure"] = string(sources.GetCategory(err))
		return amber(c.Name(), "company registry unreachable", evidence)
	}

	if !result.Found {
		return amber(c.Name(), "registration number not found in registry", evidence)
	}

	evidence["status"] = result.Status
	if result.LegalName != "" {
		evidence["legal_name"] = result.LegalName
	}

	if !result.Active() {
		return amber(c.Name(), fmt.Sprintf("registration found but not active (status %q)", result.Status), evidence)
	}

	return green(c.Name(), "active registration confirmed", evidence)
}

var _ Check = (*EntityRegistryCheck)(nil)
