package screening

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearway/internal/applicant"
	"clearway/internal/screening/sources"
)

// Stub sources with scriptable outcomes.

type stubSanctionsSource struct {
	id     string
	listed bool
	err    error
}

func (s *stubSanctionsSource) ID() string { return s.id }

func (s *stubSanctionsSource) Screen(_ context.Context, _ string) (*sources.SanctionsResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &sources.SanctionsResult{Listed: s.listed, List: s.id, MatchedName: "MATCHED NAME"}, nil
}

type stubPEPSource struct {
	matched bool
	err     error
}

func (s *stubPEPSource) ID() string { return "pep-register" }

func (s *stubPEPSource) Screen(_ context.Context, _, _ string) (*sources.PEPResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &sources.PEPResult{Matched: s.matched, Position: "Minister"}, nil
}

type stubRegistrySource struct {
	result *sources.RegistryResult
	err    error
}

func (s *stubRegistrySource) ID() string { return "companies-office" }

func (s *stubRegistrySource) Lookup(_ context.Context, _, _ string) (*sources.RegistryResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubMediaSource struct {
	articles int
	err      error
}

func (s *stubMediaSource) ID() string { return "news-index" }

func (s *stubMediaSource) Search(_ context.Context, _ string) (*sources.MediaResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &sources.MediaResult{Articles: s.articles}, nil
}

var errOutage = sources.NewSourceError(sources.ErrorSourceOutage, "stub", "down", errors.New("connection refused"))

func individualRecord() *applicant.Record {
	return &applicant.Record{
		Email:               "jane@example.com",
		Category:            applicant.CategoryIndividual,
		FullLegalName:       "Jane Doe",
		TaxResidencyCountry: "FR",
		TIN:                 "12345",
		PEPStatus:           applicant.PEPNo,
		Nationality:         "FR",
	}
}

func entityRecord() *applicant.Record {
	return &applicant.Record{
		Email:               "ops@acme.example",
		Category:            applicant.CategoryEntity,
		FullLegalName:       "Acme Holdings Ltd",
		TaxResidencyCountry: "IE",
		TIN:                 "IE1234567",
		PEPStatus:           applicant.PEPNo,
		RegistrationNumber:  "IE123456",
		SignatoryName:       "Mary Murphy",
		UBOListText:         "Mary Murphy | 1975-02-02 | 60%\nSean Murphy | 1978-03-03 | 40%",
	}
}

func TestSanctionsCheck(t *testing.T) {
	tests := []struct {
		name     string
		lists    []sources.SanctionsSource
		expected Severity
	}{
		{
			name: "no match on any list is green",
			lists: []sources.SanctionsSource{
				&stubSanctionsSource{id: "ofac"},
				&stubSanctionsSource{id: "eu-consolidated"},
			},
			expected: SeverityGreen,
		},
		{
			name: "match on one list is red",
			lists: []sources.SanctionsSource{
				&stubSanctionsSource{id: "ofac"},
				&stubSanctionsSource{id: "eu-consolidated", listed: true},
			},
			expected: SeverityRed,
		},
		{
			name: "all lists down is green, not a block",
			lists: []sources.SanctionsSource{
				&stubSanctionsSource{id: "ofac", err: errOutage},
				&stubSanctionsSource{id: "eu-consolidated", err: errOutage},
			},
			expected: SeverityGreen,
		},
		{
			name: "match still wins when another list is down",
			lists: []sources.SanctionsSource{
				&stubSanctionsSource{id: "ofac", err: errOutage},
				&stubSanctionsSource{id: "eu-consolidated", listed: true},
			},
			expected: SeverityRed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewSanctionsCheck(tt.lists).Run(context.Background(), individualRecord())
			assert.Equal(t, CheckSanctions, result.Name)
			assert.Equal(t, tt.expected, result.Severity)
		})
	}
}

func TestPEPCheck(t *testing.T) {
	t.Run("no match is green", func(t *testing.T) {
		result := NewPEPCheck(&stubPEPSource{}).Run(context.Background(), individualRecord())
		assert.Equal(t, SeverityGreen, result.Severity)
	})

	t.Run("match needs review", func(t *testing.T) {
		result := NewPEPCheck(&stubPEPSource{matched: true}).Run(context.Background(), individualRecord())
		assert.Equal(t, SeverityAmber, result.Severity)
		assert.Contains(t, result.Reason, "politically exposed")
	})

	t.Run("register failure degrades to amber", func(t *testing.T) {
		result := NewPEPCheck(&stubPEPSource{err: errOutage}).Run(context.Background(), individualRecord())
		assert.Equal(t, SeverityAmber, result.Severity)
		assert.Contains(t, result.Reason, "unreachable")
	})
}

func TestEntityRegistryCheck(t *testing.T) {
	tests := []struct {
		name     string
		source   *stubRegistrySource
		expected Severity
	}{
		{"active registration is green", &stubRegistrySource{result: &sources.RegistryResult{Found: true, Status: "active"}}, SeverityGreen},
		{"dissolved registration is amber", &stubRegistrySource{result: &sources.RegistryResult{Found: true, Status: "dissolved"}}, SeverityAmber},
		{"unknown number is amber", &stubRegistrySource{result: &sources.RegistryResult{Found: false}}, SeverityAmber},
		{"registry outage is amber, never green", &stubRegistrySource{err: errOutage}, SeverityAmber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewEntityRegistryCheck(tt.source).Run(context.Background(), entityRecord())
			assert.Equal(t, tt.expected, result.Severity)
		})
	}

	t.Run("missing registration number is amber", func(t *testing.T) {
		rec := entityRecord()
		rec.RegistrationNumber = ""
		result := NewEntityRegistryCheck(&stubRegistrySource{}).Run(context.Background(), rec)
		assert.Equal(t, SeverityAmber, result.Severity)
	})

	t.Run("only applies to entities", func(t *testing.T) {
		check := NewEntityRegistryCheck(&stubRegistrySource{})
		assert.True(t, check.Applies(entityRecord()))
		assert.False(t, check.Applies(individualRecord()))
	})
}

func TestTaxIDFormatCheck(t *testing.T) {
	tests := []struct {
		name     string
		tin      string
		expected Severity
	}{
		{"absent tin is red", "", SeverityRed},
		{"whitespace tin is red", "   ", SeverityRed},
		{"too short tin is red", "1234", SeverityRed},
		{"five characters passes", "12345", SeverityGreen},
		{"separators are ignored", "12-34", SeverityRed},
		{"long tin passes", "FR 12 345 678 901", SeverityGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := individualRecord()
			rec.TIN = tt.tin
			result := NewTaxIDFormatCheck().Run(context.Background(), rec)
			assert.Equal(t, tt.expected, result.Severity)
		})
	}
}

type stubResolver struct {
	records []*net.MX
	err     error
}

func (r *stubResolver) LookupMX(_ context.Context, _ string) ([]*net.MX, error) {
	return r.records, r.err
}

func TestEmailDomainCheck(t *testing.T) {
	t.Run("malformed address is red", func(t *testing.T) {
		rec := individualRecord()
		rec.Email = "not-an-address"
		result := NewEmailDomainCheck(&stubResolver{}).Run(context.Background(), rec)
		assert.Equal(t, SeverityRed, result.Severity)
	})

	t.Run("resolvable mx record is green", func(t *testing.T) {
		resolver := &stubResolver{records: []*net.MX{{Host: "mail.example.com.", Pref: 10}}}
		result := NewEmailDomainCheck(resolver).Run(context.Background(), individualRecord())
		assert.Equal(t, SeverityGreen, result.Severity)
		assert.Equal(t, "example.com", result.Evidence["domain"])
	})

	t.Run("nxdomain is amber", func(t *testing.T) {
		resolver := &stubResolver{err: &net.DNSError{IsNotFound: true}}
		result := NewEmailDomainCheck(resolver).Run(context.Background(), individualRecord())
		assert.Equal(t, SeverityAmber, result.Severity)
	})

	t.Run("lookup failure is amber", func(t *testing.T) {
		resolver := &stubResolver{err: &net.DNSError{IsTimeout: true}}
		result := NewEmailDomainCheck(resolver).Run(context.Background(), individualRecord())
		assert.Equal(t, SeverityAmber, result.Severity)
		assert.Contains(t, result.Reason, "inconclusive")
	})
}

func TestAdverseMediaCheck(t *testing.T) {
	t.Run("completed search is green even with hits", func(t *testing.T) {
		result := NewAdverseMediaCheck(&stubMediaSource{articles: 4}).Run(context.Background(), individualRecord())
		assert.Equal(t, SeverityGreen, result.Severity)
		assert.Equal(t, "4", result.Evidence["articles"])
	})

	t.Run("technical failure is amber", func(t *testing.T) {
		result := NewAdverseMediaCheck(&stubMediaSource{err: errOutage}).Run(context.Background(), individualRecord())
		assert.Equal(t, SeverityAmber, result.Severity)
	})
}

func TestUBOCheck(t *testing.T) {
	cleanLists := []sources.SanctionsSource{&stubSanctionsSource{id: "ofac"}}

	t.Run("owners summing to 100 and screening clear is green", func(t *testing.T) {
		result := NewUBOCheck(cleanLists, &stubPEPSource{}).Run(context.Background(), entityRecord())
		assert.Equal(t, SeverityGreen, result.Severity)
		assert.Equal(t, "100.0", result.Evidence["ownership_total"])
	})

	t.Run("no parseable owners is amber", func(t *testing.T) {
		rec := entityRecord()
		rec.UBOListText = "  \n not | parseable"
		result := NewUBOCheck(cleanLists, &stubPEPSource{}).Run(context.Background(), rec)
		require.Equal(t, SeverityAmber, result.Severity)
		assert.Equal(t, "no UBO information provided", result.Reason)
	})

	t.Run("ownership short of 100 is amber with total in reason", func(t *testing.T) {
		rec := entityRecord()
		rec.UBOListText = "Mary Murphy | 1975-02-02 | 70%"
		result := NewUBOCheck(cleanLists, &stubPEPSource{}).Run(context.Background(), rec)
		require.Equal(t, SeverityAmber, result.Severity)
		assert.Contains(t, result.Reason, "70")
	})

	t.Run("sanctioned owner is red", func(t *testing.T) {
		lists := []sources.SanctionsSource{&stubSanctionsSource{id: "ofac", listed: true}}
		result := NewUBOCheck(lists, &stubPEPSource{}).Run(context.Background(), entityRecord())
		assert.Equal(t, SeverityRed, result.Severity)
	})

	t.Run("politically exposed owner is amber", func(t *testing.T) {
		result := NewUBOCheck(cleanLists, &stubPEPSource{matched: true}).Run(context.Background(), entityRecord())
		assert.Equal(t, SeverityAmber, result.Severity)
		assert.Contains(t, result.Reason, "Mary Murphy")
	})

	t.Run("only applies to entities", func(t *testing.T) {
		check := NewUBOCheck(cleanLists, &stubPEPSource{})
		assert.False(t, check.Applies(individualRecord()))
	})
}
