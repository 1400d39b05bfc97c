package screening

import (
	"context"
	"strconv"

	"clearway/internal/applicant"
	"clearway/internal/screening/sources"
)

// AdverseMediaCheck runs a best-effort news search on the applicant's name.
// A completed search clears the check regardless of hit count; hits are kept
// as evidence for reviewers. Only a technical failure degrades the result.
type AdverseMediaCheck struct {
	index sources.MediaSource
}

// NewAdverseMediaCheck creates an adverse media check over the given index.
func NewAdverseMediaCheck(index sources.MediaSource) *AdverseMediaCheck {
	return &AdverseMediaCheck{index: index}
}

func (c *AdverseMediaCheck) Name() string { return CheckAdverseMedia }

func (c *AdverseMediaCheck) Run(ctx context.Context, rec *applicant.Record) CheckResult {
	evidence := map[string]string{
		"index":      c.index.ID(),
		"checked_at": checkedAt(),
	}

	result, err := c.index.Search(ctx, rec.FullLegalName)
	if err != nil {
		evidence["failure"] = string(sources.GetCategory(err))
		return amber(c.Name(), "adverse media search failed", evidence)
	}

	evidence["articles"] = strconv.Itoa(result.Articles)
	if result.TopHeadline != "" {
		evidence["top_headline"] = result.TopHeadline
	}

	return green(c.Name(), "adverse media search completed", evidence)
}

var _ Check = (*AdverseMediaCheck)(nil)
