package sources

import "context"

// HTTPSanctionsSource screens names against a sanctions list served over HTTP.
type HTTPSanctionsSource struct {
	*Client
}

// NewHTTPSanctionsSource creates a sanctions source backed by an HTTP list service.
func NewHTTPSanctionsSource(cfg ClientConfig) *HTTPSanctionsSource {
	return &HTTPSanctionsSource{Client: NewClient(cfg)}
}

type sanctionsScreenRequest struct {
	FullName string `json:"full_name"`
}

// Screen checks whether the given full name appears on this list.
// A miss is a successful result with Listed=false, not an error.
func (s *HTTPSanctionsSource) Screen(ctx context.Context, fullName string) (*SanctionsResult, error) {
	var result SanctionsResult
	err := s.postJSON(ctx, "/v1/screen", sanctionsScreenRequest{FullName: fullName}, &result)
	if err != nil {
		if IsNotFound(err) {
			return &SanctionsResult{Listed: false, List: s.ID()}, nil
		}
		return nil, err
	}
	if result.List == "" {
		result.List = s.ID()
	}
	return &result, nil
}

var _ SanctionsSource = (*HTTPSanctionsSource)(nil)
