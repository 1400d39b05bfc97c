package sources

import "context"

// HTTPPEPSource looks people up in a PEP register served over HTTP.
type HTTPPEPSource struct {
	*Client
}

// NewHTTPPEPSource creates a PEP source backed by an HTTP register service.
func NewHTTPPEPSource(cfg ClientConfig) *HTTPPEPSource {
	return &HTTPPEPSource{Client: NewClient(cfg)}
}

type pepScreenRequest struct {
	FullName string `json:"full_name"`
	Country  string `json:"country,omitempty"`
}

// Screen checks whether the given person appears in the register.
// An absent record means not politically exposed, not an error.
func (s *HTTPPEPSource) Screen(ctx context.Context, fullName, country string) (*PEPResult, error) {
	var result PEPResult
	err := s.postJSON(ctx, "/v1/screen", pepScreenRequest{FullName: fullName, Country: country}, &result)
	if err != nil {
		if IsNotFound(err) {
			return &PEPResult{Matched: false}, nil
		}
		return nil, err
	}
	return &result, nil
}

var _ PEPSource = (*HTTPPEPSource)(nil)
