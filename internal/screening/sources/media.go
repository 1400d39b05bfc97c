package sources

import "context"

// HTTPMediaSource searches an adverse media index served over HTTP.
type HTTPMediaSource struct {
	*Client
}

// NewHTTPMediaSource creates a media source backed by an HTTP news-index service.
func NewHTTPMediaSource(cfg ClientConfig) *HTTPMediaSource {
	return &HTTPMediaSource{Client: NewClient(cfg)}
}

type mediaSearchRequest struct {
	FullName string `json:"full_name"`
}

// Search queries the index for adverse coverage of the subject.
func (s *HTTPMediaSource) Search(ctx context.Context, fullName string) (*MediaResult, error) {
	var result MediaResult
	err := s.postJSON(ctx, "/v1/search", mediaSearchRequest{FullName: fullName}, &result)
	if err != nil {
		if IsNotFound(err) {
			return &MediaResult{Articles: 0}, nil
		}
		return nil, err
	}
	return &result, nil
}

var _ MediaSource = (*HTTPMediaSource)(nil)
