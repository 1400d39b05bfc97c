package sources

import "context"

// HTTPRegistrySource resolves entity registrations via an HTTP company-registry API.
type HTTPRegistrySource struct {
	*Client
}

// NewHTTPRegistrySource creates a registry source backed by an HTTP registry service.
func NewHTTPRegistrySource(cfg ClientConfig) *HTTPRegistrySource {
	return &HTTPRegistrySource{Client: NewClient(cfg)}
}

type registryLookupRequest struct {
	RegistrationNumber string `json:"registration_number"`
	Country            string `json:"country"`
}

// Lookup resolves an entity's registration. An unknown registration number is a
// successful result with Found=false so the caller can distinguish "not registered"
// from "registry unreachable".
func (s *HTTPRegistrySource) Lookup(ctx context.Context, registrationNumber, country string) (*RegistryResult, error) {
	var result RegistryResult
	err := s.postJSON(ctx, "/v1/lookup",
		registryLookupRequest{RegistrationNumber: registrationNumber, Country: country}, &result)
	if err != nil {
		if IsNotFound(err) {
			return &RegistryResult{Found: false}, nil
		}
		return nil, err
	}
	return &result, nil
}

var _ RegistrySource = (*HTTPRegistrySource)(nil)
