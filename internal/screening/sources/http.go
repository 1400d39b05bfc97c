package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clearway/internal/screening/tracer"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures an HTTP source client.
type ClientConfig struct {
	ID         string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	Tracer     tracer.Tracer
}

// Client is the shared HTTP transport for screening sources.
// It normalizes wire failures and non-2xx responses into SourceError.
type Client struct {
	id      string
	baseURL string
	apiKey  string
	client  HTTPDoer
	tracer  tracer.Tracer
}

// NewClient creates a new HTTP source client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracer.NewNoop()
	}

	return &Client{
		id:      cfg.ID,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  selectHTTPClient(cfg),
		tracer:  cfg.Tracer,
	}
}

func selectHTTPClient(cfg ClientConfig) HTTPDoer {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}

	return &http.Client{
		Timeout: cfg.Timeout,
	}
}

// ID returns the source identifier.
func (c *Client) ID() string {
	return c.id
}

// postJSON sends a JSON payload to path and decodes a 200 response into out.
// Every failure mode comes back as a *SourceError.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	ctx, span := c.tracer.Start(ctx, tracer.SpanSourceCall,
		tracer.String(tracer.AttrSourceID, c.id),
	)
	err := c.doPost(ctx, path, payload, out)
	span.End(err)
	return err
}

func (c *Client) doPost(ctx context.Context, path string, payload, out any) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return NewSourceError(ErrorBadData, c.id, "failed to marshal request", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return NewSourceError(ErrorInternal, c.id, "failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return NewSourceError(ErrorTimeout, c.id, "request timeout", err)
		}
		return NewSourceError(ErrorSourceOutage, c.id, "failed to execute request", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewSourceError(ErrorBadData, c.id, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewSourceError(ErrorAuthentication, c.id,
			fmt.Sprintf("authentication failed: %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		return NewSourceError(ErrorNotFound, c.id, "record not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewSourceError(ErrorRateLimited, c.id, "rate limited", nil)
	case resp.StatusCode >= 500:
		return NewSourceError(ErrorSourceOutage, c.id,
			fmt.Sprintf("source unavailable: %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return NewSourceError(ErrorBadData, c.id,
			fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil)
	}

	if err := json.Unmarshal(respBodyBytes, out); err != nil {
		return NewSourceError(ErrorBadData, c.id, "failed to parse response", err)
	}

	return nil
}
