// Package geocoder wraps the third-party address-suggestion HTTP API and an
// optional redis read-through cache in front of it.
package geocoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client turns free-text queries into structured address suggestions.
type Client interface {
	Suggest(ctx context.Context, query string) ([]Suggestion, error)
}

// HTTPClient calls the suggestion service over HTTP.
type HTTPClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	log     *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *HTTPClient) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *HTTPClient) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// NewHTTPClient builds a suggestion client for the given base URL and API key.
func NewHTTPClient(baseURL, apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type suggestRequest struct {
	Query string `json:"query"`
}

type suggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest queries the suggestion service. An empty suggestion list is a valid
// response; the pipeline decides whether that is an error.
func (c *HTTPClient) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	body, err := json.Marshal(suggestRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal suggest request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/suggest/address", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build suggest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Token "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest address: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("suggest address: unexpected status %d: %s", resp.StatusCode, payload)
	}

	var out suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode suggest response: %w", err)
	}
	return out.Suggestions, nil
}
