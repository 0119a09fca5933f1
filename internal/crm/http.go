package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HTTPClient implements Client against the CRM's REST surface.
type HTTPClient struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// NewHTTPClient builds a CRM client.
func NewHTTPClient(baseURL, token string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Deals(ctx context.Context, status Status, providerID int64) ([]Ticket, error) {
	q := url.Values{}
	q.Set("status", string(status))
	q.Set("provider_id", strconv.FormatInt(providerID, 10))

	var out struct {
		Deals []Ticket `json:"deals"`
	}
	if err := c.do(ctx, http.MethodGet, "/deals?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return out.Deals, nil
}

func (c *HTTPClient) EditApplication(ctx context.Context, dealID int64, comment, applicationID string, newStatus Status) error {
	body := map[string]string{
		"comment": comment,
		"status":  string(newStatus),
	}
	if applicationID != "" {
		body["application_id"] = applicationID
	}
	path := fmt.Sprintf("/deals/%d/application", dealID)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("edit application for deal %d: %w", dealID, err)
	}
	return nil
}

func (c *HTTPClient) ApplicationStatuses(ctx context.Context, applicationID string) ([]ApplicationStatus, error) {
	var out struct {
		Statuses []ApplicationStatus `json:"statuses"`
	}
	path := "/applications/" + url.PathEscape(applicationID) + "/statuses"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("application statuses for %s: %w", applicationID, err)
	}
	return out.Statuses, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
