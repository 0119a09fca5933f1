// Package provisioning submits connection applications to the operator's
// provisioning system. Applications are owned remotely; this service only
// creates them and reads back their id.
package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"homenet/internal/feasibility"
	dErrors "homenet/pkg/domain-errors"
)

// Submission is one application to create.
type Submission struct {
	Number string
	FIO    string
	Report feasibility.Report
}

// Client creates applications.
type Client interface {
	// SubmitApplication returns the remote application id on success. A
	// rejection comes back coded submission.
	SubmitApplication(ctx context.Context, sub Submission) (string, error)
}

// HTTPClient implements Client over the provisioning REST surface.
type HTTPClient struct {
	baseURL string
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

// NewHTTPClient builds a provisioning client.
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type submitRequest struct {
	Number         string   `json:"number"`
	FIO            string   `json:"fio"`
	DistrictFiasID string   `json:"district_fias_id"`
	Technologies   []string `json:"technologies"`
}

type submitResponse struct {
	Err           bool   `json:"err"`
	Result        string `json:"result"`
	IDApplication string `json:"idApplication"`
}

func (c *HTTPClient) SubmitApplication(ctx context.Context, sub Submission) (string, error) {
	payload := submitRequest{
		Number:         sub.Number,
		FIO:            sub.FIO,
		DistrictFiasID: sub.Report.DistrictFiasID,
	}
	for _, tech := range sub.Report.Technologies {
		if tech.Available {
			payload.Technologies = append(payload.Technologies, tech.Name)
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/formingApplication", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSubmission, "submit application")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", dErrors.Newf(dErrors.CodeSubmission, "provisioning returned status %d: %s", resp.StatusCode, body)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSubmission, "decode submission response")
	}
	if out.Err {
		return "", dErrors.Newf(dErrors.CodeSubmission, "provisioning rejected application: %s", out.Result)
	}
	if out.IDApplication == "" {
		return "", dErrors.New(dErrors.CodeSubmission, "provisioning accepted application without an id")
	}
	return out.IDApplication, nil
}
