// Package eissd implements the vendor feasibility protocol: a fixed XML
// request over mutually-authenticated TLS, answered with undocumented XML.
package eissd

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"homenet/internal/platform/config"
	"homenet/internal/platform/metrics"
	dErrors "homenet/pkg/domain-errors"
	"homenet/pkg/platform/circuit"
	"homenet/pkg/platform/sentinel"
)

// Client submits feasibility requests to the vendor endpoint. Construction is
// two-phase in effect: NewClient loads the client keypair and fails fast when
// the material is unreadable, so a returned client is ready to submit. When no
// keypair is configured at all the client comes up unconfigured and Submit
// reports the endpoint as unavailable; local runs boot without vendor
// credentials the same way they boot without a database.
type Client struct {
	endpoint string
	httpc    *http.Client
	breaker  *circuit.Breaker
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

// WithHTTPClient replaces the transport entirely. Intended for tests; it
// bypasses the TLS client-certificate setup.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// NewClient builds a protocol client from immutable configuration. The
// request timeout bounds every Submit call so one slow address cannot stall
// a whole sweep.
func NewClient(cfg config.EISSDConfig, opts ...ClientOption) (*Client, error) {
	c := &Client{
		endpoint: cfg.Endpoint,
		breaker:  circuit.New("eissd", circuit.WithFailureThreshold(5), circuit.WithRetryInterval(time.Minute)),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpc == nil {
		if cfg.CertFile == "" && cfg.KeyFile == "" {
			return c, nil
		}
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.httpc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					Certificates: []tls.Certificate{cert},
					// The legacy endpoint's certificate chain does not
					// validate; kept behind an explicit flag.
					InsecureSkipVerify: cfg.InsecureSkipVerify,
				},
			},
		}
	}
	return c, nil
}

// Submit posts one feasibility request and returns the raw response body.
// Transport and TLS failures come back coded protocol_transport and are
// retryable at the scheduler layer.
func (c *Client) Submit(ctx context.Context, req Request) ([]byte, error) {
	if c.httpc == nil {
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeProtocolTransport, "vendor endpoint not configured")
	}
	if !c.breaker.Allow() {
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeProtocolTransport, "vendor endpoint circuit open")
	}

	body, err := marshalRequest(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProtocolParse, "build request body")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProtocolTransport, "build vendor request")
	}
	httpReq.Header.Set("Content-Type", "text/xml")

	start := time.Now()
	resp, err := c.httpc.Do(httpReq)
	c.metrics.ObserveEISSDDuration(time.Since(start).Seconds())
	if err != nil {
		c.recordFailure()
		return nil, dErrors.Wrap(err, dErrors.CodeProtocolTransport, "submit feasibility request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordFailure()
		return nil, dErrors.Newf(dErrors.CodeProtocolTransport, "vendor endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure()
		return nil, dErrors.Wrap(err, dErrors.CodeProtocolTransport, "read vendor response")
	}

	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.log.Info("vendor endpoint circuit closed", "breaker", c.breaker.Name())
	}
	return raw, nil
}

// Parse decodes a raw response. Exposed on the client so callers hold one
// protocol dependency.
func (c *Client) Parse(raw []byte) (Result, error) {
	return Parse(raw)
}

func (c *Client) recordFailure() {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.log.Warn("vendor endpoint circuit opened", "breaker", c.breaker.Name())
	}
}
