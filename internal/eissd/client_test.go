package eissd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homenet/internal/platform/config"
	dErrors "homenet/pkg/domain-errors"
	"homenet/pkg/platform/circuit"
	"homenet/pkg/platform/sentinel"
)

func testClient(t *testing.T, srvURL string, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(&http.Client{Timeout: 2 * time.Second})}, opts...)
	c, err := NewClient(config.EISSDConfig{Endpoint: srvURL + "/xmlInterface"}, opts...)
	require.NoError(t, err)
	return c
}

func TestClient_Submit(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`<response><GetTechCapabilityResult>
			<response><TechName>PSTN</TechName><Res>Y</Res></response>
		</GetTechCapabilityResult></response>`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	raw, err := c.Submit(context.Background(), Request{
		ID:         "req-1",
		Timestamp:  time.Date(2026, 8, 29, 12, 30, 45, 999, time.FixedZone("YEKT", 5*3600)),
		RegionCode: "72",
		DistrictID: 500,
		StreetID:   900,
		HouseID:    1200,
	})
	require.NoError(t, err)

	assert.Equal(t, "text/xml", gotContentType)
	body := string(gotBody)
	assert.Contains(t, body, `<request id="req-1">`)
	assert.Contains(t, body, `date="2026-08-29T12:30:45+05:00"`)
	assert.Contains(t, body, "<RegionId>72</RegionId>")
	assert.Contains(t, body, "<CityId>500</CityId>")
	assert.Contains(t, body, "<StreetId>900</StreetId>")
	assert.Contains(t, body, "<HouseId>1200</HouseId>")
	assert.Contains(t, body, "<Flat>0</Flat>")
	assert.Contains(t, body, "<SvcClassId>2</SvcClassId>")

	result, err := c.Parse(raw)
	require.NoError(t, err)
	assert.True(t, result.Feasible())
}

func TestClient_Submit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := testClient(t, srv.URL)
	_, err := c.Submit(context.Background(), Request{ID: "req-1", Timestamp: time.Now()})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeProtocolTransport))
}

func TestClient_Submit_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.Submit(context.Background(), Request{ID: "req-1", Timestamp: time.Now()})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeProtocolTransport))
}

func TestClient_Submit_CircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	breaker := circuit.New("eissd",
		circuit.WithFailureThreshold(2),
		circuit.WithRetryInterval(time.Hour))
	c := testClient(t, srv.URL, WithBreaker(breaker))

	ctx := context.Background()
	_, err := c.Submit(ctx, Request{ID: "r1", Timestamp: time.Now()})
	require.Error(t, err)
	_, err = c.Submit(ctx, Request{ID: "r2", Timestamp: time.Now()})
	require.Error(t, err)
	assert.True(t, breaker.IsOpen())

	// The breaker allows one probe after opening, then rejects immediately.
	_, _ = c.Submit(ctx, Request{ID: "r3", Timestamp: time.Now()})
	_, err = c.Submit(ctx, Request{ID: "r4", Timestamp: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit open")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestNewClient_NoCredentials(t *testing.T) {
	// No keypair and no transport override: the client must still construct
	// so a local boot without vendor credentials comes up.
	c, err := NewClient(config.EISSDConfig{})
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), Request{ID: "r1", Timestamp: time.Now()})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeProtocolTransport))
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Contains(t, err.Error(), "not configured")
}

func TestNewClient_MissingCertificate(t *testing.T) {
	_, err := NewClient(config.EISSDConfig{
		Endpoint: "https://vendor.example/xmlInterface",
		CertFile: "/nonexistent/client.crt",
		KeyFile:  "/nonexistent/client.key",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load client certificate")
}
