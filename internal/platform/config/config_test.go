package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.False(t, cfg.Production)
	assert.Equal(t, int64(1), cfg.ProviderID)
	assert.Equal(t, 2*time.Minute, cfg.Sweep.CreationInterval)
	assert.Equal(t, 4*time.Hour, cfg.Sweep.StatusInterval)
	assert.Equal(t, 30*time.Second, cfg.EISSD.Timeout)
	assert.False(t, cfg.EISSD.InsecureSkipVerify)
	assert.Equal(t, "homenet.ticket-events", cfg.Kafka.Topic)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HOMENET_ADDR", ":9090")
	t.Setenv("HOMENET_PROVIDER_ID", "7")
	t.Setenv("SWEEP_CREATION_INTERVAL", "30s")
	t.Setenv("EISSD_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, int64(7), cfg.ProviderID)
	assert.Equal(t, 30*time.Second, cfg.Sweep.CreationInterval)
	assert.True(t, cfg.EISSD.InsecureSkipVerify)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnv_BadProviderID(t *testing.T) {
	t.Setenv("HOMENET_PROVIDER_ID", "not-a-number")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOMENET_PROVIDER_ID")
}

func TestFromEnv_ProductionRequiresIntegrations(t *testing.T) {
	t.Setenv("PRODUCTION", "true")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Equal(t,
		"production mode requires CRM_BASE_URL, EISSD_CERT_FILE, EISSD_ENDPOINT, "+
			"EISSD_KEY_FILE, GEOCODER_API_KEY, GEOCODER_BASE_URL, GIS_POSTGRES_URL, "+
			"PROVISIONING_BASE_URL",
		err.Error())
}

func TestFromEnv_ProductionComplete(t *testing.T) {
	t.Setenv("PRODUCTION", "true")
	t.Setenv("GIS_POSTGRES_URL", "postgres://gis")
	t.Setenv("GEOCODER_BASE_URL", "https://suggest.example")
	t.Setenv("GEOCODER_API_KEY", "key")
	t.Setenv("EISSD_ENDPOINT", "https://vendor.example/xmlInterface")
	t.Setenv("EISSD_CERT_FILE", "/etc/certs/client.crt")
	t.Setenv("EISSD_KEY_FILE", "/etc/certs/client.key")
	t.Setenv("CRM_BASE_URL", "https://crm.example")
	t.Setenv("PROVISIONING_BASE_URL", "https://prov.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Production)
}
