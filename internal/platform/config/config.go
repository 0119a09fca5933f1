// Package config loads process configuration from the environment once at
// startup. The resulting struct is treated as read-only for the process
// lifetime; nothing in the codebase mutates or re-reads it.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Addr       string
	Production bool

	// ProviderID is the CRM provider the reconciliation sweeps act for.
	ProviderID int64
	// RegionCode is the default two-digit region served by the platform.
	RegionCode string

	Postgres     PostgresConfig
	GIS          PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Geocoder     GeocoderConfig
	EISSD        EISSDConfig
	CRM          CRMConfig
	Provisioning ProvisioningConfig
	Sweep        SweepConfig
}

// PostgresConfig points at one database. The platform carries two: the
// primary store and the GIS reference store.
type PostgresConfig struct {
	URL string
}

type RedisConfig struct {
	URL string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type GeocoderConfig struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
}

// EISSDConfig configures the vendor feasibility endpoint.
//
// InsecureSkipVerify disables server-certificate verification. The legacy
// vendor endpoint presents a certificate that does not validate against any
// public CA; enable this only for that endpoint and keep it off everywhere
// else.
type EISSDConfig struct {
	Endpoint           string
	CertFile           string
	KeyFile            string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

type CRMConfig struct {
	BaseURL string
	Token   string
}

type ProvisioningConfig struct {
	BaseURL string
}

type SweepConfig struct {
	CreationInterval time.Duration
	StatusInterval   time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
// Integration credentials are required only when PRODUCTION is set; local
// runs can come up without them and the sweeps stay disabled.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:       envOr("HOMENET_ADDR", ":8080"),
		Production: os.Getenv("PRODUCTION") == "true",
		RegionCode: envOr("HOMENET_REGION_CODE", "72"),
		Postgres:   PostgresConfig{URL: os.Getenv("POSTGRES_URL")},
		GIS:        PostgresConfig{URL: os.Getenv("GIS_POSTGRES_URL")},
		Redis:      RedisConfig{URL: os.Getenv("REDIS_URL")},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_TICKET_TOPIC", "homenet.ticket-events"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:  os.Getenv("GEOCODER_BASE_URL"),
			APIKey:   os.Getenv("GEOCODER_API_KEY"),
			CacheTTL: envDuration("GEOCODER_CACHE_TTL", 24*time.Hour),
		},
		EISSD: EISSDConfig{
			Endpoint:           os.Getenv("EISSD_ENDPOINT"),
			CertFile:           os.Getenv("EISSD_CERT_FILE"),
			KeyFile:            os.Getenv("EISSD_KEY_FILE"),
			InsecureSkipVerify: os.Getenv("EISSD_INSECURE_SKIP_VERIFY") == "true",
			Timeout:            envDuration("EISSD_TIMEOUT", 30*time.Second),
		},
		CRM: CRMConfig{
			BaseURL: os.Getenv("CRM_BASE_URL"),
			Token:   os.Getenv("CRM_TOKEN"),
		},
		Provisioning: ProvisioningConfig{BaseURL: os.Getenv("PROVISIONING_BASE_URL")},
		Sweep: SweepConfig{
			CreationInterval: envDuration("SWEEP_CREATION_INTERVAL", 2*time.Minute),
			StatusInterval:   envDuration("SWEEP_STATUS_INTERVAL", 4*time.Hour),
		},
	}

	providerID, err := envInt64("HOMENET_PROVIDER_ID", 1)
	if err != nil {
		return Config{}, err
	}
	cfg.ProviderID = providerID

	if cfg.Production {
		missing := missingKeys(map[string]string{
			"GIS_POSTGRES_URL":      cfg.GIS.URL,
			"GEOCODER_BASE_URL":     cfg.Geocoder.BaseURL,
			"GEOCODER_API_KEY":      cfg.Geocoder.APIKey,
			"EISSD_ENDPOINT":        cfg.EISSD.Endpoint,
			"EISSD_CERT_FILE":       cfg.EISSD.CertFile,
			"EISSD_KEY_FILE":        cfg.EISSD.KeyFile,
			"CRM_BASE_URL":          cfg.CRM.BaseURL,
			"PROVISIONING_BASE_URL": cfg.Provisioning.BaseURL,
		})
		if len(missing) > 0 {
			return Config{}, fmt.Errorf("production mode requires %s", strings.Join(missing, ", "))
		}
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func missingKeys(kv map[string]string) []string {
	var missing []string
	for k, v := range kv {
		if v == "" {
			missing = append(missing, k)
		}
	}
	// Deterministic order for the error message.
	sort.Strings(missing)
	return missing
}
