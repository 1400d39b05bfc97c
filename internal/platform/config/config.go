package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration. FromEnv builds it from
// environment variables so main stays lean.
type Server struct {
	Addr        string
	Environment string

	// Persistence. DatabaseURL selects Postgres; BlobDir selects a
	// filesystem object store. When both are empty the server runs on
	// in-memory stores.
	DatabaseURL string
	BlobDir     string
	RedisAddr   string

	// Audit fan-out. Kafka is optional; empty brokers disable it.
	KafkaBrokers string
	AuditTopic   string

	// Decision links.
	DecisionTokenKey string
	DecisionTokenTTL time.Duration
	AdminEmail       string
	PublicBaseURL    string

	// Outbound mail API. Empty base URL falls back to the in-memory notifier.
	MailAPIBaseURL string
	MailAPIKey     string
	MailFrom       string

	// External screening sources.
	SanctionsSourceURLs []string
	PEPSourceURL        string
	RegistrySourceURL   string
	MediaSourceURL      string
	SourceAPIKey        string
	CheckTimeout        time.Duration
}

const (
	defaultAddr         = ":8080"
	defaultCheckTimeout = 5 * time.Second
	defaultTokenTTL     = 7 * 24 * time.Hour
	defaultAuditTopic   = "clearway.case-events"

	// Dev signing key - must be overridden in production.
	devDecisionTokenKey = "dev-decision-key-change-in-production"
)

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:              envOr("CLEARWAY_ADDR", defaultAddr),
		Environment:       envOr("CLEARWAY_ENV", "dev"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		BlobDir:           os.Getenv("BLOB_DIR"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		KafkaBrokers:      os.Getenv("KAFKA_BROKERS"),
		AuditTopic:        envOr("AUDIT_TOPIC", defaultAuditTopic),
		DecisionTokenKey:  envOr("DECISION_TOKEN_KEY", devDecisionTokenKey),
		DecisionTokenTTL:  durationOr("DECISION_TOKEN_TTL", defaultTokenTTL),
		AdminEmail:        envOr("ADMIN_EMAIL", "compliance@clearway.local"),
		PublicBaseURL:     envOr("PUBLIC_BASE_URL", "http://localhost:8080"),
		MailAPIBaseURL:    os.Getenv("MAIL_API_BASE_URL"),
		MailAPIKey:        os.Getenv("MAIL_API_KEY"),
		MailFrom:          envOr("MAIL_FROM", "onboarding@clearway.local"),
		PEPSourceURL:      os.Getenv("PEP_SOURCE_URL"),
		RegistrySourceURL: os.Getenv("REGISTRY_SOURCE_URL"),
		MediaSourceURL:    os.Getenv("MEDIA_SOURCE_URL"),
		SourceAPIKey:      os.Getenv("SOURCE_API_KEY"),
		CheckTimeout:      durationOr("CHECK_TIMEOUT", defaultCheckTimeout),
	}

	if urls := os.Getenv("SANCTIONS_SOURCE_URLS"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.SanctionsSourceURLs = append(cfg.SanctionsSourceURLs, u)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
