package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration for the registry service.
type Server struct {
	Addr          string
	OwnerAccount  string
	JWTSigningKey string

	// Store selects the index backend: "memory", "postgres", or "redis".
	Store       string
	PostgresDSN string
	RedisURL    string

	// KafkaBrokers enables the Kafka audit sink when non-empty.
	KafkaBrokers []string
	AuditTopic   string
}

// RegisterTxTimeout bounds a single registration commit.
var RegisterTxTimeout = 5 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("UNIREGISTRY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	owner := os.Getenv("UNIREGISTRY_OWNER_ACCOUNT")
	if owner == "" {
		owner = "admin"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	store := os.Getenv("UNIREGISTRY_STORE")
	if store == "" {
		store = "memory"
	}

	topic := os.Getenv("UNIREGISTRY_AUDIT_TOPIC")
	if topic == "" {
		topic = "uniregistry.audit"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:          addr,
		OwnerAccount:  owner,
		JWTSigningKey: jwtSigningKey,
		Store:         store,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		AuditTopic:    topic,
	}
}
