package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"uniregistry/internal/audit"
	httpapi "uniregistry/internal/http"
	"uniregistry/internal/identity"
	"uniregistry/internal/platform/config"
	"uniregistry/internal/platform/httpserver"
	"uniregistry/internal/platform/logger"
	platformredis "uniregistry/internal/platform/redis"
	"uniregistry/internal/registry"
	registryhandler "uniregistry/internal/registry/handler"
	"uniregistry/internal/registry/metrics"
	"uniregistry/internal/registry/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	st, tx, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Error("store setup failed", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	publisher, auditCleanup, err := buildAudit(ctx, cfg)
	if err != nil {
		log.Error("audit setup failed", "error", err)
		os.Exit(1)
	}
	defer auditCleanup()

	svc := registry.NewService(cfg.OwnerAccount, st, tx, metrics.New(), publisher)

	jwtService := identity.NewJWTService(cfg.JWTSigningKey)
	validator := identity.NewJWTServiceAdapter(jwtService)

	h := registryhandler.New(svc, log)
	router := httpapi.NewRouter(h, validator, log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting uniregistry",
		"addr", cfg.Addr,
		"store", cfg.Store,
		"owner", cfg.OwnerAccount,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildStore selects the index backend and its matching transaction runner.
func buildStore(cfg config.Server) (store.Store, registry.StoreTx, func(), error) {
	switch cfg.Store {
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return store.NewPostgres(db), newRegistryPostgresTx(db), func() { db.Close() }, nil

	case "redis":
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if client == nil {
			return nil, nil, nil, errors.New("redis store selected but REDIS_URL is empty")
		}
		st := store.NewRedis(client.Client)
		return st, registry.NewLockedStoreTx(st), func() { client.Close() }, nil

	default:
		st := store.NewMemory()
		return st, registry.NewLockedStoreTx(st), func() {}, nil
	}
}

// buildAudit wires the audit trail: a channel-fed worker delivering to Kafka
// when brokers are configured, to process memory otherwise.
func buildAudit(ctx context.Context, cfg config.Server) (*audit.Publisher, func(), error) {
	var sink audit.Sink
	cleanup := func() {}

	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return nil, nil, err
		}
		sink = kafkaSink
		cleanup = kafkaSink.Close
	} else {
		sink = audit.NewMemorySink()
	}

	inbox := make(chan audit.Event, 256)
	worker := audit.NewWorker(sink, inbox)
	go func() {
		_ = worker.Run(ctx)
	}()

	return audit.NewPublisher(audit.NewChannelSink(inbox)), cleanup, nil
}
