package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"clearway/internal/audit"
	"clearway/internal/audit/publisher"
	auditkafka "clearway/internal/audit/store/kafka"
	auditmemory "clearway/internal/audit/store/memory"
	auditpostgres "clearway/internal/audit/store/postgres"
	"clearway/internal/casestore"
	"clearway/internal/decision"
	decisionhandler "clearway/internal/decision/handler"
	decisionmetrics "clearway/internal/decision/metrics"
	"clearway/internal/decision/tokens"
	"clearway/internal/notify"
	"clearway/internal/objectstore"
	"clearway/internal/platform/config"
	"clearway/internal/platform/database"
	"clearway/internal/platform/health"
	"clearway/internal/platform/httpserver"
	"clearway/internal/platform/kafka"
	"clearway/internal/platform/kafka/producer"
	"clearway/internal/platform/logger"
	platformredis "clearway/internal/platform/redis"
	"clearway/internal/screening"
	screeninghandler "clearway/internal/screening/handler"
	screeningmetrics "clearway/internal/screening/metrics"
	"clearway/internal/screening/sources"
	"clearway/internal/screening/tracer"
	httptransport "clearway/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing clearway",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	trc := tracer.NewOTel()

	pool, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var store casestore.Store
	var auditStore audit.Store
	switch {
	case pool != nil:
		store = casestore.NewPostgresStore(pool.DB())
		auditStore = auditpostgres.New(pool.DB())
		log.Info("using postgres case store")
	case cfg.BlobDir != "":
		blobs, err := objectstore.NewFilesystem(cfg.BlobDir)
		if err != nil {
			log.Error("failed to open blob directory", "dir", cfg.BlobDir, "error", err)
			os.Exit(1)
		}
		store = casestore.NewObjectStore(blobs)
		auditStore = auditmemory.New()
		log.Info("using filesystem case store", "dir", cfg.BlobDir)
	default:
		store = casestore.NewMemoryStore()
		auditStore = auditmemory.New()
		log.Warn("DATABASE_URL and BLOB_DIR not set, using in-memory stores")
	}

	var kafkaProducer *producer.Producer
	if cfg.KafkaBrokers != "" {
		kafkaProducer, err = producer.New(producer.DefaultConfig(cfg.KafkaBrokers), log)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		auditStore = auditkafka.New(auditStore, kafkaProducer, cfg.AuditTopic)
		log.Info("audit events mirrored to kafka", "topic", cfg.AuditTopic)
	}

	auditor := publisher.New(auditStore,
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
	)
	defer auditor.Close()

	rdb, err := platformredis.New(platformredis.DefaultConfig(cfg.RedisAddr))
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	var usage tokens.UsageStore
	if rdb != nil {
		usage = tokens.NewRedisUsageStore(rdb)
		log.Info("using redis decision-token usage store")
	} else {
		usage = tokens.NewMemoryUsageStore()
	}
	tokenSvc := tokens.New(cfg.DecisionTokenKey, cfg.DecisionTokenTTL, usage)

	var notifier notify.Notifier
	if cfg.MailAPIBaseURL != "" {
		notifier = notify.NewMailNotifier(notify.MailConfig{
			BaseURL: cfg.MailAPIBaseURL,
			APIKey:  cfg.MailAPIKey,
			From:    cfg.MailFrom,
		})
	} else {
		notifier = notify.NewMemoryNotifier()
		log.Warn("MAIL_API_BASE_URL not set, notifications stay in memory")
	}

	checks := buildChecks(cfg, trc, log)

	screeningSvc := screening.New(checks, store, auditor,
		screening.WithMetrics(screeningmetrics.New()),
		screening.WithLogger(log),
		screening.WithTracer(trc),
		screening.WithCheckTimeout(cfg.CheckTimeout),
	)

	decisionSvc := decision.New(store, tokenSvc, notifier, auditor,
		decision.WithMetrics(decisionmetrics.New()),
		decision.WithLogger(log),
		decision.WithAdminEmail(cfg.AdminEmail),
	)

	caseHandler := screeninghandler.New(store, screeningSvc, tokenSvc, notifier, auditor,
		screeninghandler.Config{
			AdminEmail:    cfg.AdminEmail,
			PublicBaseURL: cfg.PublicBaseURL,
		}, log)
	decHandler := decisionhandler.New(decisionSvc, log)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", timedCheck(pool.Health))
	}
	if rdb != nil {
		healthHandler.RegisterCheck("redis", timedCheck(rdb.Health))
	}
	if cfg.KafkaBrokers != "" {
		healthHandler.RegisterCheck("kafka", timedCheck(kafka.NewHealthChecker(cfg.KafkaBrokers).Check))
	}

	router := httptransport.NewRouter(log, healthHandler, caseHandler, decHandler)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	if kafkaProducer != nil {
		_ = kafkaProducer.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if pool != nil {
		_ = pool.Close()
	}

	log.Info("server stopped")
}

// buildChecks assembles the screening check set. Format checks always run;
// source-backed checks join only when their upstream is configured.
func buildChecks(cfg config.Server, trc tracer.Tracer, log *slog.Logger) []screening.Check {
	checks := []screening.Check{
		screening.NewTaxIDFormatCheck(),
		screening.NewEmailDomainCheck(nil),
	}

	sourceCfg := func(id, baseURL string) sources.ClientConfig {
		return sources.ClientConfig{
			ID:      id,
			BaseURL: baseURL,
			APIKey:  cfg.SourceAPIKey,
			Timeout: cfg.CheckTimeout,
			Tracer:  trc,
		}
	}

	var sanctionsLists []sources.SanctionsSource
	for i, u := range cfg.SanctionsSourceURLs {
		sanctionsLists = append(sanctionsLists,
			sources.NewHTTPSanctionsSource(sourceCfg(fmt.Sprintf("sanctions-%d", i+1), u)))
	}
	if len(sanctionsLists) > 0 {
		checks = append(checks, screening.NewSanctionsCheck(sanctionsLists))
	} else {
		log.Warn("SANCTIONS_SOURCE_URLS not set, sanctions check disabled")
	}

	var pepRegister sources.PEPSource
	if cfg.PEPSourceURL != "" {
		pepRegister = sources.NewHTTPPEPSource(sourceCfg("pep-register", cfg.PEPSourceURL))
		checks = append(checks, screening.NewPEPCheck(pepRegister))
	} else {
		log.Warn("PEP_SOURCE_URL not set, pep check disabled")
	}

	if cfg.RegistrySourceURL != "" {
		checks = append(checks, screening.NewEntityRegistryCheck(
			sources.NewHTTPRegistrySource(sourceCfg("entity-registry", cfg.RegistrySourceURL))))
	} else {
		log.Warn("REGISTRY_SOURCE_URL not set, entity registry check disabled")
	}

	if cfg.MediaSourceURL != "" {
		checks = append(checks, screening.NewAdverseMediaCheck(
			sources.NewHTTPMediaSource(sourceCfg("adverse-media", cfg.MediaSourceURL))))
	} else {
		log.Warn("MEDIA_SOURCE_URL not set, adverse media check disabled")
	}

	if len(sanctionsLists) > 0 && pepRegister != nil {
		checks = append(checks, screening.NewUBOCheck(sanctionsLists, pepRegister))
	} else {
		log.Warn("ubo check disabled, needs sanctions and pep sources")
	}

	return checks
}

func timedCheck(check func(context.Context) error) health.CheckFunc {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return check(ctx)
	}
}
