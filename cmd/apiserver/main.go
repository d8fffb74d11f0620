// Command apiserver runs the ScholarFinder engine's REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/scholarfinder/engine/internal/application/enrichment"
	"github.com/scholarfinder/engine/internal/application/profile"
	"github.com/scholarfinder/engine/internal/application/validation"
	"github.com/scholarfinder/engine/internal/config"
	neo4jdriver "github.com/scholarfinder/engine/internal/infrastructure/database/neo4j"
	neo4jrepos "github.com/scholarfinder/engine/internal/infrastructure/database/neo4j/repositories"
	"github.com/scholarfinder/engine/internal/infrastructure/database/postgres"
	pgrepos "github.com/scholarfinder/engine/internal/infrastructure/database/postgres/repositories"
	"github.com/scholarfinder/engine/internal/infrastructure/database/redis"
	"github.com/scholarfinder/engine/internal/infrastructure/messaging/kafka"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	appprom "github.com/scholarfinder/engine/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/scholarfinder/engine/internal/interfaces/http"
	"github.com/scholarfinder/engine/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	skipMigrations := flag.Bool("skip-migrations", false, "do not run database migrations at startup")
	flag.Parse()

	if err := run(*configPath, *port, *skipMigrations); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int, skipMigrations bool) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	logCfg := logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}
	if cfg.Log.OutputPath != "" {
		logCfg.OutputPaths = []string{cfg.Log.OutputPath}
	}
	if cfg.Log.ErrorPath != "" {
		logCfg.ErrorOutputPaths = []string{cfg.Log.ErrorPath}
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger.Info("starting scholarfinder engine", logging.Int("port", cfg.Server.Port))

	metrics := appprom.NewAppMetrics(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ──
	if !skipMigrations && cfg.Database.MigrationPath != "" {
		if err := postgres.RunMigrations(postgres.DSN(cfg.Database), "file://"+cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		logger.Info("database migrations applied")
	}
	pg, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer pg.Close()

	authorRepo := pgrepos.NewAuthorRepository(pg.Pool(), logger)
	paperRepo := pgrepos.NewPaperRepository(pg.Pool(), logger)

	healthComponents := map[string]handlers.Pinger{
		"postgres": handlers.PingFunc(pg.HealthCheck),
	}

	// ── Redis (optional: lookups fall through to the store without it) ──
	var cache enrichment.Cache
	redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, enrichment cache disabled", logging.Err(err))
	} else {
		defer redisClient.Close()
		cacheOpts := []redis.CacheOption{redis.WithPrefix(cfg.Redis.KeyPrefix)}
		if cfg.Redis.DefaultTTL > 0 {
			cacheOpts = append(cacheOpts, redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		}
		c := redis.NewCache(redisClient, logger, cacheOpts...)
		cache = c
		healthComponents["redis"] = handlers.PingFunc(c.Ping)
	}

	// ── Neo4j (optional: co-authorship falls back to overlap heuristics) ──
	var coAuthorshipSource validation.CoAuthorshipSource
	var coAuthorGraph profile.CoAuthorGraph
	var coAuthorRecorder handlers.CoAuthorshipRecorder
	graphDriver, err := neo4jdriver.NewDriver(cfg.Neo4j, logger)
	if err != nil {
		logger.Warn("neo4j unavailable, using heuristic co-authorship signals only", logging.Err(err))
	} else {
		defer graphDriver.Close(context.Background())
		coAuthorRepo := neo4jrepos.NewCoAuthorRepository(graphDriver, logger)
		coAuthorshipSource = coAuthorRepo
		coAuthorGraph = coAuthorRepo
		coAuthorRecorder = coAuthorRepo
		healthComponents["neo4j"] = handlers.PingFunc(graphDriver.HealthCheck)
	}

	// ── Kafka (optional audit trail) ──
	var events handlers.EventPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, logger)
		defer producer.Close()
		events = producer
	}

	// ── Application layer ──
	enricher := enrichment.NewService(authorRepo, cache, cfg.Profile.EnrichmentTTL, logger, metrics)
	engine := validation.NewEngine(coAuthorshipSource, logger, metrics)
	orchestrator := profile.NewDefaultOrchestrator(coAuthorGraph, enricher, logger, metrics)

	// ── HTTP ──
	routerCfg := httpserver.RouterConfig{
		ReviewerHandler: handlers.NewReviewerHandler(engine, orchestrator, authorRepo, events, enricher, logger),
		PaperHandler:    handlers.NewPaperHandler(paperRepo, authorRepo, coAuthorRecorder, logger),
		HealthHandler:   handlers.NewHealthHandler(healthComponents, logger),
		Logger:          logger,
		Metrics:         metrics,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsGatherer = prometheus.DefaultGatherer
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	return srv.Stop(context.Background())
}
