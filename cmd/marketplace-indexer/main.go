package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/config"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
	"github.com/feral-file/ff-marketplace-indexer/internal/messaging"
	"github.com/feral-file/ff-marketplace-indexer/internal/metrics"
	"github.com/feral-file/ff-marketplace-indexer/internal/processor"
	"github.com/feral-file/ff-marketplace-indexer/internal/providers/aptos"
	"github.com/feral-file/ff-marketplace-indexer/internal/providers/jetstream"
	"github.com/feral-file/ff-marketplace-indexer/internal/registry"
	"github.com/feral-file/ff-marketplace-indexer/internal/remapper"
	"github.com/feral-file/ff-marketplace-indexer/internal/server"
	"github.com/feral-file/ff-marketplace-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIndexerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "marketplace-indexer",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Marketplace Indexer")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Route reads to the replica when one is configured
	if cfg.Database.ReadHost != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(cfg.Database.ReadDSN())},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			logger.FatalCtx(ctx, "Failed to register read replica", zap.Error(err), zap.String("read_host", cfg.Database.ReadHost))
		}
		logger.InfoCtx(ctx, "Registered read replica", zap.String("read_host", cfg.Database.ReadHost))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.FatalCtx(ctx, "Failed to get database handle", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	clockAdapter := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(cfg.Aptos.Timeout, cfg.Aptos.MaxRetries)

	// Load marketplace registry
	registryLoader := registry.NewMarketplaceRegistryLoader(fs, jsonAdapter)
	marketplaces, err := registryLoader.Load(cfg.MarketplaceRegistryPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load marketplace registry", zap.Error(err), zap.String("path", cfg.MarketplaceRegistryPath))
	}

	engine, err := remapper.NewEngine(marketplaces.Configs(), adapter.NewJCS())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to compile marketplace mappings", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Loaded marketplace registry",
		zap.String("path", cfg.MarketplaceRegistryPath),
		zap.Strings("marketplaces", engine.Marketplaces()),
	)

	// Initialize NATS publisher
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(
			ctx,
			jetstream.Config{
				URL:            cfg.NATS.URL,
				StreamName:     cfg.NATS.StreamName,
				SubjectPrefix:  cfg.NATS.SubjectPrefix,
				MaxReconnects:  cfg.NATS.MaxReconnects,
				ReconnectWait:  cfg.NATS.ReconnectWait,
				ConnectionName: cfg.NATS.ConnectionName,
			}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		logger.InfoCtx(ctx, "Connected to NATS JetStream")
	} else {
		publisher = messaging.NewNoopPublisher()
		logger.WarnCtx(ctx, "NATS url not configured, activities will not be published")
	}
	defer publisher.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pipelineMetrics := metrics.NewMetrics(reg)

	// Shared remap worker pool
	pool := pond.NewResultPool[*remapper.Result](
		cfg.Worker.WorkerPoolSize,
		pond.WithQueueSize(cfg.Worker.WorkerQueueSize),
		pond.WithContext(ctx),
	)
	defer pool.StopAndWait()

	// One stream per marketplace, each with its own source
	source := aptos.NewSource(aptos.NewClient(cfg.Aptos.RPCURL, cfg.Aptos.APIKey, httpClient, jsonAdapter))
	var streams []processor.Processor
	for _, entry := range marketplaces.Marketplaces() {
		rm, err := engine.Remapper(entry.Name)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to get remapper", zap.Error(err), zap.String("marketplace", entry.Name))
		}
		streams = append(streams, processor.NewProcessor(
			source,
			rm,
			dataStore,
			publisher,
			pool,
			pipelineMetrics,
			streamConfig(cfg, entry),
			clockAdapter,
		))
	}
	manager := processor.NewManager(streams...)

	// Ops server
	opsServer := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}, sqlDB, reg)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := opsServer.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start the streams
	doneCh := make(chan error, 1)
	go func() {
		doneCh <- manager.Run(ctx)
	}()

	exitCode := 0
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		<-doneCh
	case err := <-serverErrCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
		<-doneCh
		exitCode = 1
	case err := <-doneCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err, zap.String("component", "processor"))
			exitCode = 1
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, zap.String("component", "server"))
	}

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Marketplace Indexer stopped")
	if exitCode != 0 {
		logger.Flush(2 * time.Second)
		os.Exit(exitCode) //nolint:gocritic
	}
}

// streamConfig resolves the stream settings of a marketplace, registry entries override the
// global stream config
func streamConfig(cfg *config.IndexerConfig, entry registry.MarketplaceEntry) processor.Config {
	sc := processor.Config{
		StartingVersion: cfg.Stream.StartingVersion,
		BatchSize:       cfg.Stream.BatchSize,
		ChannelSize:     cfg.Stream.ChannelSize,
		PollInterval:    cfg.Aptos.PollInterval,
	}
	if cfg.Stream.EndingVersion != 0 {
		end := cfg.Stream.EndingVersion
		sc.EndingVersion = &end
	}
	return entry.StreamConfig(sc)
}
