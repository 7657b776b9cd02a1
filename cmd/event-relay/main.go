package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/config"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/providers/jetstream"
	"github.com/feral-file/ff-settlement/internal/store"
	"github.com/feral-file/ff-settlement/internal/store/migrations"
	"github.com/feral-file/ff-settlement/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadRelayConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
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
			"service": "event-relay",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Event Relay")

	// Connect to database
	db, err := store.OpenPostgres(ctx, cfg.Database.DSN(), cfg.Debug, time.Minute)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	schemaVersion, err := migrations.CurrentVersion(ctx, db)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to read schema version", zap.Error(err))
	}
	if schemaVersion < migrations.Latest {
		logger.FatalCtx(ctx, "Database schema is behind, run migrate first",
			zap.Int("schema_version", schemaVersion),
			zap.Int("required_version", migrations.Latest),
		)
	}

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	m := metrics.New()

	// Connect to NATS JetStream
	publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
		URL:             cfg.NATS.URL,
		StreamName:      cfg.NATS.StreamName,
		SubjectPrefix:   cfg.NATS.SubjectPrefix,
		MaxReconnects:   cfg.NATS.MaxReconnects,
		ReconnectWait:   cfg.NATS.ReconnectWait,
		ConnectionName:  cfg.NATS.ConnectionName,
		DuplicateWindow: cfg.NATS.DuplicateWindow,
	}, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer publisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("subject_prefix", cfg.NATS.SubjectPrefix),
	)

	// Serve metrics
	var metricsServer *http.Server
	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorCtx(ctx, err, zap.String("component", "metrics"))
			}
		}()
		logger.InfoCtx(ctx, "Serving metrics", zap.String("address", cfg.MetricsAddress))
	}

	relay := sweeper.NewJournalRelay(&sweeper.JournalRelayConfig{
		BatchSize:      cfg.Relay.BatchSize,
		WorkerPoolSize: cfg.Relay.PoolSize,
		PollInterval:   cfg.Relay.PollInterval,
		RetryInitial:   cfg.Relay.RetryInitial,
		RetryMaxTime:   cfg.Relay.RetryMaxTime,
	}, dataStore, publisher, clock, m)

	logger.InfoCtx(ctx, "Initialized journal relay",
		zap.Int("batch_size", cfg.Relay.BatchSize),
		zap.Int("pool_size", cfg.Relay.PoolSize),
		zap.Duration("poll_interval", cfg.Relay.PollInterval),
	)

	// Start the relay in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := relay.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal, relay error or a closed connection
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err, zap.String("component", relay.Name()))
	case <-publisher.CloseChan():
		logger.WarnCtx(ctx, "NATS connection closed, shutting down")
	}

	// Cancel context to stop the relay
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Relay.ShutdownWindow)
	defer shutdownCancel()

	if err := relay.Stop(shutdownCtx); err != nil {
		logger.Error(err, zap.String("component", relay.Name()))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, zap.String("component", "metrics"))
		}
	}

	logger.Info("Event relay stopped")
}
