package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/api/middleware"
	"github.com/feral-file/ff-settlement/internal/api/server"
	"github.com/feral-file/ff-settlement/internal/asset"
	"github.com/feral-file/ff-settlement/internal/authz"
	"github.com/feral-file/ff-settlement/internal/config"
	"github.com/feral-file/ff-settlement/internal/journal"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/market"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/payment"
	"github.com/feral-file/ff-settlement/internal/protocol"
	"github.com/feral-file/ff-settlement/internal/providers/ethereum"
	"github.com/feral-file/ff-settlement/internal/royalty"
	"github.com/feral-file/ff-settlement/internal/store"
	"github.com/feral-file/ff-settlement/internal/store/migrations"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Feral File Settlement API")

	// Connect to database
	db, err := store.OpenPostgres(ctx, cfg.Database.DSN(), cfg.Debug, time.Minute)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// The API never migrates; a schema behind this binary must be brought up by migrate first
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

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	m := metrics.New()
	writer := journal.NewWriter(clock, adapter.NewJSON(), adapter.NewJCS())

	// Standard detection is optional
	var prober protocol.Prober
	if cfg.Ethereum.RPCURL != "" {
		client, err := ethereum.Dial(ctx, adapter.NewEthClientDialer(), cfg.Ethereum.RPCURL)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Ethereum RPC", zap.Error(err))
		}
		defer client.Close()
		prober = client
		logger.InfoCtx(ctx, "Collection standard detection enabled")
	} else {
		logger.WarnCtx(ctx, "Ethereum RPC not configured, collections will be registered with an unknown standard")
	}

	engine := market.NewEngine(
		dataStore,
		authz.NewVerifier(clock),
		payment.Bind,
		asset.NewBinder(clock),
		royalty.NewBook(clock),
		writer,
		clock,
		m,
	)
	manager := protocol.NewManager(dataStore, payment.Bind, asset.NewBinder(clock), prober, writer, clock, m)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowOrigins: cfg.Server.AllowOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
		},
	}

	srv := server.New(serverConfig, engine, manager, dataStore, m)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
