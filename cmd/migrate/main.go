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

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/asset"
	"github.com/feral-file/ff-settlement/internal/config"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/journal"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/payment"
	"github.com/feral-file/ff-settlement/internal/protocol"
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
	cfg, err := config.LoadMigrateConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Each migration commits on its own, so an interrupt leaves a recorded version
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "migrate",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	db, err := store.OpenPostgres(ctx, cfg.Database.DSN(), cfg.Debug, 2*time.Minute)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	target := cfg.TargetVersion
	if target == 0 {
		target = migrations.Latest
	}

	previous, err := migrations.Migrate(ctx, db, target)
	if err != nil {
		logger.FatalCtx(ctx, "Migration failed",
			zap.Error(err),
			zap.Int("from_version", previous),
			zap.Int("target_version", target),
		)
	}
	if previous == target {
		logger.InfoCtx(ctx, "Schema already up to date", zap.Int("version", target))
	} else {
		logger.InfoCtx(ctx, "Schema migrated",
			zap.Int("from_version", previous),
			zap.Int("to_version", target),
		)
	}

	if !cfg.Bootstrap.Enabled {
		return
	}

	params, err := bootstrapParams(cfg.Bootstrap)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid bootstrap configuration", zap.Error(err))
	}

	clock := adapter.NewClock()
	manager := protocol.NewManager(
		store.NewPGStore(db),
		payment.Bind,
		asset.NewBinder(clock),
		nil,
		journal.NewWriter(clock, adapter.NewJSON(), adapter.NewJCS()),
		clock,
		metrics.New(),
	)

	protocolConfig, err := manager.Initialize(ctx, params)
	switch {
	case errors.Is(err, domain.ErrAlreadyInitialized):
		logger.InfoCtx(ctx, "Protocol already initialized, bootstrap skipped")
	case err != nil:
		logger.FatalCtx(ctx, "Failed to initialize protocol", zap.Error(err))
	default:
		logger.InfoCtx(ctx, "Protocol initialized",
			zap.String("admin", protocolConfig.Admin.Hex()),
			zap.String("signer", protocolConfig.Signer.Hex()),
			zap.Uint16("service_fee_bps", protocolConfig.ServiceFeeBps),
		)
	}
}

func bootstrapParams(cfg config.ProtocolBootstrapConfig) (protocol.InitParams, error) {
	var params protocol.InitParams
	for _, field := range []struct {
		name  string
		value string
		dest  *common.Address
	}{
		{"bootstrap.admin", cfg.Admin, &params.Admin},
		{"bootstrap.signer", cfg.Signer, &params.Signer},
		{"bootstrap.team_wallet", cfg.TeamWallet, &params.TeamWallet},
		{"bootstrap.payment_token", cfg.PaymentToken, &params.PaymentToken},
		{"bootstrap.custody", cfg.Custody, &params.Custody},
	} {
		address, err := domain.ParseAddress(field.value)
		if err != nil {
			return params, fmt.Errorf("%s: %w", field.name, err)
		}
		*field.dest = address
	}
	params.ServiceFeeBps = cfg.ServiceFeeBps
	return params, nil
}
