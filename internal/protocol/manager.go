package protocol

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/asset"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/fees"
	"github.com/feral-file/ff-settlement/internal/journal"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/payment"
	"github.com/feral-file/ff-settlement/internal/store"
	"github.com/feral-file/ff-settlement/internal/store/migrations"
)

// Manager owns the administrative state of the marketplace.
// Every mutation except Initialize requires the caller to be the admin.
//
//go:generate mockgen -source=manager.go -destination=../mocks/protocol_manager.go -package=mocks -mock_names=Manager=MockManager,Prober=MockProber
type Manager interface {
	// Initialize bootstraps the protocol config once
	Initialize(ctx context.Context, params InitParams) (*domain.ProtocolConfig, error)

	SetServiceFee(ctx context.Context, caller common.Address, bps uint16) error
	// AddSKCollection marks a collection as trusted for listing and trading
	AddSKCollection(ctx context.Context, caller, collection common.Address) (*domain.Collection, error)
	RemoveSKCollection(ctx context.Context, caller, collection common.Address) error
	// SetMarketAddressForNFTCollection records the market a collection lets mint and move tokens
	SetMarketAddressForNFTCollection(ctx context.Context, caller, collection, market common.Address) error
	SetRoyaltyPolicy(ctx context.Context, caller, collection, beneficiary common.Address, bps uint16) error
	SetTeamWallet(ctx context.Context, caller, wallet common.Address) error
	SetSigner(ctx context.Context, caller, signer common.Address) error
	TransferOwnership(ctx context.Context, caller, newAdmin common.Address) error
	// SetCounter writes the counter added by schema version 2
	SetCounter(ctx context.Context, caller common.Address, value *big.Int) error
	// Upgrade records LogicVersion once the schema it needs is applied
	Upgrade(ctx context.Context, caller common.Address) error
	// Deposit credits payment tokens to an account
	Deposit(ctx context.Context, caller, account common.Address, amount *big.Int) error

	Config(ctx context.Context) (*domain.ProtocolConfig, error)
	Counter(ctx context.Context) (*big.Int, error)
	Version(ctx context.Context) (*Version, error)
	ListCollections(ctx context.Context) ([]domain.Collection, error)
}

// Prober detects the token standard of a collection contract
type Prober interface {
	DetectStandard(ctx context.Context, collection common.Address) (domain.ChainStandard, error)
}

type manager struct {
	store    store.Store
	payments payment.Binder
	assets   asset.Binder
	prober   Prober
	journal  *journal.Writer
	clock    adapter.Clock
	metrics  *metrics.Metrics
}

// NewManager creates a protocol manager. prober may be nil, in which case
// collections are registered with an unknown standard.
func NewManager(
	st store.Store,
	payments payment.Binder,
	assets asset.Binder,
	prober Prober,
	writer *journal.Writer,
	clock adapter.Clock,
	m *metrics.Metrics,
) Manager {
	return &manager{
		store:    st,
		payments: payments,
		assets:   assets,
		prober:   prober,
		journal:  writer,
		clock:    clock,
		metrics:  m,
	}
}

// admin runs fn in a serialized transaction after checking caller against the current admin
func (m *manager) admin(ctx context.Context, operation string, caller common.Address, fn func(tx store.Store, cfg *domain.ProtocolConfig) error) error {
	start := time.Now()
	err := m.store.Transact(ctx, func(tx store.Store) error {
		if err := tx.AcquireWriteLock(ctx); err != nil {
			return err
		}
		cfg, err := tx.GetProtocolConfig(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			return domain.ErrNotInitialized
		}
		if caller == (common.Address{}) || caller != cfg.Admin {
			return fmt.Errorf("%w: %s is not the admin", domain.ErrUnauthorized, caller.Hex())
		}
		return fn(tx, cfg)
	})

	code := domain.Code(err)
	m.metrics.ObserveOperation(operation, code, time.Since(start))
	switch {
	case err == nil:
		logger.InfoCtx(ctx, "Admin operation committed",
			zap.String("operation", operation),
			zap.String("caller", caller.Hex()))
	case code == "Internal":
		logger.ErrorCtx(ctx, fmt.Errorf("%s failed: %w", operation, err), zap.String("operation", operation))
	default:
		logger.WarnCtx(ctx, "Admin operation rejected",
			zap.String("operation", operation),
			zap.String("caller", caller.Hex()),
			zap.String("code", code))
	}
	return err
}

// saveConfig persists cfg and journals it under kind
func (m *manager) saveConfig(ctx context.Context, tx store.Store, cfg *domain.ProtocolConfig, kind domain.EventKind) error {
	cfg.UpdatedAt = m.clock.Now().UTC()
	if err := tx.SaveProtocolConfig(ctx, cfg); err != nil {
		return err
	}
	_, err := m.journal.Append(ctx, tx, kind, "protocol", newConfigEvent(cfg))
	return err
}

func requireAddress(name string, address common.Address) error {
	if address == (common.Address{}) {
		return fmt.Errorf("%w: %s address required", domain.ErrInvalidInput, name)
	}
	return nil
}

func (m *manager) Initialize(ctx context.Context, params InitParams) (*domain.ProtocolConfig, error) {
	for _, required := range []struct {
		name    string
		address common.Address
	}{
		{"admin", params.Admin},
		{"signer", params.Signer},
		{"team wallet", params.TeamWallet},
		{"payment token", params.PaymentToken},
		{"custody", params.Custody},
	} {
		if err := requireAddress(required.name, required.address); err != nil {
			return nil, err
		}
	}
	if err := fees.ValidateConfig(params.ServiceFeeBps, 0); err != nil {
		return nil, err
	}

	var cfg *domain.ProtocolConfig
	err := m.store.Transact(ctx, func(tx store.Store) error {
		if err := tx.AcquireWriteLock(ctx); err != nil {
			return err
		}
		existing, err := tx.GetProtocolConfig(ctx)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyInitialized
		}
		schemaVersion, err := tx.GetSchemaVersion(ctx)
		if err != nil {
			return err
		}
		if schemaVersion < 1 {
			return fmt.Errorf("%w: schema not migrated", domain.ErrUnsupportedVersion)
		}

		now := m.clock.Now().UTC()
		cfg = &domain.ProtocolConfig{
			Admin:         params.Admin,
			Signer:        params.Signer,
			TeamWallet:    params.TeamWallet,
			PaymentToken:  params.PaymentToken,
			Custody:       params.Custody,
			ServiceFeeBps: params.ServiceFeeBps,
			Counter:       new(big.Int),
			LogicVersion:  logicForSchema(schemaVersion),
			CreatedAt:     now,
		}
		return m.saveConfig(ctx, tx, cfg, domain.EventKindProtocolInitialized)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Protocol initialized",
		zap.String("admin", cfg.Admin.Hex()),
		zap.String("signer", cfg.Signer.Hex()),
		zap.String("custody", cfg.Custody.Hex()),
		zap.Uint16("serviceFeeBps", cfg.ServiceFeeBps))
	return cfg, nil
}

func (m *manager) SetServiceFee(ctx context.Context, caller common.Address, bps uint16) error {
	return m.admin(ctx, "set_service_fee", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		highest, err := tx.MaxRoyaltyBps(ctx)
		if err != nil {
			return err
		}
		if err := fees.ValidateConfig(bps, highest); err != nil {
			return err
		}
		cfg.ServiceFeeBps = bps
		return m.saveConfig(ctx, tx, cfg, domain.EventKindServiceFeeSet)
	})
}

func (m *manager) AddSKCollection(ctx context.Context, caller, collection common.Address) (*domain.Collection, error) {
	if err := requireAddress("collection", collection); err != nil {
		return nil, err
	}

	// Probe before taking the write lock; the RPC round trip must not hold it
	standard := m.detectStandard(ctx, collection)

	var record *domain.Collection
	err := m.admin(ctx, "add_sk_collection", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		now := m.clock.Now().UTC()
		existing, err := tx.GetCollection(ctx, collection)
		if err != nil {
			return err
		}
		record = existing
		if record == nil {
			record = &domain.Collection{Address: collection, Standard: domain.StandardUnknown, CreatedAt: now}
		}
		if standard != domain.StandardUnknown {
			record.Standard = standard
		}
		record.Trusted = true
		record.UpdatedAt = now
		if err := tx.SaveCollection(ctx, record); err != nil {
			return err
		}
		_, err = m.journal.Append(ctx, tx, domain.EventKindCollectionAdded, collection.Hex(), newCollectionEvent(record))
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (m *manager) detectStandard(ctx context.Context, collection common.Address) domain.ChainStandard {
	if m.prober == nil {
		return domain.StandardUnknown
	}
	standard, err := m.prober.DetectStandard(ctx, collection)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to detect collection standard",
			zap.String("collection", collection.Hex()),
			zap.Error(err))
		return domain.StandardUnknown
	}
	return standard
}

func (m *manager) RemoveSKCollection(ctx context.Context, caller, collection common.Address) error {
	return m.admin(ctx, "remove_sk_collection", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		record, err := tx.GetCollection(ctx, collection)
		if err != nil {
			return err
		}
		if record == nil || !record.Trusted {
			return fmt.Errorf("%w: %s", domain.ErrCollectionNotTrusted, collection.Hex())
		}
		record.Trusted = false
		record.UpdatedAt = m.clock.Now().UTC()
		if err := tx.SaveCollection(ctx, record); err != nil {
			return err
		}
		_, err = m.journal.Append(ctx, tx, domain.EventKindCollectionRemoved, collection.Hex(), newCollectionEvent(record))
		return err
	})
}

func (m *manager) SetMarketAddressForNFTCollection(ctx context.Context, caller, collection, market common.Address) error {
	if err := requireAddress("collection", collection); err != nil {
		return err
	}

	return m.admin(ctx, "set_market_address", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := m.assets(tx).SetTrustedMarket(ctx, collection, market); err != nil {
			return err
		}

		record, err := tx.GetCollection(ctx, collection)
		if err != nil {
			return err
		}
		now := m.clock.Now().UTC()
		if record == nil {
			record = &domain.Collection{Address: collection, Standard: domain.StandardUnknown, CreatedAt: now}
		}
		record.MarketAddress = market
		record.UpdatedAt = now
		if err := tx.SaveCollection(ctx, record); err != nil {
			return err
		}
		_, err = m.journal.Append(ctx, tx, domain.EventKindCollectionMarketSet, collection.Hex(), newCollectionEvent(record))
		return err
	})
}

func (m *manager) SetRoyaltyPolicy(ctx context.Context, caller, collection, beneficiary common.Address, bps uint16) error {
	if err := requireAddress("collection", collection); err != nil {
		return err
	}

	return m.admin(ctx, "set_royalty_policy", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := fees.ValidateConfig(cfg.ServiceFeeBps, bps); err != nil {
			return err
		}
		policy := &domain.RoyaltyPolicy{
			Collection:  collection,
			Beneficiary: beneficiary,
			Bps:         bps,
			UpdatedAt:   m.clock.Now().UTC(),
		}
		if err := tx.SaveRoyaltyPolicy(ctx, policy); err != nil {
			return err
		}
		_, err := m.journal.Append(ctx, tx, domain.EventKindRoyaltyPolicySet, collection.Hex(), royaltyPolicyEvent{
			Collection:  collection.Hex(),
			Beneficiary: beneficiary.Hex(),
			Bps:         int(bps),
		})
		return err
	})
}

func (m *manager) SetTeamWallet(ctx context.Context, caller, wallet common.Address) error {
	if err := requireAddress("team wallet", wallet); err != nil {
		return err
	}
	return m.admin(ctx, "set_team_wallet", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		cfg.TeamWallet = wallet
		return m.saveConfig(ctx, tx, cfg, domain.EventKindTeamWalletSet)
	})
}

func (m *manager) SetSigner(ctx context.Context, caller, signer common.Address) error {
	if err := requireAddress("signer", signer); err != nil {
		return err
	}
	return m.admin(ctx, "set_signer", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		cfg.Signer = signer
		return m.saveConfig(ctx, tx, cfg, domain.EventKindSignerSet)
	})
}

func (m *manager) TransferOwnership(ctx context.Context, caller, newAdmin common.Address) error {
	if err := requireAddress("admin", newAdmin); err != nil {
		return err
	}
	return m.admin(ctx, "transfer_ownership", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		cfg.Admin = newAdmin
		return m.saveConfig(ctx, tx, cfg, domain.EventKindOwnershipTransferred)
	})
}

func (m *manager) SetCounter(ctx context.Context, caller common.Address, value *big.Int) error {
	if value == nil || !domain.ValidUint256(value) {
		return fmt.Errorf("%w: counter must be a uint256", domain.ErrInvalidInput)
	}
	return m.admin(ctx, "set_counter", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := requireSchema(ctx, tx, migrations.CounterVersion); err != nil {
			return err
		}
		cfg.Counter = new(big.Int).Set(value)
		return m.saveConfig(ctx, tx, cfg, domain.EventKindCounterSet)
	})
}

func (m *manager) Upgrade(ctx context.Context, caller common.Address) error {
	return m.admin(ctx, "upgrade", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := requireSchema(ctx, tx, migrations.Latest); err != nil {
			return err
		}
		switch {
		case cfg.LogicVersion > LogicVersion:
			return fmt.Errorf("%w: logic version %d is newer than %d", domain.ErrUnsupportedVersion, cfg.LogicVersion, LogicVersion)
		case cfg.LogicVersion == LogicVersion:
			return nil
		}
		cfg.LogicVersion = LogicVersion
		return m.saveConfig(ctx, tx, cfg, domain.EventKindProtocolUpgraded)
	})
}

func (m *manager) Deposit(ctx context.Context, caller, account common.Address, amount *big.Int) error {
	if err := requireAddress("account", account); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 || !domain.ValidUint256(amount) {
		return fmt.Errorf("%w: deposit must be a positive uint256", domain.ErrInvalidInput)
	}

	return m.admin(ctx, "deposit", caller, func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := m.payments(tx, cfg.PaymentToken).Mint(ctx, account, amount); err != nil {
			return fmt.Errorf("%w: deposit: %v", domain.ErrPaymentTransferFailed, err)
		}
		_, err := m.journal.Append(ctx, tx, domain.EventKindPaymentDeposited, account.Hex(), depositEvent{
			Account: account.Hex(),
			Amount:  amount.String(),
		})
		return err
	})
}

// logicForSchema returns the newest logic version the applied schema can run
func logicForSchema(schemaVersion int) int {
	if schemaVersion >= migrations.Latest {
		return LogicVersion
	}
	return schemaVersion
}

func requireSchema(ctx context.Context, st store.Store, version int) error {
	current, err := st.GetSchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current < version {
		return fmt.Errorf("%w: schema version %d, need %d", domain.ErrUnsupportedVersion, current, version)
	}
	return nil
}

func (m *manager) Config(ctx context.Context) (*domain.ProtocolConfig, error) {
	cfg, err := m.store.GetProtocolConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotInitialized
	}
	return cfg, nil
}

func (m *manager) Counter(ctx context.Context) (*big.Int, error) {
	if err := requireSchema(ctx, m.store, migrations.CounterVersion); err != nil {
		return nil, err
	}
	cfg, err := m.Config(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CloneInt(cfg.Counter), nil
}

func (m *manager) Version(ctx context.Context) (*Version, error) {
	schemaVersion, err := m.store.GetSchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	v := &Version{
		Schema:         schemaVersion,
		RequiredSchema: migrations.Latest,
		BinaryLogic:    LogicVersion,
	}

	cfg, err := m.store.GetProtocolConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		v.Logic = cfg.LogicVersion
	}
	return v, nil
}

func (m *manager) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return m.store.ListCollections(ctx)
}

func newCollectionEvent(c *domain.Collection) collectionEvent {
	return collectionEvent{
		Collection: c.Address.Hex(),
		Trusted:    c.Trusted,
		Standard:   string(c.Standard),
		Market:     c.MarketAddress.Hex(),
	}
}
