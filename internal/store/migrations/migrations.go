package migrations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store/schema"
)

// Latest is the schema version this binary requires
const Latest = 2

// CounterVersion is the first schema version with protocol_configs.counter
const CounterVersion = 2

const versionKey = "schema_version"

// Migration is one additive schema step
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// All lists every migration in version order
var All = []Migration{
	{Version: 1, Name: "initial schema", Up: upInitialSchema},
	{Version: 2, Name: "protocol counter", Up: upProtocolCounter},
}

// protocolConfigV1 is protocol_configs as shipped by schema version 1
type protocolConfigV1 struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	AdminAddress   string    `gorm:"column:admin_address;not null;type:text"`
	SignerAddress  string    `gorm:"column:signer_address;not null;type:text"`
	TeamWallet     string    `gorm:"column:team_wallet;not null;type:text"`
	PaymentToken   string    `gorm:"column:payment_token;not null;type:text"`
	CustodyAddress string    `gorm:"column:custody_address;not null;type:text"`
	ServiceFeeBps  int       `gorm:"column:service_fee_bps;not null"`
	LogicVersion   int       `gorm:"column:logic_version;not null;default:1"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (protocolConfigV1) TableName() string {
	return "protocol_configs"
}

func upInitialSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&schema.KeyValueStore{},
		&protocolConfigV1{},
		&schema.Collection{},
		&schema.RoyaltyPolicy{},
		&schema.Listing{},
		&schema.ConsumedNonce{},
		&schema.RoyaltyBalance{},
		&schema.TokenBalance{},
		&schema.TokenAllowance{},
		&schema.AssetToken{},
		&schema.AssetBalance{},
		&schema.AssetOperatorApproval{},
		&schema.AssetCollectionMarket{},
		&schema.JournalEntry{},
	)
}

func upProtocolCounter(tx *gorm.DB) error {
	return tx.Exec(`ALTER TABLE protocol_configs ADD COLUMN IF NOT EXISTS counter numeric(78,0) NOT NULL DEFAULT 0`).Error
}

// CurrentVersion returns the applied schema version, 0 for an empty database
func CurrentVersion(ctx context.Context, db *gorm.DB) (int, error) {
	if !db.WithContext(ctx).Migrator().HasTable(&schema.KeyValueStore{}) {
		return 0, nil
	}

	var kv schema.KeyValueStore
	err := db.WithContext(ctx).Where("key = ?", versionKey).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	version, err := strconv.Atoi(kv.Value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse schema version: %w", err)
	}
	return version, nil
}

// Migrate applies pending migrations up to target, each in its own transaction.
// It returns the version found before migrating.
func Migrate(ctx context.Context, db *gorm.DB, target int) (int, error) {
	if target < 1 || target > Latest {
		return 0, fmt.Errorf("%w: target %d", domain.ErrUnsupportedVersion, target)
	}

	current, err := CurrentVersion(ctx, db)
	if err != nil {
		return 0, err
	}
	if current > target {
		return current, fmt.Errorf("%w: database at %d, refusing to downgrade to %d", domain.ErrUnsupportedVersion, current, target)
	}

	for _, m := range All {
		if m.Version <= current || m.Version > target {
			continue
		}
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return RecordVersion(ctx, tx, m.Version)
		})
		if err != nil {
			return current, fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
	}

	return current, nil
}

// RecordVersion stores the applied schema version
func RecordVersion(ctx context.Context, db *gorm.DB, version int) error {
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&schema.KeyValueStore{Key: versionKey, Value: strconv.Itoa(version)}).Error
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}
