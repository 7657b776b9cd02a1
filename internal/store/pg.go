package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store/migrations"
	"github.com/feral-file/ff-settlement/internal/store/schema"
)

// writeLockKey is the advisory lock key that serializes settlement writers
const writeLockKey int64 = 0x5e771e

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to NormalizeConnectionPoolSettings defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// Transact runs fn inside a database transaction. Nested calls become savepoints.
func (s *pgStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

// AcquireWriteLock takes a transaction-scoped advisory lock
func (s *pgStore) AcquireWriteLock(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", writeLockKey).Error; err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	return nil
}

// locking returns a query that locks selected rows for update
func (s *pgStore) locking(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetSchemaVersion returns the applied schema version
func (s *pgStore) GetSchemaVersion(ctx context.Context) (int, error) {
	return migrations.CurrentVersion(ctx, s.db)
}

// SetSchemaVersion records the applied schema version
func (s *pgStore) SetSchemaVersion(ctx context.Context, version int) error {
	return migrations.RecordVersion(ctx, s.db, version)
}

// GetProtocolConfig returns the protocol config or nil if not initialized
func (s *pgStore) GetProtocolConfig(ctx context.Context) (*domain.ProtocolConfig, error) {
	var row schema.ProtocolConfig
	err := s.locking(ctx).Where("id = ?", schema.ProtocolConfigID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get protocol config: %w", err)
	}
	return protocolConfigFromRow(row)
}

// SaveProtocolConfig upserts the protocol config
func (s *pgStore) SaveProtocolConfig(ctx context.Context, cfg *domain.ProtocolConfig) error {
	row := schema.ProtocolConfig{
		ID:             schema.ProtocolConfigID,
		AdminAddress:   cfg.Admin.Hex(),
		SignerAddress:  cfg.Signer.Hex(),
		TeamWallet:     cfg.TeamWallet.Hex(),
		PaymentToken:   cfg.PaymentToken.Hex(),
		CustodyAddress: cfg.Custody.Hex(),
		ServiceFeeBps:  int(cfg.ServiceFeeBps),
		Counter:        domain.CloneInt(cfg.Counter).String(),
		LogicVersion:   cfg.LogicVersion,
		CreatedAt:      cfg.CreatedAt,
		UpdatedAt:      cfg.UpdatedAt,
	}
	updates := []string{
		"admin_address", "signer_address", "team_wallet", "payment_token",
		"custody_address", "service_fee_bps", "logic_version", "updated_at",
	}

	version, err := s.GetSchemaVersion(ctx)
	if err != nil {
		return err
	}
	query := s.db.WithContext(ctx)
	if version < migrations.CounterVersion {
		// Schema 1 has no counter column
		query = query.Omit("counter")
	} else {
		updates = append(updates, "counter")
	}

	err = query.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save protocol config: %w", err)
	}
	return nil
}

// GetCollection returns the registry record or nil
func (s *pgStore) GetCollection(ctx context.Context, address common.Address) (*domain.Collection, error) {
	var row schema.Collection
	err := s.db.WithContext(ctx).Where("address = ?", address.Hex()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	c := collectionFromRow(row)
	return &c, nil
}

// SaveCollection upserts a registry record
func (s *pgStore) SaveCollection(ctx context.Context, collection *domain.Collection) error {
	row := schema.Collection{
		Address:       collection.Address.Hex(),
		Trusted:       collection.Trusted,
		Standard:      string(collection.Standard),
		MarketAddress: hexOrEmpty(collection.MarketAddress),
		CreatedAt:     collection.CreatedAt,
		UpdatedAt:     collection.UpdatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"trusted", "standard", "market_address", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// ListCollections lists registry records ordered by address
func (s *pgStore) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	var rows []schema.Collection
	if err := s.db.WithContext(ctx).Order("address ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	out := make([]domain.Collection, 0, len(rows))
	for _, row := range rows {
		out = append(out, collectionFromRow(row))
	}
	return out, nil
}

// GetRoyaltyPolicy returns the policy for a collection or nil
func (s *pgStore) GetRoyaltyPolicy(ctx context.Context, collection common.Address) (*domain.RoyaltyPolicy, error) {
	var row schema.RoyaltyPolicy
	err := s.db.WithContext(ctx).Where("collection_address = ?", collection.Hex()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get royalty policy: %w", err)
	}
	return &domain.RoyaltyPolicy{
		Collection:  common.HexToAddress(row.CollectionAddress),
		Beneficiary: addressOrZero(row.Beneficiary),
		Bps:         uint16(row.Bps), //nolint:gosec,G115 // bounded by validation on write
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// SaveRoyaltyPolicy upserts a royalty policy
func (s *pgStore) SaveRoyaltyPolicy(ctx context.Context, policy *domain.RoyaltyPolicy) error {
	row := schema.RoyaltyPolicy{
		CollectionAddress: policy.Collection.Hex(),
		Beneficiary:       hexOrEmpty(policy.Beneficiary),
		Bps:               int(policy.Bps),
		UpdatedAt:         policy.UpdatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"beneficiary", "bps", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save royalty policy: %w", err)
	}
	return nil
}

// MaxRoyaltyBps returns the highest configured royalty rate
func (s *pgStore) MaxRoyaltyBps(ctx context.Context) (uint16, error) {
	var highest int
	err := s.db.WithContext(ctx).Model(&schema.RoyaltyPolicy{}).
		Select("COALESCE(MAX(bps), 0)").Scan(&highest).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max royalty bps: %w", err)
	}
	return uint16(highest), nil //nolint:gosec,G115 // bounded by validation on write
}

// ConsumeNonce inserts the consumed nonce, any unique conflict means replay
func (s *pgStore) ConsumeNonce(ctx context.Context, record domain.ConsumedNonce) (bool, error) {
	row := schema.ConsumedNonce{
		Kind:       string(record.Kind),
		Principal:  record.Principal.Hex(),
		Nonce:      record.Nonce.String(),
		Digest:     record.Digest.Hex(),
		ConsumedAt: record.ConsumedAt,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume nonce: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// GetListing returns the listing for key or nil, locking the row
func (s *pgStore) GetListing(ctx context.Context, key domain.ListingKey) (*domain.Listing, error) {
	var row schema.Listing
	err := s.locking(ctx).
		Where("collection_address = ? AND token_id = ? AND seller_address = ?",
			key.Collection.Hex(), key.TokenID.String(), key.Seller.Hex()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listingFromRow(row)
}

// SaveListing upserts a listing by key
func (s *pgStore) SaveListing(ctx context.Context, listing *domain.Listing) error {
	row := schema.Listing{
		CollectionAddress: listing.Collection.Hex(),
		TokenID:           listing.TokenID.String(),
		SellerAddress:     listing.Seller.Hex(),
		Quantity:          domain.CloneInt(listing.Quantity).String(),
		UnitPrice:         domain.CloneInt(listing.UnitPrice).String(),
		ContentURI:        listing.ContentURI,
		Deadline:          listing.Deadline,
		Nonce:             domain.CloneInt(listing.Nonce).String(),
		Status:            string(listing.Status),
		CreatedAt:         listing.CreatedAt,
		UpdatedAt:         listing.UpdatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collection_address"}, {Name: "token_id"}, {Name: "seller_address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity", "unit_price", "content_uri", "deadline", "nonce", "status", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// ListListings lists listings ordered by most recently updated
func (s *pgStore) ListListings(ctx context.Context, filter ListingFilter) ([]domain.Listing, error) {
	query := s.db.WithContext(ctx).Model(&schema.Listing{})
	if filter.Collection != nil {
		query = query.Where("collection_address = ?", filter.Collection.Hex())
	}
	if filter.Seller != nil {
		query = query.Where("seller_address = ?", filter.Seller.Hex())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []schema.Listing
	if err := query.Order("updated_at DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		l, err := listingFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}

// GetRoyaltyBalance returns the balance of a beneficiary, locking the row
func (s *pgStore) GetRoyaltyBalance(ctx context.Context, beneficiary common.Address) (*domain.RoyaltyBalance, error) {
	var row schema.RoyaltyBalance
	err := s.locking(ctx).Where("beneficiary = ?", beneficiary.Hex()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.RoyaltyBalance{
				Beneficiary:  beneficiary,
				Accrued:      new(big.Int),
				TotalClaimed: new(big.Int),
			}, nil
		}
		return nil, fmt.Errorf("failed to get royalty balance: %w", err)
	}

	accrued, err := parseNumeric(row.Accrued)
	if err != nil {
		return nil, err
	}
	claimed, err := parseNumeric(row.TotalClaimed)
	if err != nil {
		return nil, err
	}
	return &domain.RoyaltyBalance{
		Beneficiary:   beneficiary,
		Accrued:       accrued,
		TotalClaimed:  claimed,
		LastClaimedAt: row.LastClaimedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

// SaveRoyaltyBalance upserts a royalty balance
func (s *pgStore) SaveRoyaltyBalance(ctx context.Context, balance *domain.RoyaltyBalance) error {
	row := schema.RoyaltyBalance{
		Beneficiary:   balance.Beneficiary.Hex(),
		Accrued:       domain.CloneInt(balance.Accrued).String(),
		TotalClaimed:  domain.CloneInt(balance.TotalClaimed).String(),
		LastClaimedAt: balance.LastClaimedAt,
		UpdatedAt:     balance.UpdatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "beneficiary"}},
		DoUpdates: clause.AssignmentColumns([]string{"accrued", "total_claimed", "last_claimed_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save royalty balance: %w", err)
	}
	return nil
}

// GetTokenBalance returns the payment token balance of an account, locking the row
func (s *pgStore) GetTokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	var row schema.TokenBalance
	err := s.locking(ctx).
		Where("token_address = ? AND account_address = ?", token.Hex(), account.Hex()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("failed to get token balance: %w", err)
	}
	return parseNumeric(row.Amount)
}

// SetTokenBalance overwrites the payment token balance of an account
func (s *pgStore) SetTokenBalance(ctx context.Context, token, account common.Address, amount *big.Int) error {
	row := schema.TokenBalance{
		TokenAddress:   token.Hex(),
		AccountAddress: account.Hex(),
		Amount:         amount.String(),
		UpdatedAt:      time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_address"}, {Name: "account_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set token balance: %w", err)
	}
	return nil
}

// GetTokenAllowance returns the allowance owner granted spender, locking the row
func (s *pgStore) GetTokenAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var row schema.TokenAllowance
	err := s.locking(ctx).
		Where("token_address = ? AND owner_address = ? AND spender_address = ?", token.Hex(), owner.Hex(), spender.Hex()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("failed to get token allowance: %w", err)
	}
	return parseNumeric(row.Amount)
}

// SetTokenAllowance overwrites the allowance owner granted spender
func (s *pgStore) SetTokenAllowance(ctx context.Context, token, owner, spender common.Address, amount *big.Int) error {
	row := schema.TokenAllowance{
		TokenAddress:   token.Hex(),
		OwnerAddress:   owner.Hex(),
		SpenderAddress: spender.Hex(),
		Amount:         amount.String(),
		UpdatedAt:      time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_address"}, {Name: "owner_address"}, {Name: "spender_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set token allowance: %w", err)
	}
	return nil
}

// GetAssetToken returns a minted token or nil
func (s *pgStore) GetAssetToken(ctx context.Context, collection common.Address, tokenID *big.Int) (*domain.AssetToken, error) {
	var row schema.AssetToken
	err := s.locking(ctx).
		Where("collection_address = ? AND token_id = ?", collection.Hex(), tokenID.String()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get asset token: %w", err)
	}

	id, err := parseNumeric(row.TokenID)
	if err != nil {
		return nil, err
	}
	supply, err := parseNumeric(row.Supply)
	if err != nil {
		return nil, err
	}
	return &domain.AssetToken{
		Collection: common.HexToAddress(row.CollectionAddress),
		TokenID:    id,
		Creator:    common.HexToAddress(row.Creator),
		URI:        row.URI,
		Supply:     supply,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

// SaveAssetToken upserts a minted token
func (s *pgStore) SaveAssetToken(ctx context.Context, token *domain.AssetToken) error {
	row := schema.AssetToken{
		CollectionAddress: token.Collection.Hex(),
		TokenID:           token.TokenID.String(),
		Creator:           token.Creator.Hex(),
		URI:               token.URI,
		Supply:            domain.CloneInt(token.Supply).String(),
		CreatedAt:         token.CreatedAt,
		UpdatedAt:         token.UpdatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_address"}, {Name: "token_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"uri", "supply", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save asset token: %w", err)
	}
	return nil
}

// GetAssetBalance returns how many units of a token owner holds, locking the row
func (s *pgStore) GetAssetBalance(ctx context.Context, collection common.Address, tokenID *big.Int, owner common.Address) (*big.Int, error) {
	var row schema.AssetBalance
	err := s.locking(ctx).
		Where("collection_address = ? AND token_id = ? AND owner_address = ?", collection.Hex(), tokenID.String(), owner.Hex()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("failed to get asset balance: %w", err)
	}
	return parseNumeric(row.Amount)
}

// SetAssetBalance overwrites how many units of a token owner holds
func (s *pgStore) SetAssetBalance(ctx context.Context, collection common.Address, tokenID *big.Int, owner common.Address, amount *big.Int) error {
	row := schema.AssetBalance{
		CollectionAddress: collection.Hex(),
		TokenID:           tokenID.String(),
		OwnerAddress:      owner.Hex(),
		Amount:            amount.String(),
		UpdatedAt:         time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_address"}, {Name: "token_id"}, {Name: "owner_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set asset balance: %w", err)
	}
	return nil
}

// GetOperatorApproval reports whether operator may move all of owner's tokens
func (s *pgStore) GetOperatorApproval(ctx context.Context, collection, owner, operator common.Address) (bool, error) {
	var row schema.AssetOperatorApproval
	err := s.db.WithContext(ctx).
		Where("collection_address = ? AND owner_address = ? AND operator_address = ?", collection.Hex(), owner.Hex(), operator.Hex()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get operator approval: %w", err)
	}
	return row.Approved, nil
}

// SetOperatorApproval records setApprovalForAll
func (s *pgStore) SetOperatorApproval(ctx context.Context, collection, owner, operator common.Address, approved bool) error {
	row := schema.AssetOperatorApproval{
		CollectionAddress: collection.Hex(),
		OwnerAddress:      owner.Hex(),
		OperatorAddress:   operator.Hex(),
		Approved:          approved,
		UpdatedAt:         time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_address"}, {Name: "owner_address"}, {Name: "operator_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"approved", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set operator approval: %w", err)
	}
	return nil
}

// GetCollectionMarket returns the market a collection trusts, zero if none
func (s *pgStore) GetCollectionMarket(ctx context.Context, collection common.Address) (common.Address, error) {
	var row schema.AssetCollectionMarket
	err := s.db.WithContext(ctx).Where("collection_address = ?", collection.Hex()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Address{}, nil
		}
		return common.Address{}, fmt.Errorf("failed to get collection market: %w", err)
	}
	return common.HexToAddress(row.MarketAddress), nil
}

// SetCollectionMarket records the market a collection trusts
func (s *pgStore) SetCollectionMarket(ctx context.Context, collection, market common.Address) error {
	row := schema.AssetCollectionMarket{
		CollectionAddress: collection.Hex(),
		MarketAddress:     market.Hex(),
		UpdatedAt:         time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"market_address", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set collection market: %w", err)
	}
	return nil
}

// LastJournalEntry returns the head of the journal or nil
func (s *pgStore) LastJournalEntry(ctx context.Context) (*domain.JournalEntry, error) {
	var row schema.JournalEntry
	err := s.db.WithContext(ctx).Order("sequence DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last journal entry: %w", err)
	}
	e := journalEntryFromRow(row)
	return &e, nil
}

// AppendJournalEntry inserts the next journal entry
func (s *pgStore) AppendJournalEntry(ctx context.Context, entry *domain.JournalEntry) error {
	row := schema.JournalEntry{
		Sequence:    entry.Sequence,
		EventID:     entry.EventID,
		Kind:        string(entry.Kind),
		Subject:     entry.Subject,
		Payload:     []byte(entry.Payload),
		PayloadText: string(entry.Payload),
		PayloadHash: entry.PayloadHash.Hex(),
		PrevHash:    entry.PrevHash.Hex(),
		EntryHash:   entry.EntryHash.Hex(),
		CreatedAt:   entry.CreatedAt,
		PublishedAt: entry.PublishedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// ListJournalEntries lists entries with sequence greater than after, ascending
func (s *pgStore) ListJournalEntries(ctx context.Context, after int64, limit int) ([]domain.JournalEntry, error) {
	query := s.db.WithContext(ctx).Where("sequence > ?", after).Order("sequence ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []schema.JournalEntry
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return journalEntriesFromRows(rows), nil
}

// ListUnpublishedJournalEntries lists entries not yet relayed, ascending
func (s *pgStore) ListUnpublishedJournalEntries(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	query := s.db.WithContext(ctx).Where("published_at IS NULL").Order("sequence ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []schema.JournalEntry
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list unpublished journal entries: %w", err)
	}
	return journalEntriesFromRows(rows), nil
}

// MarkJournalEntriesPublished sets published_at on the given sequences
func (s *pgStore) MarkJournalEntriesPublished(ctx context.Context, sequences []int64, at time.Time) error {
	if len(sequences) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&schema.JournalEntry{}).
		Where("sequence IN ?", sequences).
		Update("published_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to mark journal entries published: %w", err)
	}
	return nil
}

func protocolConfigFromRow(row schema.ProtocolConfig) (*domain.ProtocolConfig, error) {
	counter, err := parseNumeric(row.Counter)
	if err != nil {
		return nil, err
	}
	return &domain.ProtocolConfig{
		Admin:         common.HexToAddress(row.AdminAddress),
		Signer:        common.HexToAddress(row.SignerAddress),
		TeamWallet:    common.HexToAddress(row.TeamWallet),
		PaymentToken:  common.HexToAddress(row.PaymentToken),
		Custody:       common.HexToAddress(row.CustodyAddress),
		ServiceFeeBps: uint16(row.ServiceFeeBps), //nolint:gosec,G115 // bounded by validation on write
		Counter:       counter,
		LogicVersion:  row.LogicVersion,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func collectionFromRow(row schema.Collection) domain.Collection {
	return domain.Collection{
		Address:       common.HexToAddress(row.Address),
		Trusted:       row.Trusted,
		Standard:      domain.ChainStandard(row.Standard),
		MarketAddress: addressOrZero(row.MarketAddress),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func listingFromRow(row schema.Listing) (*domain.Listing, error) {
	tokenID, err := parseNumeric(row.TokenID)
	if err != nil {
		return nil, err
	}
	quantity, err := parseNumeric(row.Quantity)
	if err != nil {
		return nil, err
	}
	unitPrice, err := parseNumeric(row.UnitPrice)
	if err != nil {
		return nil, err
	}
	nonce, err := parseNumeric(row.Nonce)
	if err != nil {
		return nil, err
	}
	return &domain.Listing{
		Collection: common.HexToAddress(row.CollectionAddress),
		TokenID:    tokenID,
		Seller:     common.HexToAddress(row.SellerAddress),
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		ContentURI: row.ContentURI,
		Deadline:   row.Deadline,
		Nonce:      nonce,
		Status:     domain.ListingStatus(row.Status),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func journalEntryFromRow(row schema.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		Sequence:    row.Sequence,
		EventID:     row.EventID,
		Kind:        domain.EventKind(row.Kind),
		Subject:     row.Subject,
		Payload:     []byte(row.PayloadText),
		PayloadHash: common.HexToHash(row.PayloadHash),
		PrevHash:    common.HexToHash(row.PrevHash),
		EntryHash:   common.HexToHash(row.EntryHash),
		CreatedAt:   row.CreatedAt,
		PublishedAt: row.PublishedAt,
	}
}

func journalEntriesFromRows(rows []schema.JournalEntry) []domain.JournalEntry {
	out := make([]domain.JournalEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, journalEntryFromRow(row))
	}
	return out
}

// parseNumeric parses a numeric(78,0) column value
func parseNumeric(value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid numeric value: %s", value)
	}
	return v, nil
}

func hexOrEmpty(address common.Address) string {
	if address == (common.Address{}) {
		return ""
	}
	return address.Hex()
}

func addressOrZero(value string) common.Address {
	if value == "" {
		return common.Address{}
	}
	return common.HexToAddress(value)
}
