package store

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/domain"
)

// ListingFilter narrows ListListings
type ListingFilter struct {
	Collection *common.Address
	Seller     *common.Address
	Status     *domain.ListingStatus
	Limit      int
	Offset     int
}

// Store defines the interface for database operations
//
// Reads of mutable rows inside Transact take row locks, and AcquireWriteLock
// serializes writers so every committed operation has a total order.
type Store interface {
	// Transact runs fn inside a transaction; an error from fn rolls every write back.
	// Nested calls join the outer transaction.
	Transact(ctx context.Context, fn func(tx Store) error) error
	// AcquireWriteLock serializes mutating operations until the transaction ends
	AcquireWriteLock(ctx context.Context) error

	// GetSchemaVersion returns the applied schema version, 0 for an empty database
	GetSchemaVersion(ctx context.Context) (int, error)
	// SetSchemaVersion records the applied schema version
	SetSchemaVersion(ctx context.Context, version int) error

	// GetProtocolConfig returns the protocol config or nil if not initialized
	GetProtocolConfig(ctx context.Context) (*domain.ProtocolConfig, error)
	// SaveProtocolConfig upserts the protocol config
	SaveProtocolConfig(ctx context.Context, cfg *domain.ProtocolConfig) error

	// GetCollection returns the registry record or nil
	GetCollection(ctx context.Context, address common.Address) (*domain.Collection, error)
	// SaveCollection upserts a registry record
	SaveCollection(ctx context.Context, collection *domain.Collection) error
	// ListCollections lists registry records ordered by address
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// GetRoyaltyPolicy returns the policy for a collection or nil
	GetRoyaltyPolicy(ctx context.Context, collection common.Address) (*domain.RoyaltyPolicy, error)
	// SaveRoyaltyPolicy upserts a royalty policy
	SaveRoyaltyPolicy(ctx context.Context, policy *domain.RoyaltyPolicy) error
	// MaxRoyaltyBps returns the highest configured royalty rate
	MaxRoyaltyBps(ctx context.Context) (uint16, error)

	// ConsumeNonce records a spent authorization, returning false if the
	// (kind, principal, nonce) triple or the digest was already consumed
	ConsumeNonce(ctx context.Context, record domain.ConsumedNonce) (bool, error)

	// GetListing returns the listing for key or nil
	GetListing(ctx context.Context, key domain.ListingKey) (*domain.Listing, error)
	// SaveListing upserts a listing by key
	SaveListing(ctx context.Context, listing *domain.Listing) error
	// ListListings lists listings ordered by most recently updated
	ListListings(ctx context.Context, filter ListingFilter) ([]domain.Listing, error)

	// GetRoyaltyBalance returns the balance of a beneficiary, zero-valued if none
	GetRoyaltyBalance(ctx context.Context, beneficiary common.Address) (*domain.RoyaltyBalance, error)
	// SaveRoyaltyBalance upserts a royalty balance
	SaveRoyaltyBalance(ctx context.Context, balance *domain.RoyaltyBalance) error

	// GetTokenBalance returns the payment token balance of an account
	GetTokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error)
	// SetTokenBalance overwrites the payment token balance of an account
	SetTokenBalance(ctx context.Context, token, account common.Address, amount *big.Int) error
	// GetTokenAllowance returns the allowance owner granted spender
	GetTokenAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	// SetTokenAllowance overwrites the allowance owner granted spender
	SetTokenAllowance(ctx context.Context, token, owner, spender common.Address, amount *big.Int) error

	// GetAssetToken returns a minted token or nil
	GetAssetToken(ctx context.Context, collection common.Address, tokenID *big.Int) (*domain.AssetToken, error)
	// SaveAssetToken upserts a minted token
	SaveAssetToken(ctx context.Context, token *domain.AssetToken) error
	// GetAssetBalance returns how many units of a token owner holds
	GetAssetBalance(ctx context.Context, collection common.Address, tokenID *big.Int, owner common.Address) (*big.Int, error)
	// SetAssetBalance overwrites how many units of a token owner holds
	SetAssetBalance(ctx context.Context, collection common.Address, tokenID *big.Int, owner common.Address, amount *big.Int) error
	// GetOperatorApproval reports whether operator may move all of owner's tokens
	GetOperatorApproval(ctx context.Context, collection, owner, operator common.Address) (bool, error)
	// SetOperatorApproval records setApprovalForAll
	SetOperatorApproval(ctx context.Context, collection, owner, operator common.Address, approved bool) error
	// GetCollectionMarket returns the market a collection trusts, zero if none
	GetCollectionMarket(ctx context.Context, collection common.Address) (common.Address, error)
	// SetCollectionMarket records the market a collection trusts
	SetCollectionMarket(ctx context.Context, collection, market common.Address) error

	// LastJournalEntry returns the head of the journal or nil
	LastJournalEntry(ctx context.Context) (*domain.JournalEntry, error)
	// AppendJournalEntry inserts the next journal entry
	AppendJournalEntry(ctx context.Context, entry *domain.JournalEntry) error
	// ListJournalEntries lists entries with sequence greater than after, ascending
	ListJournalEntries(ctx context.Context, after int64, limit int) ([]domain.JournalEntry, error)
	// ListUnpublishedJournalEntries lists entries not yet relayed, ascending
	ListUnpublishedJournalEntries(ctx context.Context, limit int) ([]domain.JournalEntry, error)
	// MarkJournalEntriesPublished sets published_at on the given sequences
	MarkJournalEntriesPublished(ctx context.Context, sequences []int64, at time.Time) error
}
