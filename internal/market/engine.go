package market

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/asset"
	"github.com/feral-file/ff-settlement/internal/authz"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/journal"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/payment"
	"github.com/feral-file/ff-settlement/internal/royalty"
	"github.com/feral-file/ff-settlement/internal/store"
)

// Engine is the marketplace: listings, trades and royalty claims.
// Every mutating call is one atomic transaction.
//
//go:generate mockgen -source=engine.go -destination=../mocks/market_engine.go -package=mocks -mock_names=Engine=MockEngine
type Engine interface {
	// AddItem creates or replaces the caller's active listing for a token
	AddItem(ctx context.Context, input AddItemInput) (*domain.Listing, error)
	// CancelItem closes the caller's active listing
	CancelItem(ctx context.Context, input CancelItemInput) (*domain.Listing, error)
	// UpdateItemMetaData changes the content URI of the caller's active listing
	UpdateItemMetaData(ctx context.Context, input UpdateItemMetaDataInput) (*domain.Listing, error)

	// BuyItem settles a purchase from a listing
	BuyItem(ctx context.Context, input BuyItemInput) (*Settlement, error)
	// AcceptItem settles a buyer's offer accepted by the seller
	AcceptItem(ctx context.Context, input AcceptItemInput) (*Settlement, error)

	// ClaimRoyalty pays the caller's accrued royalties out of custody
	ClaimRoyalty(ctx context.Context, caller common.Address) (*Claim, error)
	// ClaimableRoyalty returns the royalty balance of a beneficiary
	ClaimableRoyalty(ctx context.Context, beneficiary common.Address) (*domain.RoyaltyBalance, error)

	// ApprovePayment sets how much of the caller's payment balance custody may pull
	ApprovePayment(ctx context.Context, caller common.Address, amount *big.Int) error
	// SetAssetApproval grants or revokes custody as operator of the caller's tokens
	SetAssetApproval(ctx context.Context, caller, collection common.Address, approved bool) error
	// PaymentBalance returns the payment token balance and custody allowance of an account
	PaymentBalance(ctx context.Context, account common.Address) (balance *big.Int, allowance *big.Int, err error)

	GetListing(ctx context.Context, key domain.ListingKey) (*domain.Listing, error)
	ListListings(ctx context.Context, filter store.ListingFilter) ([]domain.Listing, error)
}

type engine struct {
	store     store.Store
	verifier  *authz.Verifier
	payments  payment.Binder
	assets    asset.Binder
	royalties *royalty.Book
	journal   *journal.Writer
	clock     adapter.Clock
	metrics   *metrics.Metrics
}

// NewEngine creates the marketplace engine
func NewEngine(
	st store.Store,
	verifier *authz.Verifier,
	payments payment.Binder,
	assets asset.Binder,
	royalties *royalty.Book,
	writer *journal.Writer,
	clock adapter.Clock,
	m *metrics.Metrics,
) Engine {
	return &engine{
		store:     st,
		verifier:  verifier,
		payments:  payments,
		assets:    assets,
		royalties: royalties,
		journal:   writer,
		clock:     clock,
		metrics:   m,
	}
}

// mutate runs fn in a serialized transaction with the current protocol config
func (e *engine) mutate(ctx context.Context, operation string, fn func(tx store.Store, cfg *domain.ProtocolConfig) error) error {
	start := time.Now()
	err := e.store.Transact(ctx, func(tx store.Store) error {
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
		return fn(tx, cfg)
	})
	e.observe(ctx, operation, start, err)
	return err
}

func (e *engine) observe(ctx context.Context, operation string, start time.Time, err error) {
	code := domain.Code(err)
	e.metrics.ObserveOperation(operation, code, time.Since(start))
	switch {
	case err == nil:
		logger.DebugCtx(ctx, "Operation committed", zap.String("operation", operation))
	case code == "Internal":
		logger.ErrorCtx(ctx, fmt.Errorf("%s failed: %w", operation, err), zap.String("operation", operation))
	default:
		logger.InfoCtx(ctx, "Operation rejected",
			zap.String("operation", operation),
			zap.String("code", code),
			zap.Error(err))
	}
}

func (e *engine) requireTrusted(ctx context.Context, tx store.Store, collection common.Address) error {
	c, err := tx.GetCollection(ctx, collection)
	if err != nil {
		return err
	}
	if c == nil || !c.Trusted {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotTrusted, collection.Hex())
	}
	return nil
}

func validQuantity(quantity *big.Int) error {
	if quantity == nil || quantity.Sign() <= 0 || !domain.ValidUint256(quantity) {
		return fmt.Errorf("%w: quantity must be a positive uint256", domain.ErrInvalidQuantity)
	}
	return nil
}

func validTokenID(tokenID *big.Int) error {
	if tokenID == nil || !domain.ValidUint256(tokenID) {
		return fmt.Errorf("%w: token id must be a uint256", domain.ErrInvalidInput)
	}
	return nil
}

func validCaller(caller common.Address) error {
	if caller == (common.Address{}) {
		return fmt.Errorf("%w: caller required", domain.ErrUnauthorized)
	}
	return nil
}

// paymentFailure wraps a payment collaborator error, keeping domain errors as they are
func paymentFailure(step string, err error) error {
	if errors.Is(err, domain.ErrPaymentTransferFailed) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrPaymentTransferFailed, step, err)
}

// assetFailure wraps an asset collaborator error
func assetFailure(step string, err error) error {
	if errors.Is(err, domain.ErrAssetTransferFailed) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrAssetTransferFailed, step, err)
}

func (e *engine) GetListing(ctx context.Context, key domain.ListingKey) (*domain.Listing, error) {
	listing, err := e.store.GetListing(ctx, key)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrListingNotFound, key)
	}
	return listing, nil
}

func (e *engine) ListListings(ctx context.Context, filter store.ListingFilter) ([]domain.Listing, error) {
	return e.store.ListListings(ctx, filter)
}
