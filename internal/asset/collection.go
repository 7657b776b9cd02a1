package asset

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store"
)

var (
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrNotApproved         = errors.New("operator not approved")
	ErrUntrustedMinter     = errors.New("minter is not the collection's trusted market")
	ErrSingleSupply        = errors.New("erc721 token supply is limited to 1")
	ErrTokenNotFound       = errors.New("token not minted")
)

// Collections exposes the NFT collections the market settles
//
//go:generate mockgen -source=collection.go -destination=../mocks/asset_collections.go -package=mocks -mock_names=Collections=MockCollections
type Collections interface {
	BalanceOf(ctx context.Context, collection common.Address, tokenID *big.Int, owner common.Address) (*big.Int, error)
	IsApprovedForAll(ctx context.Context, collection, owner, operator common.Address) (bool, error)
	SetApprovalForAll(ctx context.Context, collection, owner, operator common.Address, approved bool) error
	// TrustedMarket returns the market allowed to mint on the collection
	TrustedMarket(ctx context.Context, collection common.Address) (common.Address, error)
	SetTrustedMarket(ctx context.Context, collection, market common.Address) error
	// Mint issues amount units of tokenID to `to`. The first mint records `to` as creator.
	Mint(ctx context.Context, collection, minter, to common.Address, tokenID, amount *big.Int, uri string) error
	SetTokenURI(ctx context.Context, collection common.Address, tokenID *big.Int, uri string) error
	// Creator returns the address the token was first minted to
	Creator(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error)
	// SafeTransferFrom moves units of a token. operator must be the owner, approved
	// for all, or the collection's trusted market.
	SafeTransferFrom(ctx context.Context, collection, operator, from, to common.Address, tokenID, amount *big.Int) error
}

// Binder returns the collections view of a store, usually a transaction
type Binder func(st store.Store) Collections

// NewBinder returns a Binder for the store-backed ledger
func NewBinder(clock adapter.Clock) Binder {
	return func(st store.Store) Collections {
		return NewLedger(st, clock)
	}
}

// Ledger is a Collections whose ownership records live in the settlement store
type Ledger struct {
	st    store.Store
	clock adapter.Clock
}

// NewLedger creates a collections ledger over st
func NewLedger(st store.Store, clock adapter.Clock) *Ledger {
	return &Ledger{st: st, clock: clock}
}

func (l *Ledger) BalanceOf(ctx context.Context, collection common.Address, tokenID *big.Int, owner common.Address) (*big.Int, error) {
	return l.st.GetAssetBalance(ctx, collection, tokenID, owner)
}

func (l *Ledger) IsApprovedForAll(ctx context.Context, collection, owner, operator common.Address) (bool, error) {
	return l.st.GetOperatorApproval(ctx, collection, owner, operator)
}

func (l *Ledger) SetApprovalForAll(ctx context.Context, collection, owner, operator common.Address, approved bool) error {
	return l.st.SetOperatorApproval(ctx, collection, owner, operator, approved)
}

func (l *Ledger) TrustedMarket(ctx context.Context, collection common.Address) (common.Address, error) {
	return l.st.GetCollectionMarket(ctx, collection)
}

func (l *Ledger) SetTrustedMarket(ctx context.Context, collection, market common.Address) error {
	return l.st.SetCollectionMarket(ctx, collection, market)
}

func (l *Ledger) Mint(ctx context.Context, collection, minter, to common.Address, tokenID, amount *big.Int, uri string) error {
	if amount == nil || amount.Sign() <= 0 || !domain.ValidUint256(amount) {
		return fmt.Errorf("%w: mint amount must be positive", domain.ErrInvalidQuantity)
	}

	market, err := l.st.GetCollectionMarket(ctx, collection)
	if err != nil {
		return err
	}
	if market != minter || market == (common.Address{}) {
		return fmt.Errorf("%w: %s", ErrUntrustedMinter, minter.Hex())
	}

	now := l.clock.Now().UTC()
	token, err := l.st.GetAssetToken(ctx, collection, tokenID)
	if err != nil {
		return err
	}
	if token == nil {
		token = &domain.AssetToken{
			Collection: collection,
			TokenID:    new(big.Int).Set(tokenID),
			Creator:    to,
			URI:        uri,
			Supply:     new(big.Int),
			CreatedAt:  now,
		}
	}
	token.Supply.Add(token.Supply, amount)
	token.UpdatedAt = now
	if uri != "" {
		token.URI = uri
	}

	c, err := l.st.GetCollection(ctx, collection)
	if err != nil {
		return err
	}
	if c != nil && c.Standard == domain.StandardERC721 && token.Supply.Cmp(big.NewInt(1)) > 0 {
		return fmt.Errorf("%w: token %s", ErrSingleSupply, tokenID)
	}

	if err := l.st.SaveAssetToken(ctx, token); err != nil {
		return err
	}
	balance, err := l.st.GetAssetBalance(ctx, collection, tokenID, to)
	if err != nil {
		return err
	}
	return l.st.SetAssetBalance(ctx, collection, tokenID, to, balance.Add(balance, amount))
}

func (l *Ledger) SetTokenURI(ctx context.Context, collection common.Address, tokenID *big.Int, uri string) error {
	token, err := l.st.GetAssetToken(ctx, collection, tokenID)
	if err != nil {
		return err
	}
	if token == nil {
		return fmt.Errorf("%w: %s/%s", ErrTokenNotFound, collection.Hex(), tokenID)
	}
	token.URI = uri
	token.UpdatedAt = l.clock.Now().UTC()
	return l.st.SaveAssetToken(ctx, token)
}

func (l *Ledger) Creator(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	token, err := l.st.GetAssetToken(ctx, collection, tokenID)
	if err != nil {
		return common.Address{}, err
	}
	if token == nil {
		return common.Address{}, nil
	}
	return token.Creator, nil
}

func (l *Ledger) SafeTransferFrom(ctx context.Context, collection, operator, from, to common.Address, tokenID, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: transfer amount must be positive", domain.ErrInvalidQuantity)
	}
	if to == (common.Address{}) {
		return fmt.Errorf("%w: transfer to the zero address", domain.ErrInvalidInput)
	}

	if operator != from {
		approved, err := l.isOperator(ctx, collection, from, operator)
		if err != nil {
			return err
		}
		if !approved {
			return fmt.Errorf("%w: %s for %s", ErrNotApproved, operator.Hex(), from.Hex())
		}
	}

	fromBalance, err := l.st.GetAssetBalance(ctx, collection, tokenID, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s of token %s, needs %s",
			ErrInsufficientBalance, from.Hex(), fromBalance, tokenID, amount)
	}
	if from == to {
		return nil
	}
	toBalance, err := l.st.GetAssetBalance(ctx, collection, tokenID, to)
	if err != nil {
		return err
	}

	if err := l.st.SetAssetBalance(ctx, collection, tokenID, from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	return l.st.SetAssetBalance(ctx, collection, tokenID, to, toBalance.Add(toBalance, amount))
}

func (l *Ledger) isOperator(ctx context.Context, collection, owner, operator common.Address) (bool, error) {
	market, err := l.st.GetCollectionMarket(ctx, collection)
	if err != nil {
		return false, err
	}
	if market != (common.Address{}) && market == operator {
		return true, nil
	}
	return l.st.GetOperatorApproval(ctx, collection, owner, operator)
}
