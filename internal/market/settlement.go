package market

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/authz"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/fees"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/store"
)

// trade is the common shape of buy and accept
type trade struct {
	kind       domain.AuthKind
	principal  common.Address
	collection common.Address
	buyer      common.Address
	seller     common.Address
	tokenID    *big.Int
	quantity   *big.Int
	price      *big.Int
	auth       domain.Authorization
}

func (t trade) validate() error {
	if err := validCaller(t.principal); err != nil {
		return err
	}
	if err := validTokenID(t.tokenID); err != nil {
		return err
	}
	if t.price == nil || !domain.ValidUint256(t.price) {
		return fmt.Errorf("%w: price must be a uint256", domain.ErrInvalidInput)
	}
	if t.buyer == (common.Address{}) || t.seller == (common.Address{}) {
		return fmt.Errorf("%w: buyer and seller required", domain.ErrInvalidInput)
	}
	if t.buyer == t.seller {
		return fmt.Errorf("%w: buyer and seller must differ", domain.ErrInvalidInput)
	}
	return nil
}

func (t trade) digest() common.Hash {
	return authz.TradePayload{
		Kind:       t.kind,
		Collection: t.collection,
		Buyer:      t.buyer,
		Seller:     t.seller,
		TokenID:    t.tokenID,
		Quantity:   t.quantity,
		Price:      t.price,
		Nonce:      t.auth.Nonce,
		Deadline:   t.auth.Deadline,
	}.Digest()
}

func (e *engine) BuyItem(ctx context.Context, input BuyItemInput) (*Settlement, error) {
	return e.execute(ctx, trade{
		kind:       domain.AuthKindBuyItem,
		principal:  input.Caller,
		collection: input.Collection,
		buyer:      input.Caller,
		seller:     input.Seller,
		tokenID:    input.TokenID,
		quantity:   input.Quantity,
		price:      input.Price,
		auth:       input.Auth,
	})
}

func (e *engine) AcceptItem(ctx context.Context, input AcceptItemInput) (*Settlement, error) {
	return e.execute(ctx, trade{
		kind:       domain.AuthKindAcceptItem,
		principal:  input.Caller,
		collection: input.Collection,
		buyer:      input.Buyer,
		seller:     input.Caller,
		tokenID:    input.TokenID,
		quantity:   input.Quantity,
		price:      input.Price,
		auth:       input.Auth,
	})
}

func (e *engine) execute(ctx context.Context, t trade) (*Settlement, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var settlement *Settlement
	err := e.mutate(ctx, string(t.kind), func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := e.requireTrusted(ctx, tx, t.collection); err != nil {
			return err
		}
		if err := validQuantity(t.quantity); err != nil {
			return err
		}
		if err := e.verifier.Verify(ctx, tx, cfg.Signer, authz.Request{
			Kind:      t.kind,
			Principal: t.principal,
			Digest:    t.digest(),
			Auth:      t.auth,
		}); err != nil {
			return err
		}

		listing, err := e.reserve(ctx, tx, t)
		if err != nil {
			return err
		}

		settlement, err = e.settle(ctx, tx, cfg, t)
		if err != nil {
			return err
		}

		if listing != nil {
			listing.UnitPrice = new(big.Int).Quo(t.price, t.quantity)
			listing.UpdatedAt = e.clock.Now().UTC()
			if err := tx.SaveListing(ctx, listing); err != nil {
				return err
			}
			settlement.Listing = listing
		}

		kind := domain.EventKindItemBought
		if t.kind == domain.AuthKindAcceptItem {
			kind = domain.EventKindItemAccepted
		}
		subject := domain.ListingKey{Collection: t.collection, TokenID: t.tokenID, Seller: t.seller}.String()
		entry, err := e.journal.Append(ctx, tx, kind, subject, newSettlementEvent(settlement))
		if err != nil {
			return err
		}
		settlement.Sequence = entry.Sequence
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Trade settled",
		zap.String("kind", string(t.kind)),
		zap.String("collection", t.collection.Hex()),
		zap.String("tokenID", t.tokenID.String()),
		zap.String("buyer", t.buyer.Hex()),
		zap.String("seller", t.seller.Hex()),
		zap.String("price", t.price.String()),
		zap.String("fee", settlement.Split.Fee.String()),
		zap.String("royalty", settlement.Split.Royalty.String()),
		zap.Int64("sequence", settlement.Sequence))
	return settlement, nil
}

// reserve takes the traded units off the seller's listing. A buy requires an
// active listing with enough remaining; an accept only trims a listing that exists.
func (e *engine) reserve(ctx context.Context, tx store.Store, t trade) (*domain.Listing, error) {
	key := domain.ListingKey{Collection: t.collection, TokenID: t.tokenID, Seller: t.seller}
	listing, err := tx.GetListing(ctx, key)
	if err != nil {
		return nil, err
	}

	if t.kind == domain.AuthKindAcceptItem {
		if listing == nil || listing.Status != domain.ListingStatusActive {
			return nil, nil
		}
		taken := t.quantity
		if listing.Quantity.Cmp(taken) < 0 {
			taken = listing.Quantity
		}
		listing.Quantity = new(big.Int).Sub(listing.Quantity, taken)
		if listing.Quantity.Sign() == 0 {
			listing.Status = domain.ListingStatusSoldOut
		}
		return listing, nil
	}

	if listing == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrListingNotFound, key)
	}
	if listing.Status.Closed() {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrListingClosed, key, listing.Status)
	}
	if listing.Quantity.Cmp(t.quantity) < 0 {
		return nil, fmt.Errorf("%w: %s remaining, %s requested", domain.ErrInsufficientQuantity, listing.Quantity, t.quantity)
	}

	listing.Quantity = new(big.Int).Sub(listing.Quantity, t.quantity)
	if listing.Quantity.Sign() == 0 {
		listing.Status = domain.ListingStatusSoldOut
	}
	return listing, nil
}

// settle moves the money and the asset:
// buyer -> custody (price), custody -> seller (proceeds), custody -> team wallet (fee),
// royalty stays in custody and accrues to the beneficiary, asset seller -> buyer.
func (e *engine) settle(ctx context.Context, tx store.Store, cfg *domain.ProtocolConfig, t trade) (*Settlement, error) {
	assets := e.assets(tx)
	policy, err := e.royalties.ResolvePolicy(ctx, tx, assets, t.collection, t.tokenID, t.seller)
	if err != nil {
		return nil, err
	}
	split, err := fees.Distribute(fees.Input{
		Price:         t.price,
		ServiceFeeBps: cfg.ServiceFeeBps,
		RoyaltyBps:    policy.Bps,
	})
	if err != nil {
		return nil, err
	}

	token := e.payments(tx, cfg.PaymentToken)
	if err := token.TransferFrom(ctx, cfg.Custody, t.buyer, cfg.Custody, split.Price); err != nil {
		return nil, paymentFailure("collect price", err)
	}
	if err := token.Transfer(ctx, cfg.Custody, t.seller, split.SellerProceeds); err != nil {
		return nil, paymentFailure("pay seller", err)
	}
	if err := token.Transfer(ctx, cfg.Custody, cfg.TeamWallet, split.Fee); err != nil {
		return nil, paymentFailure("pay service fee", err)
	}
	if err := e.royalties.Credit(ctx, tx, policy.Beneficiary, split.Royalty); err != nil {
		return nil, err
	}

	if err := assets.SafeTransferFrom(ctx, t.collection, cfg.Custody, t.seller, t.buyer, t.tokenID, t.quantity); err != nil {
		return nil, assetFailure("deliver token", err)
	}

	return &Settlement{
		Kind:               t.kind,
		Collection:         t.collection,
		TokenID:            new(big.Int).Set(t.tokenID),
		Buyer:              t.buyer,
		Seller:             t.seller,
		Quantity:           new(big.Int).Set(t.quantity),
		Split:              split,
		TeamWallet:         cfg.TeamWallet,
		RoyaltyBeneficiary: policy.Beneficiary,
		Nonce:              new(big.Int).Set(t.auth.Nonce),
	}, nil
}
