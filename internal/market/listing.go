package market

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/asset"
	"github.com/feral-file/ff-settlement/internal/authz"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/store"
)

func (e *engine) AddItem(ctx context.Context, input AddItemInput) (*domain.Listing, error) {
	if err := validCaller(input.Caller); err != nil {
		return nil, err
	}
	if err := validTokenID(input.TokenID); err != nil {
		return nil, err
	}
	if !domain.ValidContentURI(input.ContentURI) {
		return nil, fmt.Errorf("%w: content uri must be printable utf-8", domain.ErrInvalidInput)
	}

	var listing *domain.Listing
	err := e.mutate(ctx, "add_item", func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := e.requireTrusted(ctx, tx, input.Collection); err != nil {
			return err
		}
		if err := validQuantity(input.Quantity); err != nil {
			return err
		}

		digest := authz.AddItemPayload{
			Collection: input.Collection,
			Seller:     input.Caller,
			TokenID:    input.TokenID,
			Quantity:   input.Quantity,
			ContentURI: input.ContentURI,
			Nonce:      input.Auth.Nonce,
			Deadline:   input.Auth.Deadline,
		}.Digest()
		if err := e.verifier.Verify(ctx, tx, cfg.Signer, authz.Request{
			Kind:      domain.AuthKindAddItem,
			Principal: input.Caller,
			Digest:    digest,
			Auth:      input.Auth,
		}); err != nil {
			return err
		}

		minted, err := e.mintShortfall(ctx, tx, cfg, input)
		if err != nil {
			return err
		}

		now := e.clock.Now().UTC()
		listing = &domain.Listing{
			Collection: input.Collection,
			TokenID:    new(big.Int).Set(input.TokenID),
			Seller:     input.Caller,
			Quantity:   new(big.Int).Set(input.Quantity),
			UnitPrice:  new(big.Int),
			ContentURI: input.ContentURI,
			Deadline:   input.Auth.Deadline,
			Nonce:      new(big.Int).Set(input.Auth.Nonce),
			Status:     domain.ListingStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		existing, err := tx.GetListing(ctx, listing.Key())
		if err != nil {
			return err
		}
		if existing != nil {
			listing.CreatedAt = existing.CreatedAt
			listing.UnitPrice = existing.UnitPrice
		}
		if err := tx.SaveListing(ctx, listing); err != nil {
			return err
		}

		event := newListingEvent(listing)
		if minted.Sign() > 0 {
			event.Minted = minted.String()
		}
		_, err = e.journal.Append(ctx, tx, domain.EventKindItemAdded, listing.Key().String(), event)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Item listed",
		zap.String("collection", listing.Collection.Hex()),
		zap.String("tokenID", listing.TokenID.String()),
		zap.String("seller", listing.Seller.Hex()),
		zap.String("quantity", listing.Quantity.String()))
	return listing, nil
}

// mintShortfall mints the units the seller lacks when the collection trusts
// this market, returning how many were minted
func (e *engine) mintShortfall(ctx context.Context, tx store.Store, cfg *domain.ProtocolConfig, input AddItemInput) (*big.Int, error) {
	assets := e.assets(tx)
	held, err := assets.BalanceOf(ctx, input.Collection, input.TokenID, input.Caller)
	if err != nil {
		return nil, err
	}
	if held.Cmp(input.Quantity) >= 0 {
		return new(big.Int), nil
	}

	shortfall := new(big.Int).Sub(input.Quantity, held)
	if err := assets.Mint(ctx, input.Collection, cfg.Custody, input.Caller, input.TokenID, shortfall, input.ContentURI); err != nil {
		return nil, assetFailure("mint", err)
	}
	return shortfall, nil
}

func (e *engine) CancelItem(ctx context.Context, input CancelItemInput) (*domain.Listing, error) {
	if err := validCaller(input.Caller); err != nil {
		return nil, err
	}
	if err := validTokenID(input.TokenID); err != nil {
		return nil, err
	}

	var listing *domain.Listing
	err := e.mutate(ctx, "cancel_item", func(tx store.Store, cfg *domain.ProtocolConfig) error {
		digest := authz.CancelPayload{
			Collection: input.Collection,
			Seller:     input.Caller,
			TokenID:    input.TokenID,
			Nonce:      input.Auth.Nonce,
			Deadline:   input.Auth.Deadline,
		}.Digest()
		if err := e.verifier.Verify(ctx, tx, cfg.Signer, authz.Request{
			Kind:      domain.AuthKindCancelItem,
			Principal: input.Caller,
			Digest:    digest,
			Auth:      input.Auth,
		}); err != nil {
			return err
		}

		key := domain.ListingKey{Collection: input.Collection, TokenID: input.TokenID, Seller: input.Caller}
		var err error
		listing, err = tx.GetListing(ctx, key)
		if err != nil {
			return err
		}
		if listing == nil {
			return fmt.Errorf("%w: %s", domain.ErrListingNotFound, key)
		}
		if listing.Status.Closed() {
			return fmt.Errorf("%w: %s is %s", domain.ErrListingClosed, key, listing.Status)
		}

		listing.Status = domain.ListingStatusCancelled
		listing.UpdatedAt = e.clock.Now().UTC()
		if err := tx.SaveListing(ctx, listing); err != nil {
			return err
		}
		_, err = e.journal.Append(ctx, tx, domain.EventKindItemCancelled, key.String(), newListingEvent(listing))
		return err
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (e *engine) UpdateItemMetaData(ctx context.Context, input UpdateItemMetaDataInput) (*domain.Listing, error) {
	if err := validCaller(input.Caller); err != nil {
		return nil, err
	}
	if err := validTokenID(input.TokenID); err != nil {
		return nil, err
	}
	if !domain.ValidContentURI(input.ContentURI) {
		return nil, fmt.Errorf("%w: content uri must be printable utf-8", domain.ErrInvalidInput)
	}

	var listing *domain.Listing
	err := e.mutate(ctx, "update_item_metadata", func(tx store.Store, cfg *domain.ProtocolConfig) error {
		digest := authz.UpdateMetadataPayload{
			Collection: input.Collection,
			Seller:     input.Caller,
			TokenID:    input.TokenID,
			ContentURI: input.ContentURI,
			Nonce:      input.Auth.Nonce,
			Deadline:   input.Auth.Deadline,
		}.Digest()
		if err := e.verifier.Verify(ctx, tx, cfg.Signer, authz.Request{
			Kind:      domain.AuthKindUpdateMetadata,
			Principal: input.Caller,
			Digest:    digest,
			Auth:      input.Auth,
		}); err != nil {
			return err
		}

		key := domain.ListingKey{Collection: input.Collection, TokenID: input.TokenID, Seller: input.Caller}
		var err error
		listing, err = tx.GetListing(ctx, key)
		if err != nil {
			return err
		}
		if listing == nil || listing.Status != domain.ListingStatusActive {
			return fmt.Errorf("%w: no active listing %s", domain.ErrListingNotFound, key)
		}

		listing.ContentURI = input.ContentURI
		listing.UpdatedAt = e.clock.Now().UTC()
		if err := tx.SaveListing(ctx, listing); err != nil {
			return err
		}

		// Tokens minted outside this market keep their own URI
		err = e.assets(tx).SetTokenURI(ctx, input.Collection, input.TokenID, input.ContentURI)
		if err != nil && !errors.Is(err, asset.ErrTokenNotFound) {
			return assetFailure("set token uri", err)
		}

		_, err = e.journal.Append(ctx, tx, domain.EventKindItemMetadataUpdated, key.String(), newListingEvent(listing))
		return err
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}
