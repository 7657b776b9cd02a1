package market

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/asset"
	"github.com/feral-file/ff-settlement/internal/authz"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/journal"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/payment"
	"github.com/feral-file/ff-settlement/internal/royalty"
	"github.com/feral-file/ff-settlement/internal/store"
)

var (
	now          = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline     = now.Add(time.Hour).Unix()
	collection   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	paymentToken = common.HexToAddress("0x4000000000000000000000000000000000000004")
	custody      = common.HexToAddress("0x5000000000000000000000000000000000000005")
	teamWallet   = common.HexToAddress("0x7ea0000000000000000000000000000000000000")
	seller       = common.HexToAddress("0x2000000000000000000000000000000000000002")
	buyer        = common.HexToAddress("0x3000000000000000000000000000000000000003")
	beneficiary  = common.HexToAddress("0xbe00000000000000000000000000000000000000")
)

// fixture is an initialized market on an in-memory store
type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    store.Store
	engine   Engine
	operator *ecdsa.PrivateKey
	nonce    int64
}

func newFixture(t *testing.T, serviceFeeBps uint16) *fixture {
	ctx := context.Background()
	operator, err := crypto.GenerateKey()
	require.NoError(t, err)

	st := store.NewMemoryStore()
	require.NoError(t, st.SetSchemaVersion(ctx, 2))
	require.NoError(t, st.SaveProtocolConfig(ctx, &domain.ProtocolConfig{
		Admin:         common.HexToAddress("0xad00000000000000000000000000000000000000"),
		Signer:        crypto.PubkeyToAddress(operator.PublicKey),
		TeamWallet:    teamWallet,
		PaymentToken:  paymentToken,
		Custody:       custody,
		ServiceFeeBps: serviceFeeBps,
		Counter:       big.NewInt(0),
		LogicVersion:  2,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
	require.NoError(t, st.SaveCollection(ctx, &domain.Collection{
		Address:  collection,
		Trusted:  true,
		Standard: domain.StandardERC1155,
	}))
	require.NoError(t, st.SetCollectionMarket(ctx, collection, custody))

	clock := adapter.FixedClock{At: now}
	engine := NewEngine(
		st,
		authz.NewVerifier(clock),
		payment.Bind,
		asset.NewBinder(clock),
		royalty.NewBook(clock),
		journal.NewWriter(clock, adapter.NewJSON(), adapter.NewJCS()),
		clock,
		metrics.New(),
	)

	return &fixture{t: t, ctx: ctx, store: st, engine: engine, operator: operator}
}

func (f *fixture) nextNonce() *big.Int {
	f.nonce++
	return big.NewInt(f.nonce)
}

func (f *fixture) sign(digest common.Hash, nonce *big.Int, dl int64) domain.Authorization {
	sig, err := authz.Sign(digest, f.operator)
	require.NoError(f.t, err)
	return domain.Authorization{Nonce: nonce, Deadline: dl, Signature: sig}
}

func (f *fixture) addItemInput(tokenID, quantity int64, uri string) AddItemInput {
	nonce := f.nextNonce()
	input := AddItemInput{
		Caller:     seller,
		Collection: collection,
		TokenID:    big.NewInt(tokenID),
		Quantity:   big.NewInt(quantity),
		ContentURI: uri,
	}
	input.Auth = f.sign(authz.AddItemPayload{
		Collection: collection,
		Seller:     seller,
		TokenID:    input.TokenID,
		Quantity:   input.Quantity,
		ContentURI: uri,
		Nonce:      nonce,
		Deadline:   deadline,
	}.Digest(), nonce, deadline)
	return input
}

func (f *fixture) addItem(tokenID, quantity int64) *domain.Listing {
	listing, err := f.engine.AddItem(f.ctx, f.addItemInput(tokenID, quantity, "ipfs://token"))
	require.NoError(f.t, err)
	return listing
}

func (f *fixture) buyInputWithDeadline(tokenID, quantity, price int64, dl int64) BuyItemInput {
	nonce := f.nextNonce()
	input := BuyItemInput{
		Caller:     buyer,
		Collection: collection,
		Seller:     seller,
		TokenID:    big.NewInt(tokenID),
		Quantity:   big.NewInt(quantity),
		Price:      big.NewInt(price),
	}
	input.Auth = f.sign(authz.TradePayload{
		Kind:       domain.AuthKindBuyItem,
		Collection: collection,
		Buyer:      buyer,
		Seller:     seller,
		TokenID:    input.TokenID,
		Quantity:   input.Quantity,
		Price:      input.Price,
		Nonce:      nonce,
		Deadline:   dl,
	}.Digest(), nonce, dl)
	return input
}

func (f *fixture) buyInput(tokenID, quantity, price int64) BuyItemInput {
	return f.buyInputWithDeadline(tokenID, quantity, price, deadline)
}

func (f *fixture) acceptInput(tokenID, quantity, price int64) AcceptItemInput {
	nonce := f.nextNonce()
	input := AcceptItemInput{
		Caller:     seller,
		Collection: collection,
		Buyer:      buyer,
		TokenID:    big.NewInt(tokenID),
		Quantity:   big.NewInt(quantity),
		Price:      big.NewInt(price),
	}
	input.Auth = f.sign(authz.TradePayload{
		Kind:       domain.AuthKindAcceptItem,
		Collection: collection,
		Buyer:      buyer,
		Seller:     seller,
		TokenID:    input.TokenID,
		Quantity:   input.Quantity,
		Price:      input.Price,
		Nonce:      nonce,
		Deadline:   deadline,
	}.Digest(), nonce, deadline)
	return input
}

func (f *fixture) cancelInput(tokenID int64) CancelItemInput {
	nonce := f.nextNonce()
	input := CancelItemInput{Caller: seller, Collection: collection, TokenID: big.NewInt(tokenID)}
	input.Auth = f.sign(authz.CancelPayload{
		Collection: collection,
		Seller:     seller,
		TokenID:    input.TokenID,
		Nonce:      nonce,
		Deadline:   deadline,
	}.Digest(), nonce, deadline)
	return input
}

func (f *fixture) updateInput(tokenID int64, uri string) UpdateItemMetaDataInput {
	nonce := f.nextNonce()
	input := UpdateItemMetaDataInput{Caller: seller, Collection: collection, TokenID: big.NewInt(tokenID), ContentURI: uri}
	input.Auth = f.sign(authz.UpdateMetadataPayload{
		Collection: collection,
		Seller:     seller,
		TokenID:    input.TokenID,
		ContentURI: uri,
		Nonce:      nonce,
		Deadline:   deadline,
	}.Digest(), nonce, deadline)
	return input
}

// fundBuyer mints payment tokens to the buyer and approves custody to pull them
func (f *fixture) fundBuyer(amount int64) {
	ledger := payment.NewLedger(f.store, paymentToken)
	require.NoError(f.t, ledger.Mint(f.ctx, buyer, big.NewInt(amount)))
	require.NoError(f.t, f.engine.ApprovePayment(f.ctx, buyer, big.NewInt(amount)))
}

func (f *fixture) paymentBalance(account common.Address) int64 {
	b, err := f.store.GetTokenBalance(f.ctx, paymentToken, account)
	require.NoError(f.t, err)
	return b.Int64()
}

func (f *fixture) assetBalance(tokenID int64, owner common.Address) int64 {
	b, err := f.store.GetAssetBalance(f.ctx, collection, big.NewInt(tokenID), owner)
	require.NoError(f.t, err)
	return b.Int64()
}

func (f *fixture) listing(tokenID int64) *domain.Listing {
	l, err := f.store.GetListing(f.ctx, domain.ListingKey{Collection: collection, TokenID: big.NewInt(tokenID), Seller: seller})
	require.NoError(f.t, err)
	return l
}

func (f *fixture) journalLength() int {
	entries, err := f.store.ListJournalEntries(f.ctx, 0, 0)
	require.NoError(f.t, err)
	return len(entries)
}

func TestEngine_BuyScenario(t *testing.T) {
	f := newFixture(t, 100)
	f.fundBuyer(10000)

	listing := f.addItem(1123, 1)
	assert.Equal(t, domain.ListingStatusActive, listing.Status)
	assert.Equal(t, int64(1), f.assetBalance(1123, seller), "shortfall is minted to the seller")

	settlement, err := f.engine.BuyItem(f.ctx, f.buyInput(1123, 1, 5000))
	require.NoError(t, err)

	assert.Equal(t, int64(50), settlement.Split.Fee.Int64())
	assert.Equal(t, int64(0), settlement.Split.Royalty.Int64())
	assert.Equal(t, int64(4950), settlement.Split.SellerProceeds.Int64())
	require.NotNil(t, settlement.Listing)
	assert.Equal(t, domain.ListingStatusSoldOut, settlement.Listing.Status)
	assert.Equal(t, int64(5000), settlement.Listing.UnitPrice.Int64())

	assert.Equal(t, int64(4950), f.paymentBalance(seller))
	assert.Equal(t, int64(50), f.paymentBalance(teamWallet))
	assert.Equal(t, int64(5000), f.paymentBalance(buyer))
	assert.Equal(t, int64(0), f.paymentBalance(custody))
	assert.Equal(t, int64(0), f.assetBalance(1123, seller))
	assert.Equal(t, int64(1), f.assetBalance(1123, buyer))

	_, err = f.engine.BuyItem(f.ctx, f.buyInput(1123, 1, 5000))
	assert.ErrorIs(t, err, domain.ErrListingClosed)

	entries, err := f.store.ListJournalEntries(f.ctx, 0, 0)
	require.NoError(t, err)
	require.NoError(t, journal.Verify(entries, common.Hash{}))
	assert.Equal(t, domain.EventKindItemBought, entries[len(entries)-1].Kind)
	assert.Equal(t, entries[len(entries)-1].Sequence, settlement.Sequence)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(entries[len(entries)-1].Payload, &payload))
	assert.Equal(t, "1123", payload["token_id"])
	assert.Equal(t, "4950", payload["seller_proceeds"])
	assert.Equal(t, teamWallet.Hex(), payload["team_wallet"])
	assert.Equal(t, string(domain.ListingStatusSoldOut), payload["listing_status"])
	assert.NotContains(t, payload, "tokenId")
}

func TestEngine_PartialBuys(t *testing.T) {
	f := newFixture(t, 250)
	f.fundBuyer(100000)
	f.addItem(7, 5)

	first, err := f.engine.BuyItem(f.ctx, f.buyInput(7, 2, 2000))
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.Listing.Quantity.Int64())
	assert.Equal(t, domain.ListingStatusActive, first.Listing.Status)
	assert.Equal(t, int64(1000), first.Listing.UnitPrice.Int64())

	second, err := f.engine.BuyItem(f.ctx, f.buyInput(7, 3, 3600))
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.Listing.Quantity.Int64())
	assert.Equal(t, domain.ListingStatusSoldOut, second.Listing.Status)
	assert.Equal(t, int64(1200), second.Listing.UnitPrice.Int64())

	assert.Equal(t, int64(5), f.assetBalance(7, buyer))
	assert.Equal(t, int64(50+90), f.paymentBalance(teamWallet))
}

func TestEngine_OverBuyHasNoSideEffects(t *testing.T) {
	f := newFixture(t, 100)
	f.fundBuyer(10000)
	f.addItem(3, 2)
	journalBefore := f.journalLength()

	input := f.buyInput(3, 3, 3000)
	_, err := f.engine.BuyItem(f.ctx, input)
	require.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	assert.Equal(t, int64(2), f.listing(3).Quantity.Int64())
	assert.Equal(t, domain.ListingStatusActive, f.listing(3).Status)
	assert.Equal(t, int64(10000), f.paymentBalance(buyer))
	assert.Equal(t, int64(0), f.paymentBalance(seller))
	assert.Equal(t, int64(2), f.assetBalance(3, seller))
	assert.Equal(t, journalBefore, f.journalLength())

	consumed, err := f.store.ConsumeNonce(f.ctx, domain.ConsumedNonce{
		Kind:      domain.AuthKindBuyItem,
		Principal: buyer,
		Nonce:     input.Auth.Nonce,
		Digest:    crypto.Keccak256Hash([]byte("unused")),
	})
	require.NoError(t, err)
	assert.True(t, consumed, "the failed buy must not consume its nonce")
}

func TestEngine_AuthorizationFailures(t *testing.T) {
	tests := []struct {
		name        string
		input       func(f *fixture) BuyItemInput
		expectError error
	}{
		{
			name: "expired",
			input: func(f *fixture) BuyItemInput {
				return f.buyInputWithDeadline(1, 1, 100, now.Unix()-1)
			},
			expectError: domain.ErrAuthExpired,
		},
		{
			name: "price differs from signed price",
			input: func(f *fixture) BuyItemInput {
				in := f.buyInput(1, 1, 100)
				in.Price = big.NewInt(1)
				return in
			},
			expectError: domain.ErrAuthInvalidSigner,
		},
		{
			name: "signed by someone else",
			input: func(f *fixture) BuyItemInput {
				in := f.buyInput(1, 1, 100)
				other, err := crypto.GenerateKey()
				require.NoError(f.t, err)
				sig, err := authz.Sign(crypto.Keccak256Hash([]byte("x")), other)
				require.NoError(f.t, err)
				in.Auth.Signature = sig
				return in
			},
			expectError: domain.ErrAuthInvalidSigner,
		},
		{
			name: "zero quantity",
			input: func(f *fixture) BuyItemInput {
				return f.buyInput(1, 0, 100)
			},
			expectError: domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 100)
			f.fundBuyer(1000)
			f.addItem(1, 2)

			_, err := f.engine.BuyItem(f.ctx, tt.input(f))
			assert.ErrorIs(t, err, tt.expectError)
			assert.Equal(t, int64(2), f.listing(1).Quantity.Int64())
		})
	}
}

func TestEngine_Replay(t *testing.T) {
	f := newFixture(t, 100)
	f.fundBuyer(10000)
	f.addItem(1, 2)

	input := f.buyInput(1, 1, 1000)
	_, err := f.engine.BuyItem(f.ctx, input)
	require.NoError(t, err)

	_, err = f.engine.BuyItem(f.ctx, input)
	assert.ErrorIs(t, err, domain.ErrAuthReplayed)
	assert.Equal(t, int64(1), f.listing(1).Quantity.Int64())

	listed := f.addItemInput(9, 1, "ipfs://nine")
	_, err = f.engine.AddItem(f.ctx, listed)
	require.NoError(t, err)
	_, err = f.engine.AddItem(f.ctx, listed)
	assert.ErrorIs(t, err, domain.ErrAuthReplayed)
}

func TestEngine_ConcurrentAddItemSameNonce(t *testing.T) {
	f := newFixture(t, 100)
	input := f.addItemInput(5, 1, "ipfs://five")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		replays   int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.AddItem(f.ctx, input)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrAuthReplayed):
				replays++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 7, replays)
}

func TestEngine_CollaboratorFailuresRollBack(t *testing.T) {
	t.Run("buyer without allowance", func(t *testing.T) {
		f := newFixture(t, 100)
		require.NoError(t, payment.NewLedger(f.store, paymentToken).Mint(f.ctx, buyer, big.NewInt(5000)))
		f.addItem(1, 1)

		_, err := f.engine.BuyItem(f.ctx, f.buyInput(1, 1, 5000))
		require.ErrorIs(t, err, domain.ErrPaymentTransferFailed)
		assert.Equal(t, domain.ListingStatusActive, f.listing(1).Status)
		assert.Equal(t, int64(5000), f.paymentBalance(buyer))
		assert.Equal(t, int64(1), f.assetBalance(1, seller))
	})

	t.Run("seller no longer holds the token", func(t *testing.T) {
		f := newFixture(t, 100)
		f.fundBuyer(5000)
		f.addItem(1, 1)
		elsewhere := common.HexToAddress("0xe15e000000000000000000000000000000000000")
		require.NoError(t, asset.NewLedger(f.store, adapter.FixedClock{At: now}).
			SafeTransferFrom(f.ctx, collection, seller, seller, elsewhere, big.NewInt(1), big.NewInt(1)))

		_, err := f.engine.BuyItem(f.ctx, f.buyInput(1, 1, 5000))
		require.ErrorIs(t, err, domain.ErrAssetTransferFailed)
		assert.Equal(t, domain.ListingStatusActive, f.listing(1).Status)
		assert.Equal(t, int64(5000), f.paymentBalance(buyer))
		assert.Equal(t, int64(0), f.paymentBalance(seller))
		assert.Equal(t, int64(0), f.paymentBalance(teamWallet))
	})
}

func TestEngine_RoyaltyAccrualAndClaim(t *testing.T) {
	f := newFixture(t, 100)
	f.fundBuyer(20000)
	require.NoError(t, f.store.SaveRoyaltyPolicy(f.ctx, &domain.RoyaltyPolicy{
		Collection:  collection,
		Beneficiary: beneficiary,
		Bps:         500,
	}))
	f.addItem(1, 2)

	settlement, err := f.engine.BuyItem(f.ctx, f.buyInput(1, 2, 10001))
	require.NoError(t, err)

	split := settlement.Split
	assert.Equal(t, int64(100), split.Fee.Int64())
	assert.Equal(t, int64(500), split.Royalty.Int64())
	assert.Equal(t, int64(9401), split.SellerProceeds.Int64())
	total := new(big.Int).Add(split.Fee, split.Royalty)
	total.Add(total, split.SellerProceeds)
	assert.Equal(t, 0, total.Cmp(split.Price))
	assert.Equal(t, beneficiary, settlement.RoyaltyBeneficiary)
	assert.Equal(t, int64(500), f.paymentBalance(custody), "royalty stays in custody until claimed")

	claimable, err := f.engine.ClaimableRoyalty(f.ctx, beneficiary)
	require.NoError(t, err)
	assert.Equal(t, int64(500), claimable.Accrued.Int64())

	claim, err := f.engine.ClaimRoyalty(f.ctx, beneficiary)
	require.NoError(t, err)
	assert.Equal(t, int64(500), claim.Amount.Int64())
	assert.NotZero(t, claim.Sequence)
	assert.Equal(t, int64(500), f.paymentBalance(beneficiary))
	assert.Equal(t, int64(0), f.paymentBalance(custody))

	again, err := f.engine.ClaimRoyalty(f.ctx, beneficiary)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Amount.Int64())
	assert.Zero(t, again.Sequence)
	assert.Equal(t, int64(500), f.paymentBalance(beneficiary))
}

func TestEngine_FeeConfigInvalid(t *testing.T) {
	f := newFixture(t, 9000)
	f.fundBuyer(1000)
	require.NoError(t, f.store.SaveRoyaltyPolicy(f.ctx, &domain.RoyaltyPolicy{Collection: collection, Beneficiary: beneficiary, Bps: 2000}))
	f.addItem(1, 1)

	_, err := f.engine.BuyItem(f.ctx, f.buyInput(1, 1, 1000))
	assert.ErrorIs(t, err, domain.ErrFeeConfigInvalid)
	assert.Equal(t, domain.ListingStatusActive, f.listing(1).Status)
}

func TestEngine_AcceptItem(t *testing.T) {
	t.Run("without listing", func(t *testing.T) {
		f := newFixture(t, 100)
		f.fundBuyer(2000)
		ledger := asset.NewLedger(f.store, adapter.FixedClock{At: now})
		require.NoError(t, ledger.Mint(f.ctx, collection, custody, seller, big.NewInt(4), big.NewInt(1), "ipfs://four"))

		settlement, err := f.engine.AcceptItem(f.ctx, f.acceptInput(4, 1, 2000))
		require.NoError(t, err)
		assert.Nil(t, settlement.Listing)
		assert.Equal(t, int64(1980), f.paymentBalance(seller))
		assert.Equal(t, int64(1), f.assetBalance(4, buyer))
	})

	t.Run("trims the seller's listing", func(t *testing.T) {
		f := newFixture(t, 100)
		f.fundBuyer(10000)
		f.addItem(4, 3)

		settlement, err := f.engine.AcceptItem(f.ctx, f.acceptInput(4, 2, 2000))
		require.NoError(t, err)
		require.NotNil(t, settlement.Listing)
		assert.Equal(t, int64(1), settlement.Listing.Quantity.Int64())
		assert.Equal(t, domain.ListingStatusActive, settlement.Listing.Status)
		assert.Equal(t, int64(1), f.assetBalance(4, seller))
	})

	t.Run("buy authorization cannot settle an accept", func(t *testing.T) {
		f := newFixture(t, 100)
		f.fundBuyer(10000)
		f.addItem(4, 1)
		_, err := f.engine.CancelItem(f.ctx, f.cancelInput(4))
		require.NoError(t, err)

		buy := f.buyInput(4, 1, 100)
		accept := AcceptItemInput{
			Caller:     seller,
			Collection: collection,
			Buyer:      buyer,
			TokenID:    buy.TokenID,
			Quantity:   buy.Quantity,
			Price:      buy.Price,
			Auth:       buy.Auth,
		}
		_, err = f.engine.AcceptItem(f.ctx, accept)
		assert.ErrorIs(t, err, domain.ErrAuthInvalidSigner)
		assert.Equal(t, int64(0), f.assetBalance(4, buyer))
		assert.Equal(t, int64(10000), f.paymentBalance(buyer))
		assert.Equal(t, domain.ListingStatusCancelled, f.listing(4).Status)
	})

	t.Run("accept authorization cannot settle a buy", func(t *testing.T) {
		f := newFixture(t, 100)
		f.fundBuyer(10000)
		f.addItem(4, 3)

		accept := f.acceptInput(4, 1, 100)
		buy := BuyItemInput{
			Caller:     buyer,
			Collection: collection,
			Seller:     seller,
			TokenID:    accept.TokenID,
			Quantity:   accept.Quantity,
			Price:      accept.Price,
			Auth:       accept.Auth,
		}
		_, err := f.engine.BuyItem(f.ctx, buy)
		assert.ErrorIs(t, err, domain.ErrAuthInvalidSigner)
		assert.Equal(t, int64(3), f.listing(4).Quantity.Int64())
	})
}

func TestEngine_CancelItem(t *testing.T) {
	f := newFixture(t, 100)
	f.fundBuyer(1000)

	_, err := f.engine.CancelItem(f.ctx, f.cancelInput(1))
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	f.addItem(1, 2)
	cancelled, err := f.engine.CancelItem(f.ctx, f.cancelInput(1))
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(2), cancelled.Quantity.Int64())

	_, err = f.engine.CancelItem(f.ctx, f.cancelInput(1))
	assert.ErrorIs(t, err, domain.ErrListingClosed)

	_, err = f.engine.BuyItem(f.ctx, f.buyInput(1, 1, 100))
	assert.ErrorIs(t, err, domain.ErrListingClosed)

	relisted, err := f.engine.AddItem(f.ctx, f.addItemInput(1, 1, "ipfs://again"))
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusActive, relisted.Status)
	assert.Equal(t, int64(2), f.assetBalance(1, seller), "no mint when the seller already holds enough")
}

func TestEngine_UpdateItemMetaData(t *testing.T) {
	f := newFixture(t, 100)
	f.fundBuyer(1000)
	f.addItem(1, 2)

	updated, err := f.engine.UpdateItemMetaData(f.ctx, f.updateInput(1, "ipfs://new"))
	require.NoError(t, err)
	assert.Equal(t, "ipfs://new", updated.ContentURI)
	assert.Equal(t, int64(2), updated.Quantity.Int64())
	assert.Equal(t, int64(0), updated.UnitPrice.Int64())

	token, err := f.store.GetAssetToken(f.ctx, collection, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "ipfs://new", token.URI)

	_, err = f.engine.UpdateItemMetaData(f.ctx, f.updateInput(1, "bad\nuri"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.engine.CancelItem(f.ctx, f.cancelInput(1))
	require.NoError(t, err)
	_, err = f.engine.UpdateItemMetaData(f.ctx, f.updateInput(1, "ipfs://late"))
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestEngine_AddItemPreconditions(t *testing.T) {
	t.Run("untrusted collection", func(t *testing.T) {
		f := newFixture(t, 100)
		require.NoError(t, f.store.SaveCollection(f.ctx, &domain.Collection{Address: collection, Trusted: false}))
		_, err := f.engine.AddItem(f.ctx, f.addItemInput(1, 1, "ipfs://x"))
		assert.ErrorIs(t, err, domain.ErrCollectionNotTrusted)
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newFixture(t, 100)
		_, err := f.engine.AddItem(f.ctx, f.addItemInput(1, 0, "ipfs://x"))
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("collection does not trust the market", func(t *testing.T) {
		f := newFixture(t, 100)
		require.NoError(t, f.store.SetCollectionMarket(f.ctx, collection, common.Address{}))
		_, err := f.engine.AddItem(f.ctx, f.addItemInput(1, 1, "ipfs://x"))
		assert.ErrorIs(t, err, domain.ErrAssetTransferFailed)
		assert.Nil(t, f.listing(1))
	})

	t.Run("not initialized", func(t *testing.T) {
		clock := adapter.FixedClock{At: now}
		engine := NewEngine(store.NewMemoryStore(), authz.NewVerifier(clock), payment.Bind, asset.NewBinder(clock),
			royalty.NewBook(clock), journal.NewWriter(clock, adapter.NewJSON(), adapter.NewJCS()), clock, nil)
		f := newFixture(t, 100)
		_, err := engine.AddItem(context.Background(), f.addItemInput(1, 1, "ipfs://x"))
		assert.ErrorIs(t, err, domain.ErrNotInitialized)
	})
}

func TestEngine_Reads(t *testing.T) {
	f := newFixture(t, 100)
	f.addItem(1, 1)
	f.addItem(2, 3)

	listing, err := f.engine.GetListing(f.ctx, domain.ListingKey{Collection: collection, TokenID: big.NewInt(2), Seller: seller})
	require.NoError(t, err)
	assert.Equal(t, int64(3), listing.Quantity.Int64())

	_, err = f.engine.GetListing(f.ctx, domain.ListingKey{Collection: collection, TokenID: big.NewInt(3), Seller: seller})
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	all, err := f.engine.ListListings(f.ctx, store.ListingFilter{Seller: &seller})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, f.engine.SetAssetApproval(f.ctx, seller, collection, true))
	approved, err := f.store.GetOperatorApproval(f.ctx, collection, seller, custody)
	require.NoError(t, err)
	assert.True(t, approved)

	f.fundBuyer(700)
	balance, allowance, err := f.engine.PaymentBalance(f.ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance.Int64())
	assert.Equal(t, int64(700), allowance.Int64())
}
