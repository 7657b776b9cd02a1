package store

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-settlement/internal/domain"
)

// =============================================================================
// Test Data Builders
// =============================================================================

var (
	testCollection = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testSeller     = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testBuyer      = common.HexToAddress("0x3000000000000000000000000000000000000003")
	testToken      = common.HexToAddress("0x4000000000000000000000000000000000000004")
	testCustody    = common.HexToAddress("0x5000000000000000000000000000000000000005")
)

// buildTestListing creates an active listing
func buildTestListing(tokenID int64, quantity int64) *domain.Listing {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Listing{
		Collection: testCollection,
		TokenID:    big.NewInt(tokenID),
		Seller:     testSeller,
		Quantity:   big.NewInt(quantity),
		UnitPrice:  big.NewInt(0),
		ContentURI: "ipfs://token",
		Deadline:   now.Add(time.Hour).Unix(),
		Nonce:      big.NewInt(1),
		Status:     domain.ListingStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// buildTestConfig creates a protocol config
func buildTestConfig() *domain.ProtocolConfig {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.ProtocolConfig{
		Admin:         common.HexToAddress("0xa000000000000000000000000000000000000000"),
		Signer:        common.HexToAddress("0xb000000000000000000000000000000000000000"),
		TeamWallet:    common.HexToAddress("0xc000000000000000000000000000000000000000"),
		PaymentToken:  testToken,
		Custody:       testCustody,
		ServiceFeeBps: 100,
		Counter:       big.NewInt(0),
		LogicVersion:  2,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// RunStoreTests runs the shared behaviour tests against a Store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s Store)
	}{
		{"ProtocolConfig", testProtocolConfig},
		{"SchemaVersion", testSchemaVersion},
		{"Collections", testCollections},
		{"RoyaltyPolicies", testRoyaltyPolicies},
		{"ConsumeNonce", testConsumeNonce},
		{"Listings", testListings},
		{"RoyaltyBalances", testRoyaltyBalances},
		{"Ledgers", testLedgers},
		{"Journal", testJournal},
		{"TransactRollback", testTransactRollback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, s)
		})
	}
}

func testProtocolConfig(t *testing.T, s Store) {
	ctx := context.Background()

	cfg, err := s.GetProtocolConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	expected := buildTestConfig()
	require.NoError(t, s.SaveProtocolConfig(ctx, expected))

	cfg, err = s.GetProtocolConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, expected.Admin, cfg.Admin)
	assert.Equal(t, expected.Signer, cfg.Signer)
	assert.Equal(t, expected.TeamWallet, cfg.TeamWallet)
	assert.Equal(t, expected.PaymentToken, cfg.PaymentToken)
	assert.Equal(t, expected.Custody, cfg.Custody)
	assert.Equal(t, uint16(100), cfg.ServiceFeeBps)
	assert.Equal(t, int64(0), cfg.Counter.Int64())

	cfg.ServiceFeeBps = 250
	cfg.Counter = big.NewInt(9)
	require.NoError(t, s.SaveProtocolConfig(ctx, cfg))

	updated, err := s.GetProtocolConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(250), updated.ServiceFeeBps)
	assert.Equal(t, int64(9), updated.Counter.Int64())
}

func testSchemaVersion(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.SetSchemaVersion(ctx, 7))
	version, err := s.GetSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, version)
}

func testCollections(t *testing.T, s Store) {
	ctx := context.Background()

	c, err := s.GetCollection(ctx, testCollection)
	require.NoError(t, err)
	assert.Nil(t, c)

	now := time.Now().UTC()
	require.NoError(t, s.SaveCollection(ctx, &domain.Collection{
		Address:   testCollection,
		Trusted:   true,
		Standard:  domain.StandardERC1155,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	c, err = s.GetCollection(ctx, testCollection)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, c.Trusted)
	assert.Equal(t, domain.StandardERC1155, c.Standard)
	assert.Equal(t, common.Address{}, c.MarketAddress)

	c.MarketAddress = testCustody
	c.Trusted = false
	require.NoError(t, s.SaveCollection(ctx, c))

	all, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Trusted)
	assert.Equal(t, testCustody, all[0].MarketAddress)
}

func testRoyaltyPolicies(t *testing.T, s Store) {
	ctx := context.Background()

	highest, err := s.MaxRoyaltyBps(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), highest)

	require.NoError(t, s.SaveRoyaltyPolicy(ctx, &domain.RoyaltyPolicy{Collection: testCollection, Bps: 250, UpdatedAt: time.Now()}))
	require.NoError(t, s.SaveRoyaltyPolicy(ctx, &domain.RoyaltyPolicy{
		Collection:  common.HexToAddress("0x1000000000000000000000000000000000000009"),
		Beneficiary: testSeller,
		Bps:         500,
		UpdatedAt:   time.Now(),
	}))

	p, err := s.GetRoyaltyPolicy(ctx, testCollection)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, uint16(250), p.Bps)
	assert.Equal(t, common.Address{}, p.Beneficiary)

	highest, err = s.MaxRoyaltyBps(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(500), highest)
}

func testConsumeNonce(t *testing.T, s Store) {
	ctx := context.Background()
	record := domain.ConsumedNonce{
		Kind:       domain.AuthKindBuyItem,
		Principal:  testBuyer,
		Nonce:      big.NewInt(42),
		Digest:     common.HexToHash("0x01"),
		ConsumedAt: time.Now(),
	}

	ok, err := s.ConsumeNonce(ctx, record)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ConsumeNonce(ctx, record)
	require.NoError(t, err)
	assert.False(t, ok, "same triple must be rejected")

	sameDigest := record
	sameDigest.Kind = domain.AuthKindAcceptItem
	sameDigest.Principal = testSeller
	ok, err = s.ConsumeNonce(ctx, sameDigest)
	require.NoError(t, err)
	assert.False(t, ok, "same digest under another kind must be rejected")

	otherPrincipal := record
	otherPrincipal.Principal = testSeller
	otherPrincipal.Digest = common.HexToHash("0x02")
	ok, err = s.ConsumeNonce(ctx, otherPrincipal)
	require.NoError(t, err)
	assert.True(t, ok, "nonces are scoped per principal")
}

func testListings(t *testing.T, s Store) {
	ctx := context.Background()

	missing, err := s.GetListing(ctx, domain.ListingKey{Collection: testCollection, TokenID: big.NewInt(1), Seller: testSeller})
	require.NoError(t, err)
	assert.Nil(t, missing)

	first := buildTestListing(1, 5)
	require.NoError(t, s.SaveListing(ctx, first))
	second := buildTestListing(2, 1)
	second.UpdatedAt = first.UpdatedAt.Add(time.Second)
	require.NoError(t, s.SaveListing(ctx, second))

	got, err := s.GetListing(ctx, first.Key())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.Quantity.Int64())
	assert.Equal(t, "ipfs://token", got.ContentURI)
	assert.Equal(t, domain.ListingStatusActive, got.Status)

	got.Quantity = big.NewInt(0)
	got.UnitPrice = big.NewInt(1000)
	got.Status = domain.ListingStatusSoldOut
	require.NoError(t, s.SaveListing(ctx, got))

	updated, err := s.GetListing(ctx, first.Key())
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Quantity.Int64())
	assert.Equal(t, int64(1000), updated.UnitPrice.Int64())
	assert.Equal(t, domain.ListingStatusSoldOut, updated.Status)

	all, err := s.ListListings(ctx, ListingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].TokenID.Int64(), "most recently updated first")

	active := domain.ListingStatusActive
	filtered, err := s.ListListings(ctx, ListingFilter{Status: &active, Seller: &testSeller})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].TokenID.Int64())

	limited, err := s.ListListings(ctx, ListingFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func testRoyaltyBalances(t *testing.T, s Store) {
	ctx := context.Background()

	b, err := s.GetRoyaltyBalance(ctx, testSeller)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Accrued.Int64())
	assert.Nil(t, b.LastClaimedAt)

	now := time.Now().UTC().Truncate(time.Microsecond)
	b.Accrued = big.NewInt(125)
	b.TotalClaimed = big.NewInt(10)
	b.LastClaimedAt = &now
	b.UpdatedAt = now
	require.NoError(t, s.SaveRoyaltyBalance(ctx, b))

	got, err := s.GetRoyaltyBalance(ctx, testSeller)
	require.NoError(t, err)
	assert.Equal(t, int64(125), got.Accrued.Int64())
	assert.Equal(t, int64(10), got.TotalClaimed.Int64())
	require.NotNil(t, got.LastClaimedAt)
}

func testLedgers(t *testing.T, s Store) {
	ctx := context.Background()
	tokenID := big.NewInt(3)

	require.NoError(t, s.SetTokenBalance(ctx, testToken, testBuyer, big.NewInt(900)))
	balance, err := s.GetTokenBalance(ctx, testToken, testBuyer)
	require.NoError(t, err)
	assert.Equal(t, int64(900), balance.Int64())

	zero, err := s.GetTokenBalance(ctx, testToken, testSeller)
	require.NoError(t, err)
	assert.Equal(t, int64(0), zero.Int64())

	require.NoError(t, s.SetTokenAllowance(ctx, testToken, testBuyer, testCustody, big.NewInt(500)))
	allowance, err := s.GetTokenAllowance(ctx, testToken, testBuyer, testCustody)
	require.NoError(t, err)
	assert.Equal(t, int64(500), allowance.Int64())

	require.NoError(t, s.SaveAssetToken(ctx, &domain.AssetToken{
		Collection: testCollection,
		TokenID:    tokenID,
		Creator:    testSeller,
		URI:        "ipfs://asset",
		Supply:     big.NewInt(10),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}))
	token, err := s.GetAssetToken(ctx, testCollection, tokenID)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, testSeller, token.Creator)
	assert.Equal(t, int64(10), token.Supply.Int64())

	require.NoError(t, s.SetAssetBalance(ctx, testCollection, tokenID, testSeller, big.NewInt(10)))
	held, err := s.GetAssetBalance(ctx, testCollection, tokenID, testSeller)
	require.NoError(t, err)
	assert.Equal(t, int64(10), held.Int64())

	approved, err := s.GetOperatorApproval(ctx, testCollection, testSeller, testCustody)
	require.NoError(t, err)
	assert.False(t, approved)
	require.NoError(t, s.SetOperatorApproval(ctx, testCollection, testSeller, testCustody, true))
	approved, err = s.GetOperatorApproval(ctx, testCollection, testSeller, testCustody)
	require.NoError(t, err)
	assert.True(t, approved)

	require.NoError(t, s.SetCollectionMarket(ctx, testCollection, testCustody))
	market, err := s.GetCollectionMarket(ctx, testCollection)
	require.NoError(t, err)
	assert.Equal(t, testCustody, market)
}

func testJournal(t *testing.T, s Store) {
	ctx := context.Background()

	head, err := s.LastJournalEntry(ctx)
	require.NoError(t, err)
	assert.Nil(t, head)

	now := time.Now().UTC().Truncate(time.Microsecond)
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, s.AppendJournalEntry(ctx, &domain.JournalEntry{
			Sequence:    i,
			EventID:     common.BigToHash(big.NewInt(i)).Hex(),
			Kind:        domain.EventKindItemAdded,
			Subject:     "subject",
			Payload:     []byte(`{"n":1}`),
			PayloadHash: common.BigToHash(big.NewInt(100 + i)),
			PrevHash:    common.BigToHash(big.NewInt(i - 1)),
			EntryHash:   common.BigToHash(big.NewInt(200 + i)),
			CreatedAt:   now,
		}))
	}

	head, err = s.LastJournalEntry(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, int64(3), head.Sequence)
	assert.Equal(t, `{"n":1}`, string(head.Payload))

	after, err := s.ListJournalEntries(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, int64(2), after[0].Sequence)

	require.NoError(t, s.MarkJournalEntriesPublished(ctx, []int64{1, 2}, now))
	pending, err := s.ListUnpublishedJournalEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].Sequence)
}

func testTransactRollback(t *testing.T, s Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transact(ctx, func(tx Store) error {
		require.NoError(t, tx.AcquireWriteLock(ctx))
		require.NoError(t, tx.SaveListing(ctx, buildTestListing(9, 1)))
		ok, err := tx.ConsumeNonce(ctx, domain.ConsumedNonce{
			Kind:       domain.AuthKindAddItem,
			Principal:  testSeller,
			Nonce:      big.NewInt(9),
			Digest:     common.HexToHash("0x09"),
			ConsumedAt: time.Now(),
		})
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)

	listing, err := s.GetListing(ctx, buildTestListing(9, 1).Key())
	require.NoError(t, err)
	assert.Nil(t, listing, "listing write must roll back")

	ok, err := s.ConsumeNonce(ctx, domain.ConsumedNonce{
		Kind:       domain.AuthKindAddItem,
		Principal:  testSeller,
		Nonce:      big.NewInt(9),
		Digest:     common.HexToHash("0x09"),
		ConsumedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, ok, "nonce consumption must roll back")

	err = s.Transact(ctx, func(tx Store) error {
		return tx.SetTokenBalance(ctx, testToken, testSeller, big.NewInt(77))
	})
	require.NoError(t, err)
	balance, err := s.GetTokenBalance(ctx, testToken, testSeller)
	require.NoError(t, err)
	assert.Equal(t, int64(77), balance.Int64())
}
