package rest_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-settlement/internal/api/middleware"
	"github.com/feral-file/ff-settlement/internal/api/rest"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/fees"
	"github.com/feral-file/ff-settlement/internal/market"
	"github.com/feral-file/ff-settlement/internal/mocks"
	"github.com/feral-file/ff-settlement/internal/protocol"
	"github.com/feral-file/ff-settlement/internal/store"
)

var (
	caller     = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	seller     = common.HexToAddress("0x00000000000000000000000000000000000000c2")
	collection = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

type journalStub struct {
	entries []domain.JournalEntry
	after   int64
	limit   int
}

func (j *journalStub) ListJournalEntries(_ context.Context, after int64, limit int) ([]domain.JournalEntry, error) {
	j.after, j.limit = after, limit
	return j.entries, nil
}

type testServer struct {
	router  *gin.Engine
	engine  *mocks.MockEngine
	manager *mocks.MockManager
	journal *journalStub
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   caller.Hex(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(key)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	s := &testServer{
		router:  gin.New(),
		engine:  mocks.NewMockEngine(ctrl),
		manager: mocks.NewMockManager(ctrl),
		journal: &journalStub{},
		token:   token,
	}
	rest.SetupRoutes(s.router, rest.NewHandler(s.engine, s.manager, s.journal), middleware.AuthConfig{JWTPublicKey: publicPEM})
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func authorization() map[string]interface{} {
	return map[string]interface{}{
		"nonce":     "7",
		"deadline":  1700000000,
		"signature": "0x" + fmt.Sprintf("%0130x", 1),
	}
}

func TestAddItem(t *testing.T) {
	s := newTestServer(t)

	listing := &domain.Listing{
		Collection: collection,
		TokenID:    big.NewInt(1),
		Seller:     caller,
		Quantity:   big.NewInt(3),
		ContentURI: "ipfs://item",
		Nonce:      big.NewInt(7),
		Status:     domain.ListingStatusActive,
	}

	s.engine.EXPECT().AddItem(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input market.AddItemInput) (*domain.Listing, error) {
			assert.Equal(t, caller, input.Caller)
			assert.Equal(t, collection, input.Collection)
			assert.Equal(t, "1", input.TokenID.String())
			assert.Equal(t, "3", input.Quantity.String())
			assert.Equal(t, "ipfs://item", input.ContentURI)
			assert.Equal(t, "7", input.Auth.Nonce.String())
			assert.Equal(t, int64(1700000000), input.Auth.Deadline)
			assert.Len(t, input.Auth.Signature, 65)
			return listing, nil
		})

	w := s.do(t, http.MethodPost, "/api/v1/listings", map[string]interface{}{
		"collection":    collection.Hex(),
		"token_id":      "1",
		"quantity":      "3",
		"content_uri":   "ipfs://item",
		"authorization": authorization(),
	}, true)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "3", resp["quantity"])
	assert.Equal(t, "active", resp["status"])
}

func TestAddItem_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "bad collection",
			body: map[string]interface{}{"collection": "0x123", "token_id": "1", "quantity": "1", "authorization": authorization()},
		},
		{
			name: "negative quantity",
			body: map[string]interface{}{"collection": collection.Hex(), "token_id": "1", "quantity": "-1", "authorization": authorization()},
		},
		{
			name: "quantity above uint256",
			body: map[string]interface{}{
				"collection": collection.Hex(), "token_id": "1",
				"quantity":      "115792089237316195423570985008687907853269984665640564039457584007913129639936",
				"authorization": authorization(),
			},
		},
		{
			name: "signature not hex",
			body: map[string]interface{}{
				"collection": collection.Hex(), "token_id": "1", "quantity": "1",
				"authorization": map[string]interface{}{"nonce": "1", "deadline": 1, "signature": "zz"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			// No engine expectation: the request must not reach it
			w := s.do(t, http.MethodPost, "/api/v1/listings", tt.body, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "validation_failed", errorCode(t, w))
		})
	}
}

func TestMarketOperations_RequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/listings"},
		{http.MethodPost, "/api/v1/trades/buy"},
		{http.MethodPost, "/api/v1/trades/accept"},
		{http.MethodPost, "/api/v1/royalties/claim"},
		{http.MethodPost, "/api/v1/payments/approve"},
		{http.MethodPut, "/api/v1/admin/service-fee"},
		{http.MethodPost, "/api/v1/admin/upgrade"},
	} {
		w := s.do(t, route.method, route.path, map[string]string{}, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestBuyItem(t *testing.T) {
	body := map[string]interface{}{
		"collection":    collection.Hex(),
		"seller":        seller.Hex(),
		"token_id":      "1",
		"quantity":      "1",
		"price":         "5000",
		"authorization": authorization(),
	}

	t.Run("settles", func(t *testing.T) {
		s := newTestServer(t)
		s.engine.EXPECT().BuyItem(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input market.BuyItemInput) (*market.Settlement, error) {
				assert.Equal(t, caller, input.Caller)
				assert.Equal(t, seller, input.Seller)
				return &market.Settlement{
					Kind:       domain.AuthKindBuyItem,
					Collection: collection,
					TokenID:    big.NewInt(1),
					Buyer:      caller,
					Seller:     seller,
					Quantity:   big.NewInt(1),
					Split: fees.Split{
						Price:          big.NewInt(5000),
						Fee:            big.NewInt(50),
						Royalty:        big.NewInt(0),
						SellerProceeds: big.NewInt(4950),
					},
					Nonce:    big.NewInt(7),
					Sequence: 4,
				}, nil
			})

		w := s.do(t, http.MethodPost, "/api/v1/trades/buy", body, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "50", resp["fee"])
		assert.Equal(t, "4950", resp["seller_proceeds"])
		assert.Equal(t, float64(4), resp["sequence"])
	})

	errorsToCodes := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("buy: %w", domain.ErrListingClosed), http.StatusConflict, "listing_closed"},
		{domain.ErrAuthExpired, http.StatusForbidden, "auth_expired"},
		{domain.ErrAuthReplayed, http.StatusConflict, "auth_replayed"},
		{domain.ErrInsufficientQuantity, http.StatusConflict, "insufficient_quantity"},
		{domain.ErrPaymentTransferFailed, http.StatusUnprocessableEntity, "payment_transfer_failed"},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range errorsToCodes {
		t.Run(tt.code, func(t *testing.T) {
			s := newTestServer(t)
			s.engine.EXPECT().BuyItem(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := s.do(t, http.MethodPost, "/api/v1/trades/buy", body, true)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestClaimRoyalty(t *testing.T) {
	s := newTestServer(t)
	s.engine.EXPECT().ClaimRoyalty(gomock.Any(), caller).
		Return(&market.Claim{Beneficiary: caller, Amount: big.NewInt(500), Sequence: 9}, nil)

	w := s.do(t, http.MethodPost, "/api/v1/royalties/claim", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"beneficiary":%q,"amount":"500","sequence":9}`, caller.Hex()), w.Body.String())
}

func TestGetListing(t *testing.T) {
	s := newTestServer(t)
	s.engine.EXPECT().GetListing(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: key", domain.ErrListingNotFound))

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%s/1/%s", collection.Hex(), seller.Hex()), nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "listing_not_found", errorCode(t, w))

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%s/abc/%s", collection.Hex(), seller.Hex()), nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListListings(t *testing.T) {
	s := newTestServer(t)
	s.engine.EXPECT().ListListings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter store.ListingFilter) ([]domain.Listing, error) {
			require.NotNil(t, filter.Seller)
			assert.Equal(t, seller, *filter.Seller)
			require.NotNil(t, filter.Status)
			assert.Equal(t, domain.ListingStatusActive, *filter.Status)
			assert.Nil(t, filter.Collection)
			assert.Equal(t, rest.MAX_PAGE_SIZE, filter.Limit)
			return []domain.Listing{}, nil
		})

	w := s.do(t, http.MethodGet, "/api/v1/listings?seller="+seller.Hex()+"&status=active&limit=1000", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"listings":[],"limit":100,"offset":0}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/listings?status=pending", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOperations(t *testing.T) {
	t.Run("non admin is forbidden", func(t *testing.T) {
		s := newTestServer(t)
		s.manager.EXPECT().SetServiceFee(gomock.Any(), caller, uint16(250)).Return(domain.ErrUnauthorized)

		w := s.do(t, http.MethodPut, "/api/v1/admin/service-fee", map[string]int{"bps": 250}, true)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "forbidden", errorCode(t, w))
	})

	t.Run("service fee above denominator", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPut, "/api/v1/admin/service-fee", map[string]int{"bps": 10001}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "fee_config_invalid", errorCode(t, w))
	})

	t.Run("royalty above denominator", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPut, "/api/v1/admin/collections/"+collection.Hex()+"/royalty", map[string]int{"bps": 10001}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "fee_config_invalid", errorCode(t, w))
	})

	t.Run("missing service fee stays a validation error", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPut, "/api/v1/admin/service-fee", map[string]string{}, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_failed", errorCode(t, w))
	})

	t.Run("service fee returns config", func(t *testing.T) {
		s := newTestServer(t)
		gomock.InOrder(
			s.manager.EXPECT().SetServiceFee(gomock.Any(), caller, uint16(250)).Return(nil),
			s.manager.EXPECT().Config(gomock.Any()).Return(&domain.ProtocolConfig{Admin: caller, ServiceFeeBps: 250}, nil),
		)

		w := s.do(t, http.MethodPut, "/api/v1/admin/service-fee", map[string]int{"bps": 250}, true)
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(250), resp["service_fee_bps"])
	})

	t.Run("add collection", func(t *testing.T) {
		s := newTestServer(t)
		s.manager.EXPECT().AddSKCollection(gomock.Any(), caller, collection).
			Return(&domain.Collection{Address: collection, Trusted: true, Standard: domain.StandardERC1155}, nil)

		w := s.do(t, http.MethodPost, "/api/v1/admin/collections", map[string]string{"collection": collection.Hex()}, true)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"standard":"erc1155"`)
	})

	t.Run("royalty policy pays creator without beneficiary", func(t *testing.T) {
		s := newTestServer(t)
		s.manager.EXPECT().SetRoyaltyPolicy(gomock.Any(), caller, collection, common.Address{}, uint16(500)).Return(nil)

		w := s.do(t, http.MethodPut, "/api/v1/admin/collections/"+collection.Hex()+"/royalty", map[string]int{"bps": 500}, true)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("set signer", func(t *testing.T) {
		s := newTestServer(t)
		s.manager.EXPECT().SetSigner(gomock.Any(), caller, seller).Return(nil)
		s.manager.EXPECT().Config(gomock.Any()).Return(&domain.ProtocolConfig{Signer: seller}, nil)

		w := s.do(t, http.MethodPut, "/api/v1/admin/signer", map[string]string{"address": seller.Hex()}, true)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), seller.Hex())
	})

	t.Run("counter needs upgraded schema", func(t *testing.T) {
		s := newTestServer(t)
		s.manager.EXPECT().SetCounter(gomock.Any(), caller, big.NewInt(3)).Return(domain.ErrUnsupportedVersion)

		w := s.do(t, http.MethodPut, "/api/v1/admin/counter", map[string]string{"value": "3"}, true)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "unsupported_version", errorCode(t, w))
	})
}

func TestGetVersion(t *testing.T) {
	s := newTestServer(t)
	s.manager.EXPECT().Version(gomock.Any()).
		Return(&protocol.Version{Schema: 2, RequiredSchema: 2, Logic: 2, BinaryLogic: 2}, nil)

	w := s.do(t, http.MethodGet, "/api/v1/protocol/version", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"schema":2,"required_schema":2,"logic":2,"binary_logic":2,"up_to_date":true}`, w.Body.String())
}

func TestGetJournal(t *testing.T) {
	s := newTestServer(t)
	s.journal.entries = []domain.JournalEntry{
		{Sequence: 11, Kind: domain.EventKindItemAdded, Payload: json.RawMessage(`{}`)},
		{Sequence: 12, Kind: domain.EventKindItemBought, Payload: json.RawMessage(`{}`)},
	}

	w := s.do(t, http.MethodGet, "/api/v1/journal?after=10&limit=2", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(10), s.journal.after)
	assert.Equal(t, 2, s.journal.limit)

	var resp struct {
		Entries   []domain.JournalEntry `json:"entries"`
		NextAfter int64                 `json:"next_after"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, int64(12), resp.NextAfter)
}
