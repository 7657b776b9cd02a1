package rest

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/api/middleware"
	"github.com/feral-file/ff-settlement/internal/api/rest/dto"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/market"
	"github.com/feral-file/ff-settlement/internal/protocol"
)

// JournalReader reads committed journal entries in sequence order
type JournalReader interface {
	ListJournalEntries(ctx context.Context, after int64, limit int) ([]domain.JournalEntry, error)
}

// Handler defines the interface for REST API handlers
type Handler interface {
	// AddItem lists a token for sale
	// POST /api/v1/listings
	AddItem(c *gin.Context)
	// CancelItem closes the caller's listing
	// POST /api/v1/listings/cancel
	CancelItem(c *gin.Context)
	// UpdateItemMetaData changes the content URI of the caller's listing
	// POST /api/v1/listings/metadata
	UpdateItemMetaData(c *gin.Context)
	// GetListing retrieves a listing
	// GET /api/v1/listings/:collection/:token_id/:seller
	GetListing(c *gin.Context)
	// ListListings retrieves listings with optional filters
	// GET /api/v1/listings?collection=<address>&seller=<address>&status=<status>&limit=<limit>&offset=<offset>
	ListListings(c *gin.Context)

	// BuyItem settles a purchase from a listing
	// POST /api/v1/trades/buy
	BuyItem(c *gin.Context)
	// AcceptItem settles an offer accepted by the seller
	// POST /api/v1/trades/accept
	AcceptItem(c *gin.Context)

	// ClaimRoyalty pays the caller's accrued royalties
	// POST /api/v1/royalties/claim
	ClaimRoyalty(c *gin.Context)
	// GetClaimableRoyalty retrieves a beneficiary's royalty balance
	// GET /api/v1/royalties/:beneficiary
	GetClaimableRoyalty(c *gin.Context)

	// ApprovePayment sets the caller's custody allowance
	// POST /api/v1/payments/approve
	ApprovePayment(c *gin.Context)
	// GetPaymentBalance retrieves an account's balance and allowance
	// GET /api/v1/payments/:account
	GetPaymentBalance(c *gin.Context)
	// SetAssetApproval grants or revokes custody as operator of the caller's tokens
	// POST /api/v1/assets/approval
	SetAssetApproval(c *gin.Context)

	// Admin operations under /api/v1/admin
	SetServiceFee(c *gin.Context)
	AddSKCollection(c *gin.Context)
	RemoveSKCollection(c *gin.Context)
	SetMarketAddressForNFTCollection(c *gin.Context)
	SetRoyaltyPolicy(c *gin.Context)
	SetTeamWallet(c *gin.Context)
	SetSigner(c *gin.Context)
	TransferOwnership(c *gin.Context)
	SetCounter(c *gin.Context)
	Upgrade(c *gin.Context)
	Deposit(c *gin.Context)

	// GetVersion reports schema and logic versions
	// GET /api/v1/protocol/version
	GetVersion(c *gin.Context)
	// GetConfig retrieves the protocol config
	// GET /api/v1/protocol/config
	GetConfig(c *gin.Context)
	// GetCounter retrieves the counter added by schema version 2
	// GET /api/v1/protocol/counter
	GetCounter(c *gin.Context)
	// ListCollections retrieves registered collections
	// GET /api/v1/collections
	ListCollections(c *gin.Context)
	// GetJournal retrieves journal entries after a sequence
	// GET /api/v1/journal?after=<sequence>&limit=<limit>
	GetJournal(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	engine  market.Engine
	manager protocol.Manager
	journal JournalReader
}

// NewHandler creates a new REST API handler
func NewHandler(engine market.Engine, manager protocol.Manager, journal JournalReader) Handler {
	return &handler{
		engine:  engine,
		manager: manager,
		journal: journal,
	}
}

// bind resolves the authenticated caller and decodes the JSON body
func bind(c *gin.Context, req interface{}) (common.Address, bool) {
	caller, ok := middleware.Caller(c)
	if !ok {
		respondUnauthorized(c)
		return common.Address{}, false
	}
	if req == nil {
		return caller, true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return common.Address{}, false
	}
	return caller, true
}

// AddItem lists a token for sale
func (h *handler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	input, err := req.ToInput(caller)
	if err != nil {
		respondParseError(c, err)
		return
	}

	listing, err := h.engine.AddItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Failed to add item", zap.String("collection", input.Collection.Hex()))
		return
	}

	c.JSON(http.StatusCreated, dto.NewListingResponse(listing))
}

// CancelItem closes the caller's listing
func (h *handler) CancelItem(c *gin.Context) {
	var req dto.CancelItemRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	input, err := req.ToInput(caller)
	if err != nil {
		respondParseError(c, err)
		return
	}

	listing, err := h.engine.CancelItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Failed to cancel item", zap.String("collection", input.Collection.Hex()))
		return
	}

	c.JSON(http.StatusOK, dto.NewListingResponse(listing))
}

// UpdateItemMetaData changes the content URI of the caller's listing
func (h *handler) UpdateItemMetaData(c *gin.Context) {
	var req dto.UpdateItemMetaDataRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	input, err := req.ToInput(caller)
	if err != nil {
		respondParseError(c, err)
		return
	}

	listing, err := h.engine.UpdateItemMetaData(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Failed to update item metadata", zap.String("collection", input.Collection.Hex()))
		return
	}

	c.JSON(http.StatusOK, dto.NewListingResponse(listing))
}

// GetListing retrieves a listing
func (h *handler) GetListing(c *gin.Context) {
	collection, err := parseAddressParam(c, "collection")
	if err != nil {
		respondBadRequest(c, "Invalid collection", err.Error())
		return
	}
	seller, err := parseAddressParam(c, "seller")
	if err != nil {
		respondBadRequest(c, "Invalid seller", err.Error())
		return
	}
	tokenID, err := domain.ParseUint256(c.Param("token_id"))
	if err != nil {
		respondBadRequest(c, "Invalid token_id", err.Error())
		return
	}

	listing, err := h.engine.GetListing(c.Request.Context(), domain.ListingKey{
		Collection: collection,
		TokenID:    tokenID,
		Seller:     seller,
	})
	if err != nil {
		respondError(c, err, "Failed to get listing")
		return
	}
	if listing == nil {
		respondNotFound(c, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, dto.NewListingResponse(listing))
}

// ListListings retrieves listings with optional filters
func (h *handler) ListListings(c *gin.Context) {
	params, err := ParseListListingsQuery(c)
	if err != nil {
		respondParseError(c, err)
		return
	}
	filter, err := params.Filter()
	if err != nil {
		respondParseError(c, err)
		return
	}

	listings, err := h.engine.ListListings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list listings")
		return
	}

	c.JSON(http.StatusOK, dto.NewListingsResponse(listings, params.Limit, params.Offset))
}

// BuyItem settles a purchase from a listing
func (h *handler) BuyItem(c *gin.Context) {
	var req dto.BuyItemRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	input, err := req.ToInput(caller)
	if err != nil {
		respondParseError(c, err)
		return
	}

	settlement, err := h.engine.BuyItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Failed to buy item", zap.String("collection", input.Collection.Hex()))
		return
	}

	c.JSON(http.StatusOK, dto.NewSettlementResponse(settlement))
}

// AcceptItem settles an offer accepted by the seller
func (h *handler) AcceptItem(c *gin.Context) {
	var req dto.AcceptItemRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	input, err := req.ToInput(caller)
	if err != nil {
		respondParseError(c, err)
		return
	}

	settlement, err := h.engine.AcceptItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Failed to accept item", zap.String("collection", input.Collection.Hex()))
		return
	}

	c.JSON(http.StatusOK, dto.NewSettlementResponse(settlement))
}

// ClaimRoyalty pays the caller's accrued royalties
func (h *handler) ClaimRoyalty(c *gin.Context) {
	caller, ok := bind(c, nil)
	if !ok {
		return
	}

	claim, err := h.engine.ClaimRoyalty(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Failed to claim royalty")
		return
	}

	c.JSON(http.StatusOK, dto.NewClaimResponse(claim))
}

// GetClaimableRoyalty retrieves a beneficiary's royalty balance
func (h *handler) GetClaimableRoyalty(c *gin.Context) {
	beneficiary, err := parseAddressParam(c, "beneficiary")
	if err != nil {
		respondBadRequest(c, "Invalid beneficiary", err.Error())
		return
	}

	balance, err := h.engine.ClaimableRoyalty(c.Request.Context(), beneficiary)
	if err != nil {
		respondError(c, err, "Failed to get claimable royalty")
		return
	}

	c.JSON(http.StatusOK, dto.NewRoyaltyBalanceResponse(balance))
}

// ApprovePayment sets the caller's custody allowance
func (h *handler) ApprovePayment(c *gin.Context) {
	var req dto.ApprovePaymentRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	amount, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	if err := h.engine.ApprovePayment(c.Request.Context(), caller, amount); err != nil {
		respondError(c, err, "Failed to approve payment")
		return
	}

	h.respondPaymentBalance(c, caller)
}

// GetPaymentBalance retrieves an account's balance and allowance
func (h *handler) GetPaymentBalance(c *gin.Context) {
	account, err := parseAddressParam(c, "account")
	if err != nil {
		respondBadRequest(c, "Invalid account", err.Error())
		return
	}

	h.respondPaymentBalance(c, account)
}

func (h *handler) respondPaymentBalance(c *gin.Context, account common.Address) {
	balance, allowance, err := h.engine.PaymentBalance(c.Request.Context(), account)
	if err != nil {
		respondError(c, err, "Failed to get payment balance")
		return
	}

	c.JSON(http.StatusOK, dto.PaymentBalanceResponse{
		Account:   account.Hex(),
		Balance:   balance.String(),
		Allowance: allowance.String(),
	})
}

// SetAssetApproval grants or revokes custody as operator of the caller's tokens
func (h *handler) SetAssetApproval(c *gin.Context) {
	var req dto.AssetApprovalRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	collection, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	if err := h.engine.SetAssetApproval(c.Request.Context(), caller, collection, req.Approved); err != nil {
		respondError(c, err, "Failed to set asset approval", zap.String("collection", collection.Hex()))
		return
	}

	c.Status(http.StatusNoContent)
}

// SetServiceFee sets the service fee
// PUT /api/v1/admin/service-fee
func (h *handler) SetServiceFee(c *gin.Context) {
	var req dto.ServiceFeeRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	bps, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	if err := h.manager.SetServiceFee(c.Request.Context(), caller, bps); err != nil {
		respondError(c, err, "Failed to set service fee")
		return
	}

	h.GetConfig(c)
}

// AddSKCollection registers a trusted collection
// POST /api/v1/admin/collections
func (h *handler) AddSKCollection(c *gin.Context) {
	var req dto.CollectionRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	address, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	collection, err := h.manager.AddSKCollection(c.Request.Context(), caller, address)
	if err != nil {
		respondError(c, err, "Failed to add collection", zap.String("collection", address.Hex()))
		return
	}

	c.JSON(http.StatusCreated, dto.NewCollectionResponse(collection))
}

// RemoveSKCollection withdraws trust from a collection
// DELETE /api/v1/admin/collections/:collection
func (h *handler) RemoveSKCollection(c *gin.Context) {
	caller, ok := bind(c, nil)
	if !ok {
		return
	}
	collection, err := parseAddressParam(c, "collection")
	if err != nil {
		respondBadRequest(c, "Invalid collection", err.Error())
		return
	}

	if err := h.manager.RemoveSKCollection(c.Request.Context(), caller, collection); err != nil {
		respondError(c, err, "Failed to remove collection", zap.String("collection", collection.Hex()))
		return
	}

	c.Status(http.StatusNoContent)
}

// SetMarketAddressForNFTCollection records the market of a collection
// PUT /api/v1/admin/collections/:collection/market
func (h *handler) SetMarketAddressForNFTCollection(c *gin.Context) {
	var req dto.MarketAddressRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	collection, err := parseAddressParam(c, "collection")
	if err != nil {
		respondBadRequest(c, "Invalid collection", err.Error())
		return
	}
	marketAddress, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	if err := h.manager.SetMarketAddressForNFTCollection(c.Request.Context(), caller, collection, marketAddress); err != nil {
		respondError(c, err, "Failed to set collection market", zap.String("collection", collection.Hex()))
		return
	}

	c.Status(http.StatusNoContent)
}

// SetRoyaltyPolicy configures royalty for a collection
// PUT /api/v1/admin/collections/:collection/royalty
func (h *handler) SetRoyaltyPolicy(c *gin.Context) {
	var req dto.RoyaltyPolicyRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	collection, err := parseAddressParam(c, "collection")
	if err != nil {
		respondBadRequest(c, "Invalid collection", err.Error())
		return
	}
	beneficiary, bps, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	if err := h.manager.SetRoyaltyPolicy(c.Request.Context(), caller, collection, beneficiary, bps); err != nil {
		respondError(c, err, "Failed to set royalty policy", zap.String("collection", collection.Hex()))
		return
	}

	c.Status(http.StatusNoContent)
}

// setAddress handles the admin operations that replace one address in the config
func (h *handler) setAddress(c *gin.Context, message string, set func(ctx context.Context, caller, address common.Address) error) {
	var req dto.AddressRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	address, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	if err := set(c.Request.Context(), caller, address); err != nil {
		respondError(c, err, message)
		return
	}

	h.GetConfig(c)
}

// SetTeamWallet replaces the fee recipient
// PUT /api/v1/admin/team-wallet
func (h *handler) SetTeamWallet(c *gin.Context) {
	h.setAddress(c, "Failed to set team wallet", h.manager.SetTeamWallet)
}

// SetSigner replaces the operator
// PUT /api/v1/admin/signer
func (h *handler) SetSigner(c *gin.Context) {
	h.setAddress(c, "Failed to set signer", h.manager.SetSigner)
}

// TransferOwnership replaces the admin
// PUT /api/v1/admin/ownership
func (h *handler) TransferOwnership(c *gin.Context) {
	h.setAddress(c, "Failed to transfer ownership", h.manager.TransferOwnership)
}

// SetCounter writes the counter
// PUT /api/v1/admin/counter
func (h *handler) SetCounter(c *gin.Context) {
	var req dto.CounterRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	value, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	if err := h.manager.SetCounter(c.Request.Context(), caller, value); err != nil {
		respondError(c, err, "Failed to set counter")
		return
	}

	c.JSON(http.StatusOK, dto.CounterResponse{Counter: value.String()})
}

// Upgrade records the logic version of this binary
// POST /api/v1/admin/upgrade
func (h *handler) Upgrade(c *gin.Context) {
	caller, ok := bind(c, nil)
	if !ok {
		return
	}

	if err := h.manager.Upgrade(c.Request.Context(), caller); err != nil {
		respondError(c, err, "Failed to upgrade")
		return
	}

	h.GetVersion(c)
}

// Deposit credits payment tokens to an account
// POST /api/v1/admin/deposits
func (h *handler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	caller, ok := bind(c, &req)
	if !ok {
		return
	}
	account, amount, err := req.Parse()
	if err != nil {
		respondParseError(c, err)
		return
	}

	if err := h.manager.Deposit(c.Request.Context(), caller, account, amount); err != nil {
		respondError(c, err, "Failed to deposit", zap.String("account", account.Hex()))
		return
	}

	h.respondPaymentBalance(c, account)
}

// GetVersion reports schema and logic versions
func (h *handler) GetVersion(c *gin.Context) {
	version, err := h.manager.Version(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get version")
		return
	}

	c.JSON(http.StatusOK, dto.NewVersionResponse(version))
}

// GetConfig retrieves the protocol config
func (h *handler) GetConfig(c *gin.Context) {
	cfg, err := h.manager.Config(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get config")
		return
	}

	c.JSON(http.StatusOK, dto.NewProtocolConfigResponse(cfg))
}

// GetCounter retrieves the counter
func (h *handler) GetCounter(c *gin.Context) {
	counter, err := h.manager.Counter(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get counter")
		return
	}
	if counter == nil {
		counter = new(big.Int)
	}

	c.JSON(http.StatusOK, dto.CounterResponse{Counter: counter.String()})
}

// ListCollections retrieves registered collections
func (h *handler) ListCollections(c *gin.Context) {
	collections, err := h.manager.ListCollections(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list collections")
		return
	}

	resp := make([]dto.CollectionResponse, 0, len(collections))
	for i := range collections {
		resp = append(resp, *dto.NewCollectionResponse(&collections[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetJournal retrieves journal entries after a sequence
func (h *handler) GetJournal(c *gin.Context) {
	params, err := ParseGetJournalQuery(c)
	if err != nil {
		respondParseError(c, err)
		return
	}

	entries, err := h.journal.ListJournalEntries(c.Request.Context(), params.After, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to get journal")
		return
	}

	resp := dto.JournalResponse{Entries: entries, NextAfter: params.After}
	if len(entries) > 0 {
		resp.NextAfter = entries[len(entries)-1].Sequence
	}
	if resp.Entries == nil {
		resp.Entries = []domain.JournalEntry{}
	}
	c.JSON(http.StatusOK, resp)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-settlement-api",
	})
}
