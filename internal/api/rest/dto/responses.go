package dto

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/market"
	"github.com/feral-file/ff-settlement/internal/protocol"
)

// Amounts are decimal strings; uint256 values do not survive float64 JSON numbers.

// ListingResponse represents a listing
type ListingResponse struct {
	Collection string               `json:"collection"`
	TokenID    string               `json:"token_id"`
	Seller     string               `json:"seller"`
	Quantity   string               `json:"quantity"`
	UnitPrice  string               `json:"unit_price"`
	ContentURI string               `json:"content_uri"`
	Deadline   int64                `json:"deadline"`
	Nonce      string               `json:"nonce"`
	Status     domain.ListingStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// ListingsResponse represents a page of listings
type ListingsResponse struct {
	Listings []ListingResponse `json:"listings"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// SettlementResponse represents a completed trade
type SettlementResponse struct {
	Kind               domain.AuthKind  `json:"kind"`
	Collection         string           `json:"collection"`
	TokenID            string           `json:"token_id"`
	Buyer              string           `json:"buyer"`
	Seller             string           `json:"seller"`
	Quantity           string           `json:"quantity"`
	Price              string           `json:"price"`
	Fee                string           `json:"fee"`
	Royalty            string           `json:"royalty"`
	SellerProceeds     string           `json:"seller_proceeds"`
	TeamWallet         string           `json:"team_wallet"`
	RoyaltyBeneficiary string           `json:"royalty_beneficiary"`
	Nonce              string           `json:"nonce"`
	Listing            *ListingResponse `json:"listing,omitempty"`
	Sequence           int64            `json:"sequence"`
}

// ClaimResponse represents a royalty claim
type ClaimResponse struct {
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	Sequence    int64  `json:"sequence,omitempty"`
}

// RoyaltyBalanceResponse represents a beneficiary's royalty balance
type RoyaltyBalanceResponse struct {
	Beneficiary   string     `json:"beneficiary"`
	Claimable     string     `json:"claimable"`
	TotalClaimed  string     `json:"total_claimed"`
	LastClaimedAt *time.Time `json:"last_claimed_at,omitempty"`
}

// PaymentBalanceResponse represents an account's payment token position
type PaymentBalanceResponse struct {
	Account   string `json:"account"`
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// CollectionResponse represents a registered collection
type CollectionResponse struct {
	Address       string               `json:"address"`
	Trusted       bool                 `json:"trusted"`
	Standard      domain.ChainStandard `json:"standard"`
	MarketAddress string               `json:"market_address,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ProtocolConfigResponse represents the administrative state
type ProtocolConfigResponse struct {
	Admin         string    `json:"admin"`
	Signer        string    `json:"signer"`
	TeamWallet    string    `json:"team_wallet"`
	PaymentToken  string    `json:"payment_token"`
	Custody       string    `json:"custody"`
	ServiceFeeBps uint16    `json:"service_fee_bps"`
	LogicVersion  int       `json:"logic_version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VersionResponse represents schema and logic versions
type VersionResponse struct {
	Schema         int  `json:"schema"`
	RequiredSchema int  `json:"required_schema"`
	Logic          int  `json:"logic"`
	BinaryLogic    int  `json:"binary_logic"`
	UpToDate       bool `json:"up_to_date"`
}

// CounterResponse represents the counter added by schema version 2
type CounterResponse struct {
	Counter string `json:"counter"`
}

// JournalResponse represents a page of journal entries
type JournalResponse struct {
	Entries []domain.JournalEntry `json:"entries"`
	// NextAfter is the cursor for the next page, the last returned sequence
	NextAfter int64 `json:"next_after"`
}

func decimal(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewListingResponse maps a listing
func NewListingResponse(l *domain.Listing) *ListingResponse {
	if l == nil {
		return nil
	}
	return &ListingResponse{
		Collection: l.Collection.Hex(),
		TokenID:    decimal(l.TokenID),
		Seller:     l.Seller.Hex(),
		Quantity:   decimal(l.Quantity),
		UnitPrice:  decimal(l.UnitPrice),
		ContentURI: l.ContentURI,
		Deadline:   l.Deadline,
		Nonce:      decimal(l.Nonce),
		Status:     l.Status,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// NewListingsResponse maps a page of listings
func NewListingsResponse(listings []domain.Listing, limit, offset int) *ListingsResponse {
	resp := &ListingsResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Limit:    limit,
		Offset:   offset,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, *NewListingResponse(&listings[i]))
	}
	return resp
}

// NewSettlementResponse maps a settlement
func NewSettlementResponse(s *market.Settlement) *SettlementResponse {
	return &SettlementResponse{
		Kind:               s.Kind,
		Collection:         s.Collection.Hex(),
		TokenID:            decimal(s.TokenID),
		Buyer:              s.Buyer.Hex(),
		Seller:             s.Seller.Hex(),
		Quantity:           decimal(s.Quantity),
		Price:              decimal(s.Split.Price),
		Fee:                decimal(s.Split.Fee),
		Royalty:            decimal(s.Split.Royalty),
		SellerProceeds:     decimal(s.Split.SellerProceeds),
		TeamWallet:         s.TeamWallet.Hex(),
		RoyaltyBeneficiary: s.RoyaltyBeneficiary.Hex(),
		Nonce:              decimal(s.Nonce),
		Listing:            NewListingResponse(s.Listing),
		Sequence:           s.Sequence,
	}
}

// NewClaimResponse maps a claim
func NewClaimResponse(c *market.Claim) *ClaimResponse {
	return &ClaimResponse{
		Beneficiary: c.Beneficiary.Hex(),
		Amount:      decimal(c.Amount),
		Sequence:    c.Sequence,
	}
}

// NewRoyaltyBalanceResponse maps a royalty balance
func NewRoyaltyBalanceResponse(b *domain.RoyaltyBalance) *RoyaltyBalanceResponse {
	return &RoyaltyBalanceResponse{
		Beneficiary:   b.Beneficiary.Hex(),
		Claimable:     decimal(b.Accrued),
		TotalClaimed:  decimal(b.TotalClaimed),
		LastClaimedAt: b.LastClaimedAt,
	}
}

// NewCollectionResponse maps a collection
func NewCollectionResponse(c *domain.Collection) *CollectionResponse {
	resp := &CollectionResponse{
		Address:   c.Address.Hex(),
		Trusted:   c.Trusted,
		Standard:  c.Standard,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.MarketAddress != (common.Address{}) {
		resp.MarketAddress = c.MarketAddress.Hex()
	}
	return resp
}

// NewProtocolConfigResponse maps the protocol config
func NewProtocolConfigResponse(c *domain.ProtocolConfig) *ProtocolConfigResponse {
	return &ProtocolConfigResponse{
		Admin:         c.Admin.Hex(),
		Signer:        c.Signer.Hex(),
		TeamWallet:    c.TeamWallet.Hex(),
		PaymentToken:  c.PaymentToken.Hex(),
		Custody:       c.Custody.Hex(),
		ServiceFeeBps: c.ServiceFeeBps,
		LogicVersion:  c.LogicVersion,
		UpdatedAt:     c.UpdatedAt,
	}
}

// NewVersionResponse maps a version report
func NewVersionResponse(v *protocol.Version) *VersionResponse {
	return &VersionResponse{
		Schema:         v.Schema,
		RequiredSchema: v.RequiredSchema,
		Logic:          v.Logic,
		BinaryLogic:    v.BinaryLogic,
		UpToDate:       v.Schema >= v.RequiredSchema && v.Logic >= v.BinaryLogic,
	}
}
