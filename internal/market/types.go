package market

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/fees"
)

// AddItemInput lists quantity units of a token for sale. Caller is the seller.
type AddItemInput struct {
	Caller     common.Address
	Collection common.Address
	TokenID    *big.Int
	Quantity   *big.Int
	ContentURI string
	Auth       domain.Authorization
}

// CancelItemInput withdraws the caller's listing
type CancelItemInput struct {
	Caller     common.Address
	Collection common.Address
	TokenID    *big.Int
	Auth       domain.Authorization
}

// UpdateItemMetaDataInput replaces the content URI of the caller's listing
type UpdateItemMetaDataInput struct {
	Caller     common.Address
	Collection common.Address
	TokenID    *big.Int
	ContentURI string
	Auth       domain.Authorization
}

// BuyItemInput buys from a listing. Caller is the buyer and Price is the total
// for Quantity units.
type BuyItemInput struct {
	Caller     common.Address
	Collection common.Address
	Seller     common.Address
	TokenID    *big.Int
	Quantity   *big.Int
	Price      *big.Int
	Auth       domain.Authorization
}

// AcceptItemInput accepts a buyer's offer. Caller is the seller and Price is
// the total for Quantity units.
type AcceptItemInput struct {
	Caller     common.Address
	Collection common.Address
	Buyer      common.Address
	TokenID    *big.Int
	Quantity   *big.Int
	Price      *big.Int
	Auth       domain.Authorization
}

// Settlement is the outcome of a completed trade
type Settlement struct {
	Kind               domain.AuthKind
	Collection         common.Address
	TokenID            *big.Int
	Buyer              common.Address
	Seller             common.Address
	Quantity           *big.Int
	Split              fees.Split
	TeamWallet         common.Address
	RoyaltyBeneficiary common.Address
	Nonce              *big.Int
	// Listing is the listing after the trade, nil for an accept without listing
	Listing *domain.Listing
	// Sequence is the journal position of the trade
	Sequence int64
}

// Claim is the outcome of a royalty claim
type Claim struct {
	Beneficiary common.Address
	Amount      *big.Int
	// Sequence is the journal position of the claim, 0 when nothing was paid
	Sequence int64
}

// Journal payloads carry integers as decimal strings so canonicalization never
// rounds them through float64.

type listingEvent struct {
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
	Seller     string `json:"seller"`
	Quantity   string `json:"quantity"`
	ContentURI string `json:"content_uri"`
	Status     string `json:"status"`
	Minted     string `json:"minted,omitempty"`
	Nonce      string `json:"nonce"`
}

type settlementEvent struct {
	Collection         string `json:"collection"`
	TokenID            string `json:"token_id"`
	Buyer              string `json:"buyer"`
	Seller             string `json:"seller"`
	Quantity           string `json:"quantity"`
	Price              string `json:"price"`
	Fee                string `json:"fee"`
	Royalty            string `json:"royalty"`
	SellerProceeds     string `json:"seller_proceeds"`
	TeamWallet         string `json:"team_wallet"`
	RoyaltyBeneficiary string `json:"royalty_beneficiary"`
	ListingRemaining   string `json:"listing_remaining,omitempty"`
	ListingStatus      string `json:"listing_status,omitempty"`
	Nonce              string `json:"nonce"`
}

type claimEvent struct {
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
}

type paymentApprovalEvent struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type assetApprovalEvent struct {
	Collection string `json:"collection"`
	Owner      string `json:"owner"`
	Operator   string `json:"operator"`
	Approved   bool   `json:"approved"`
}

func newListingEvent(l *domain.Listing) listingEvent {
	return listingEvent{
		Collection: l.Collection.Hex(),
		TokenID:    l.TokenID.String(),
		Seller:     l.Seller.Hex(),
		Quantity:   l.Quantity.String(),
		ContentURI: l.ContentURI,
		Status:     string(l.Status),
		Nonce:      l.Nonce.String(),
	}
}

func newSettlementEvent(s *Settlement) settlementEvent {
	e := settlementEvent{
		Collection:         s.Collection.Hex(),
		TokenID:            s.TokenID.String(),
		Buyer:              s.Buyer.Hex(),
		Seller:             s.Seller.Hex(),
		Quantity:           s.Quantity.String(),
		Price:              s.Split.Price.String(),
		Fee:                s.Split.Fee.String(),
		Royalty:            s.Split.Royalty.String(),
		SellerProceeds:     s.Split.SellerProceeds.String(),
		TeamWallet:         s.TeamWallet.Hex(),
		RoyaltyBeneficiary: s.RoyaltyBeneficiary.Hex(),
		Nonce:              s.Nonce.String(),
	}
	if s.Listing != nil {
		e.ListingRemaining = s.Listing.Quantity.String()
		e.ListingStatus = string(s.Listing.Status)
	}
	return e
}
