package dto

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/fees"
	"github.com/feral-file/ff-settlement/internal/market"
)

// parser converts request fields and keeps the first error
type parser struct {
	err error
}

func (p *parser) fail(field string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", field, err)
	}
}

func (p *parser) address(field, value string) common.Address {
	if value == "" {
		p.fail(field, fmt.Errorf("%w: required", domain.ErrInvalidInput))
		return common.Address{}
	}
	addr, err := domain.ParseAddress(value)
	if err != nil {
		p.fail(field, err)
	}
	return addr
}

func (p *parser) amount(field, value string) *big.Int {
	v, err := domain.ParseUint256(value)
	if err != nil {
		p.fail(field, err)
		return nil
	}
	return v
}

func (p *parser) bps(field string, value *uint16) uint16 {
	if value == nil {
		p.fail(field, fmt.Errorf("%w: required", domain.ErrInvalidInput))
		return 0
	}
	if *value > fees.BpsDenominator {
		p.fail(field, fmt.Errorf("%w: %d exceeds %d", domain.ErrFeeConfigInvalid, *value, fees.BpsDenominator))
	}
	return *value
}

// AuthorizationRequest is the operator countersignature presented with a market operation
type AuthorizationRequest struct {
	Nonce     string `json:"nonce"`
	Deadline  int64  `json:"deadline"`
	Signature string `json:"signature"`
}

func (p *parser) authorization(r AuthorizationRequest) domain.Authorization {
	nonce := p.amount("authorization.nonce", r.Nonce)
	sig, err := hexutil.Decode(r.Signature)
	if err != nil {
		p.fail("authorization.signature", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}
	return domain.Authorization{Nonce: nonce, Deadline: r.Deadline, Signature: sig}
}

// AddItemRequest represents the request body for listing a token
type AddItemRequest struct {
	Collection    string               `json:"collection"`
	TokenID       string               `json:"token_id"`
	Quantity      string               `json:"quantity"`
	ContentURI    string               `json:"content_uri"`
	Authorization AuthorizationRequest `json:"authorization"`
}

// ToInput converts the request for the caller
func (r *AddItemRequest) ToInput(caller common.Address) (market.AddItemInput, error) {
	var p parser
	input := market.AddItemInput{
		Caller:     caller,
		Collection: p.address("collection", r.Collection),
		TokenID:    p.amount("token_id", r.TokenID),
		Quantity:   p.amount("quantity", r.Quantity),
		ContentURI: r.ContentURI,
		Auth:       p.authorization(r.Authorization),
	}
	return input, p.err
}

// CancelItemRequest represents the request body for cancelling a listing
type CancelItemRequest struct {
	Collection    string               `json:"collection"`
	TokenID       string               `json:"token_id"`
	Authorization AuthorizationRequest `json:"authorization"`
}

// ToInput converts the request for the caller
func (r *CancelItemRequest) ToInput(caller common.Address) (market.CancelItemInput, error) {
	var p parser
	input := market.CancelItemInput{
		Caller:     caller,
		Collection: p.address("collection", r.Collection),
		TokenID:    p.amount("token_id", r.TokenID),
		Auth:       p.authorization(r.Authorization),
	}
	return input, p.err
}

// UpdateItemMetaDataRequest represents the request body for changing a listing's content URI
type UpdateItemMetaDataRequest struct {
	Collection    string               `json:"collection"`
	TokenID       string               `json:"token_id"`
	ContentURI    string               `json:"content_uri"`
	Authorization AuthorizationRequest `json:"authorization"`
}

// ToInput converts the request for the caller
func (r *UpdateItemMetaDataRequest) ToInput(caller common.Address) (market.UpdateItemMetaDataInput, error) {
	var p parser
	input := market.UpdateItemMetaDataInput{
		Caller:     caller,
		Collection: p.address("collection", r.Collection),
		TokenID:    p.amount("token_id", r.TokenID),
		ContentURI: r.ContentURI,
		Auth:       p.authorization(r.Authorization),
	}
	return input, p.err
}

// BuyItemRequest represents the request body for buying from a listing
type BuyItemRequest struct {
	Collection    string               `json:"collection"`
	Seller        string               `json:"seller"`
	TokenID       string               `json:"token_id"`
	Quantity      string               `json:"quantity"`
	Price         string               `json:"price"`
	Authorization AuthorizationRequest `json:"authorization"`
}

// ToInput converts the request for the buyer
func (r *BuyItemRequest) ToInput(caller common.Address) (market.BuyItemInput, error) {
	var p parser
	input := market.BuyItemInput{
		Caller:     caller,
		Collection: p.address("collection", r.Collection),
		Seller:     p.address("seller", r.Seller),
		TokenID:    p.amount("token_id", r.TokenID),
		Quantity:   p.amount("quantity", r.Quantity),
		Price:      p.amount("price", r.Price),
		Auth:       p.authorization(r.Authorization),
	}
	return input, p.err
}

// AcceptItemRequest represents the request body for accepting a buyer's offer
type AcceptItemRequest struct {
	Collection    string               `json:"collection"`
	Buyer         string               `json:"buyer"`
	TokenID       string               `json:"token_id"`
	Quantity      string               `json:"quantity"`
	Price         string               `json:"price"`
	Authorization AuthorizationRequest `json:"authorization"`
}

// ToInput converts the request for the seller
func (r *AcceptItemRequest) ToInput(caller common.Address) (market.AcceptItemInput, error) {
	var p parser
	input := market.AcceptItemInput{
		Caller:     caller,
		Collection: p.address("collection", r.Collection),
		Buyer:      p.address("buyer", r.Buyer),
		TokenID:    p.amount("token_id", r.TokenID),
		Quantity:   p.amount("quantity", r.Quantity),
		Price:      p.amount("price", r.Price),
		Auth:       p.authorization(r.Authorization),
	}
	return input, p.err
}

// ApprovePaymentRequest represents the request body for setting the custody allowance
type ApprovePaymentRequest struct {
	Amount string `json:"amount"`
}

// Parse returns the allowance
func (r *ApprovePaymentRequest) Parse() (*big.Int, error) {
	var p parser
	amount := p.amount("amount", r.Amount)
	return amount, p.err
}

// AssetApprovalRequest represents the request body for granting custody operator rights
type AssetApprovalRequest struct {
	Collection string `json:"collection"`
	Approved   bool   `json:"approved"`
}

// Parse returns the collection
func (r *AssetApprovalRequest) Parse() (common.Address, error) {
	var p parser
	collection := p.address("collection", r.Collection)
	return collection, p.err
}

// ServiceFeeRequest represents the request body for setting the service fee
type ServiceFeeRequest struct {
	Bps *uint16 `json:"bps"`
}

// Parse returns the fee in basis points
func (r *ServiceFeeRequest) Parse() (uint16, error) {
	var p parser
	bps := p.bps("bps", r.Bps)
	return bps, p.err
}

// CollectionRequest represents the request body for registering a collection
type CollectionRequest struct {
	Collection string `json:"collection"`
}

// Parse returns the collection
func (r *CollectionRequest) Parse() (common.Address, error) {
	var p parser
	collection := p.address("collection", r.Collection)
	return collection, p.err
}

// MarketAddressRequest represents the request body for setting a collection's market
type MarketAddressRequest struct {
	Market string `json:"market"`
}

// Parse returns the market
func (r *MarketAddressRequest) Parse() (common.Address, error) {
	var p parser
	market := p.address("market", r.Market)
	return market, p.err
}

// RoyaltyPolicyRequest represents the request body for a collection's royalty policy.
// An empty beneficiary pays the token creator.
type RoyaltyPolicyRequest struct {
	Beneficiary string  `json:"beneficiary"`
	Bps         *uint16 `json:"bps"`
}

// Parse returns the beneficiary and rate
func (r *RoyaltyPolicyRequest) Parse() (common.Address, uint16, error) {
	var p parser
	var beneficiary common.Address
	if r.Beneficiary != "" {
		beneficiary = p.address("beneficiary", r.Beneficiary)
	}
	bps := p.bps("bps", r.Bps)
	return beneficiary, bps, p.err
}

// AddressRequest represents a request body carrying one address: team wallet, signer or new admin
type AddressRequest struct {
	Address string `json:"address"`
}

// Parse returns the address
func (r *AddressRequest) Parse() (common.Address, error) {
	var p parser
	addr := p.address("address", r.Address)
	return addr, p.err
}

// CounterRequest represents the request body for setting the counter
type CounterRequest struct {
	Value string `json:"value"`
}

// Parse returns the counter value
func (r *CounterRequest) Parse() (*big.Int, error) {
	var p parser
	value := p.amount("value", r.Value)
	return value, p.err
}

// DepositRequest represents the request body for crediting payment tokens
type DepositRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// Parse returns the account and amount
func (r *DepositRequest) Parse() (common.Address, *big.Int, error) {
	var p parser
	account := p.address("account", r.Account)
	amount := p.amount("amount", r.Amount)
	return account, amount, p.err
}
