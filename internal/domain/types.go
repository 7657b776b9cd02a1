package domain

import (
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ChainStandard represents the token standard a collection implements
type ChainStandard string

const (
	StandardERC721  ChainStandard = "erc721"
	StandardERC1155 ChainStandard = "erc1155"
	StandardUnknown ChainStandard = "unknown"
)

// ListingStatus is the lifecycle state of a listing
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusSoldOut   ListingStatus = "sold_out"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// Closed reports whether the status is terminal
func (s ListingStatus) Closed() bool {
	return s == ListingStatusSoldOut || s == ListingStatusCancelled
}

// Valid checks if the status is known
func (s ListingStatus) Valid() bool {
	return s == ListingStatusActive || s == ListingStatusSoldOut || s == ListingStatusCancelled
}

// AuthKind identifies the operation an operator authorization was issued for
type AuthKind string

const (
	AuthKindAddItem        AuthKind = "add_item"
	AuthKindBuyItem        AuthKind = "buy_item"
	AuthKindAcceptItem     AuthKind = "accept_item"
	AuthKindUpdateMetadata AuthKind = "update_item_metadata"
	AuthKindCancelItem     AuthKind = "cancel_item"
)

// Authorization is an operator countersignature presented with an operation
type Authorization struct {
	Nonce     *big.Int
	Deadline  int64 // unix seconds, inclusive
	Signature []byte
}

// ConsumedNonce records a spent authorization
type ConsumedNonce struct {
	Kind       AuthKind
	Principal  common.Address
	Nonce      *big.Int
	Digest     common.Hash
	ConsumedAt time.Time
}

// ListingKey identifies a listing
type ListingKey struct {
	Collection common.Address
	TokenID    *big.Int
	Seller     common.Address
}

func (k ListingKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Collection.Hex(), k.TokenID.String(), k.Seller.Hex())
}

// Listing is an offer by a seller to sell some quantity of a token
type Listing struct {
	Collection common.Address
	TokenID    *big.Int
	Seller     common.Address
	Quantity   *big.Int
	// UnitPrice is the unit price of the most recent settlement, zero until the first trade
	UnitPrice  *big.Int
	ContentURI string
	Deadline   int64
	Nonce      *big.Int
	Status     ListingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Key returns the identifying key of the listing
func (l *Listing) Key() ListingKey {
	return ListingKey{Collection: l.Collection, TokenID: l.TokenID, Seller: l.Seller}
}

// Clone returns a deep copy of the listing
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	clone := *l
	clone.TokenID = CloneInt(l.TokenID)
	clone.Quantity = CloneInt(l.Quantity)
	clone.UnitPrice = CloneInt(l.UnitPrice)
	clone.Nonce = CloneInt(l.Nonce)
	return &clone
}

// Collection is a registry record for an NFT collection
type Collection struct {
	Address       common.Address
	Trusted       bool
	Standard      ChainStandard
	MarketAddress common.Address
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoyaltyPolicy configures royalty for a collection. A zero beneficiary pays the token creator.
type RoyaltyPolicy struct {
	Collection  common.Address
	Beneficiary common.Address
	Bps         uint16
	UpdatedAt   time.Time
}

// RoyaltyBalance is the accrued, unclaimed royalty of a beneficiary
type RoyaltyBalance struct {
	Beneficiary   common.Address
	Accrued       *big.Int
	TotalClaimed  *big.Int
	LastClaimedAt *time.Time
	UpdatedAt     time.Time
}

// Clone returns a deep copy of the balance
func (b *RoyaltyBalance) Clone() *RoyaltyBalance {
	if b == nil {
		return nil
	}
	clone := *b
	clone.Accrued = CloneInt(b.Accrued)
	clone.TotalClaimed = CloneInt(b.TotalClaimed)
	if b.LastClaimedAt != nil {
		t := *b.LastClaimedAt
		clone.LastClaimedAt = &t
	}
	return &clone
}

// ProtocolConfig is the administrative state of the marketplace
type ProtocolConfig struct {
	Admin         common.Address
	Signer        common.Address
	TeamWallet    common.Address
	PaymentToken  common.Address
	Custody       common.Address
	ServiceFeeBps uint16
	// Counter is introduced by schema version 2 and reads zero after the upgrade
	Counter      *big.Int
	LogicVersion int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a deep copy of the config
func (c *ProtocolConfig) Clone() *ProtocolConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Counter = CloneInt(c.Counter)
	return &clone
}

// AssetToken is a token known to the asset ledger
type AssetToken struct {
	Collection common.Address
	TokenID    *big.Int
	Creator    common.Address
	URI        string
	Supply     *big.Int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone returns a deep copy of the token
func (t *AssetToken) Clone() *AssetToken {
	if t == nil {
		return nil
	}
	clone := *t
	clone.TokenID = CloneInt(t.TokenID)
	clone.Supply = CloneInt(t.Supply)
	return &clone
}

// CloneInt copies a big integer, mapping nil to zero
func CloneInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// ParseAddress parses a 0x-prefixed hex address
func ParseAddress(address string) (common.Address, error) {
	address = strings.TrimSpace(address)
	if !strings.HasPrefix(address, "0x") || !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: invalid address %q", ErrInvalidInput, address)
	}
	return common.HexToAddress(address), nil
}

// NormalizeAddress normalizes an address to its checksummed form
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).String()
	}
	return address
}

// ParseUint256 parses a decimal string bounded to the uint256 range
func ParseUint256(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: empty amount", ErrInvalidInput)
	}
	u, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q: %v", ErrInvalidInput, value, err)
	}
	return u.ToBig(), nil
}

// ValidUint256 checks that v is non-negative and fits in 256 bits
func ValidUint256(v *big.Int) bool {
	if v == nil || v.Sign() < 0 {
		return false
	}
	_, overflow := uint256.FromBig(v)
	return !overflow
}

// ValidContentURI checks that a content URI is non-empty UTF-8 without control characters
func ValidContentURI(uri string) bool {
	if uri == "" || !utf8.ValidString(uri) {
		return false
	}
	for _, r := range uri {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
