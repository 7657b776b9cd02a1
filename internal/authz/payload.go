package authz

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/feral-file/ff-settlement/internal/domain"
)

// packer builds an abi.encodePacked byte string
type packer struct {
	buf []byte
}

func (p *packer) address(a common.Address) *packer {
	p.buf = append(p.buf, a.Bytes()...)
	return p
}

// uint256 appends v as a 32-byte big-endian word. Values must already be
// validated as uint256; overflow is truncated to the low 256 bits.
func (p *packer) uint256(v *big.Int) *packer {
	var word uint256.Int
	if v != nil {
		word.SetFromBig(v)
	}
	b := word.Bytes32()
	p.buf = append(p.buf, b[:]...)
	return p
}

func (p *packer) int64(v int64) *packer {
	return p.uint256(big.NewInt(v))
}

func (p *packer) string(s string) *packer {
	p.buf = append(p.buf, s...)
	return p
}

func (p *packer) hash() common.Hash {
	return crypto.Keccak256Hash(p.buf)
}

// AddItemPayload is the tuple a seller's add-item authorization covers
type AddItemPayload struct {
	Collection common.Address
	Seller     common.Address
	TokenID    *big.Int
	Quantity   *big.Int
	ContentURI string
	Nonce      *big.Int
	Deadline   int64
}

// Digest returns keccak256(collection, seller, tokenId, quantity, contentURI, nonce, deadline)
func (a AddItemPayload) Digest() common.Hash {
	p := &packer{}
	return p.address(a.Collection).
		address(a.Seller).
		uint256(a.TokenID).
		uint256(a.Quantity).
		string(a.ContentURI).
		uint256(a.Nonce).
		int64(a.Deadline).
		hash()
}

// TradePayload is the tuple a buy or accept authorization covers. Kind is
// packed first so an authorization issued for one cannot settle the other.
type TradePayload struct {
	Kind       domain.AuthKind
	Collection common.Address
	Buyer      common.Address
	Seller     common.Address
	TokenID    *big.Int
	Quantity   *big.Int
	Price      *big.Int
	Nonce      *big.Int
	Deadline   int64
}

// Digest returns keccak256(kind, collection, buyer, seller, tokenId, quantity, price, nonce, deadline)
func (t TradePayload) Digest() common.Hash {
	p := &packer{}
	return p.string(string(t.Kind)).
		address(t.Collection).
		address(t.Buyer).
		address(t.Seller).
		uint256(t.TokenID).
		uint256(t.Quantity).
		uint256(t.Price).
		uint256(t.Nonce).
		int64(t.Deadline).
		hash()
}

// UpdateMetadataPayload is the tuple an update-metadata authorization covers
type UpdateMetadataPayload struct {
	Collection common.Address
	Seller     common.Address
	TokenID    *big.Int
	ContentURI string
	Nonce      *big.Int
	Deadline   int64
}

// Digest returns keccak256(collection, seller, tokenId, contentURI, nonce, deadline)
func (u UpdateMetadataPayload) Digest() common.Hash {
	p := &packer{}
	return p.address(u.Collection).
		address(u.Seller).
		uint256(u.TokenID).
		string(u.ContentURI).
		uint256(u.Nonce).
		int64(u.Deadline).
		hash()
}

// CancelPayload is the tuple a cancel authorization covers
type CancelPayload struct {
	Collection common.Address
	Seller     common.Address
	TokenID    *big.Int
	Nonce      *big.Int
	Deadline   int64
}

// Digest returns keccak256(collection, seller, tokenId, nonce, deadline)
func (c CancelPayload) Digest() common.Hash {
	p := &packer{}
	return p.address(c.Collection).
		address(c.Seller).
		uint256(c.TokenID).
		uint256(c.Nonce).
		int64(c.Deadline).
		hash()
}
