package authz

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-settlement/internal/domain"
)

var (
	collection = common.HexToAddress("0x1111111111111111111111111111111111111111")
	seller     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	buyer      = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func word(v int64) []byte {
	return common.LeftPadBytes(big.NewInt(v).Bytes(), 32)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestAddItemPayload_Digest(t *testing.T) {
	payload := AddItemPayload{
		Collection: collection,
		Seller:     seller,
		TokenID:    big.NewInt(1),
		Quantity:   big.NewInt(10),
		ContentURI: "ipfs://uri",
		Nonce:      big.NewInt(7),
		Deadline:   1700000000,
	}

	expected := crypto.Keccak256Hash(concat(
		collection.Bytes(),
		seller.Bytes(),
		word(1),
		word(10),
		[]byte("ipfs://uri"),
		word(7),
		word(1700000000),
	))
	assert.Equal(t, expected, payload.Digest())
}

func TestTradePayload_Digest(t *testing.T) {
	payload := TradePayload{
		Kind:       domain.AuthKindBuyItem,
		Collection: collection,
		Buyer:      buyer,
		Seller:     seller,
		TokenID:    big.NewInt(1),
		Quantity:   big.NewInt(1),
		Price:      big.NewInt(5000),
		Nonce:      big.NewInt(3),
		Deadline:   1700000000,
	}

	expected := crypto.Keccak256Hash(concat(
		[]byte("buy_item"),
		collection.Bytes(),
		buyer.Bytes(),
		seller.Bytes(),
		word(1),
		word(1),
		word(5000),
		word(3),
		word(1700000000),
	))
	assert.Equal(t, expected, payload.Digest())

	swapped := payload
	swapped.Buyer, swapped.Seller = payload.Seller, payload.Buyer
	assert.NotEqual(t, payload.Digest(), swapped.Digest())

	accept := payload
	accept.Kind = domain.AuthKindAcceptItem
	assert.NotEqual(t, payload.Digest(), accept.Digest())
}

func TestUpdateMetadataAndCancelPayload_Digest(t *testing.T) {
	update := UpdateMetadataPayload{
		Collection: collection,
		Seller:     seller,
		TokenID:    big.NewInt(4),
		ContentURI: "ipfs://new",
		Nonce:      big.NewInt(2),
		Deadline:   99,
	}
	assert.Equal(t,
		crypto.Keccak256Hash(concat(collection.Bytes(), seller.Bytes(), word(4), []byte("ipfs://new"), word(2), word(99))),
		update.Digest())

	cancel := CancelPayload{
		Collection: collection,
		Seller:     seller,
		TokenID:    big.NewInt(4),
		Nonce:      big.NewInt(2),
		Deadline:   99,
	}
	assert.Equal(t,
		crypto.Keccak256Hash(concat(collection.Bytes(), seller.Bytes(), word(4), word(2), word(99))),
		cancel.Digest())
}

func TestPacker_Uint256(t *testing.T) {
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	p := &packer{}
	p.uint256(maxUint256).uint256(nil)

	assert.Len(t, p.buf, 64)
	assert.Equal(t, maxUint256.Bytes(), p.buf[:32])
	assert.Equal(t, make([]byte, 32), p.buf[32:])
}
