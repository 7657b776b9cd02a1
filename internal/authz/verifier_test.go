package authz

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store"
)

var now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

func signedRequest(t *testing.T, key *ecdsa.PrivateKey, nonce int64, deadline int64) Request {
	digest := CancelPayload{
		Collection: collection,
		Seller:     seller,
		TokenID:    big.NewInt(1),
		Nonce:      big.NewInt(nonce),
		Deadline:   deadline,
	}.Digest()
	sig, err := Sign(digest, key)
	require.NoError(t, err)
	return Request{
		Kind:      domain.AuthKindCancelItem,
		Principal: seller,
		Digest:    digest,
		Auth: domain.Authorization{
			Nonce:     big.NewInt(nonce),
			Deadline:  deadline,
			Signature: sig,
		},
	}
}

func TestSignRecover(t *testing.T) {
	key, signer := newKey(t)
	digest := crypto.Keccak256Hash([]byte("payload"))

	sig, err := Sign(digest, key)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	recovered, err := Recover(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, signer, recovered)

	// v in {0, 1} is accepted too
	raw := append([]byte(nil), sig...)
	raw[64] -= 27
	recovered, err = Recover(digest, raw)
	require.NoError(t, err)
	assert.Equal(t, signer, recovered)
}

func TestRecover_RejectsMalformed(t *testing.T) {
	key, _ := newKey(t)
	digest := crypto.Keccak256Hash([]byte("payload"))
	sig, err := Sign(digest, key)
	require.NoError(t, err)

	highS := append([]byte(nil), sig...)
	s := new(big.Int).SetBytes(highS[32:64])
	s.Sub(crypto.S256().Params().N, s)
	copy(highS[32:64], common.LeftPadBytes(s.Bytes(), 32))
	highS[64] ^= 1

	badV := append([]byte(nil), sig...)
	badV[64] = 5

	tests := []struct {
		name string
		sig  []byte
	}{
		{name: "short", sig: sig[:64]},
		{name: "high s", sig: highS},
		{name: "bad recovery id", sig: badV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Recover(digest, tt.sig)
			assert.Error(t, err)
		})
	}
}

func TestVerifier_Verify(t *testing.T) {
	key, signer := newKey(t)
	otherKey, _ := newKey(t)
	verifier := NewVerifier(adapter.FixedClock{At: now})
	ctx := context.Background()

	tests := []struct {
		name        string
		request     func() Request
		expectError error
	}{
		{
			name:    "valid",
			request: func() Request { return signedRequest(t, key, 1, now.Unix()+60) },
		},
		{
			name:    "deadline equal to now passes",
			request: func() Request { return signedRequest(t, key, 1, now.Unix()) },
		},
		{
			name:        "expired",
			request:     func() Request { return signedRequest(t, key, 1, now.Unix()-1) },
			expectError: domain.ErrAuthExpired,
		},
		{
			name:        "wrong signer",
			request:     func() Request { return signedRequest(t, otherKey, 1, now.Unix()+60) },
			expectError: domain.ErrAuthInvalidSigner,
		},
		{
			name: "tampered field",
			request: func() Request {
				req := signedRequest(t, key, 1, now.Unix()+60)
				req.Digest = CancelPayload{
					Collection: collection,
					Seller:     seller,
					TokenID:    big.NewInt(2),
					Nonce:      big.NewInt(1),
					Deadline:   now.Unix() + 60,
				}.Digest()
				return req
			},
			expectError: domain.ErrAuthInvalidSigner,
		},
		{
			name: "expired checked before signer",
			request: func() Request {
				return signedRequest(t, otherKey, 1, now.Unix()-1)
			},
			expectError: domain.ErrAuthExpired,
		},
		{
			name: "missing nonce",
			request: func() Request {
				req := signedRequest(t, key, 1, now.Unix()+60)
				req.Auth.Nonce = nil
				return req
			},
			expectError: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			err := verifier.Verify(ctx, st, signer, tt.request())
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestVerifier_Replay(t *testing.T) {
	key, signer := newKey(t)
	verifier := NewVerifier(adapter.FixedClock{At: now})
	ctx := context.Background()
	st := store.NewMemoryStore()

	req := signedRequest(t, key, 1, now.Unix()+60)
	require.NoError(t, verifier.Verify(ctx, st, signer, req))
	assert.ErrorIs(t, verifier.Verify(ctx, st, signer, req), domain.ErrAuthReplayed)

	// A fresh nonce is accepted
	require.NoError(t, verifier.Verify(ctx, st, signer, signedRequest(t, key, 2, now.Unix()+60)))
}

func TestVerifier_NonceRollsBackWithTransaction(t *testing.T) {
	key, signer := newKey(t)
	verifier := NewVerifier(adapter.FixedClock{At: now})
	ctx := context.Background()
	st := store.NewMemoryStore()
	req := signedRequest(t, key, 1, now.Unix()+60)

	err := st.Transact(ctx, func(tx store.Store) error {
		require.NoError(t, verifier.Verify(ctx, tx, signer, req))
		return domain.ErrListingNotFound
	})
	require.ErrorIs(t, err, domain.ErrListingNotFound)

	assert.NoError(t, verifier.Verify(ctx, st, signer, req))
}
