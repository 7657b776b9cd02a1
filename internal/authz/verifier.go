package authz

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/store"
)

// Request is one authorization presented for an operation
type Request struct {
	Kind      domain.AuthKind
	Principal common.Address
	Digest    common.Hash
	Auth      domain.Authorization
}

// Verifier checks operator authorizations and consumes their nonces
type Verifier struct {
	clock adapter.Clock
}

// NewVerifier creates a verifier reading time from clock
func NewVerifier(clock adapter.Clock) *Verifier {
	return &Verifier{clock: clock}
}

// Verify rejects expired, foreign-signed or reused authorizations, in that order.
// st must be the transaction of the operation being authorized so the nonce is
// only consumed if the operation commits.
func (v *Verifier) Verify(ctx context.Context, st store.Store, signer common.Address, req Request) error {
	if req.Auth.Nonce == nil || !domain.ValidUint256(req.Auth.Nonce) {
		return fmt.Errorf("%w: nonce must be a uint256", domain.ErrInvalidInput)
	}

	if req.Auth.Deadline < v.clock.Now().Unix() {
		return fmt.Errorf("%w: deadline %d", domain.ErrAuthExpired, req.Auth.Deadline)
	}

	recovered, err := Recover(req.Digest, req.Auth.Signature)
	if err != nil {
		logger.DebugCtx(ctx, "Signature recovery failed", zap.String("kind", string(req.Kind)), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrAuthInvalidSigner, err)
	}
	if recovered != signer {
		return fmt.Errorf("%w: recovered %s", domain.ErrAuthInvalidSigner, recovered.Hex())
	}

	consumed, err := st.ConsumeNonce(ctx, domain.ConsumedNonce{
		Kind:       req.Kind,
		Principal:  req.Principal,
		Nonce:      req.Auth.Nonce,
		Digest:     req.Digest,
		ConsumedAt: v.clock.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to consume nonce: %w", err)
	}
	if !consumed {
		return fmt.Errorf("%w: nonce %s for %s", domain.ErrAuthReplayed, req.Auth.Nonce, req.Principal.Hex())
	}

	return nil
}
