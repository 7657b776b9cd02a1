package market

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/store"
)

func (e *engine) ClaimRoyalty(ctx context.Context, caller common.Address) (*Claim, error) {
	if err := validCaller(caller); err != nil {
		return nil, err
	}

	claim := &Claim{Beneficiary: caller}
	err := e.mutate(ctx, "claim_royalty", func(tx store.Store, cfg *domain.ProtocolConfig) error {
		amount, err := e.royalties.Claim(ctx, tx, e.payments(tx, cfg.PaymentToken), cfg.Custody, caller)
		if err != nil {
			return err
		}
		claim.Amount = amount
		if amount.Sign() == 0 {
			return nil
		}

		entry, err := e.journal.Append(ctx, tx, domain.EventKindRoyaltyClaimed, caller.Hex(), claimEvent{
			Beneficiary: caller.Hex(),
			Amount:      amount.String(),
		})
		if err != nil {
			return err
		}
		claim.Sequence = entry.Sequence
		return nil
	})
	if err != nil {
		return nil, err
	}

	if claim.Amount.Sign() > 0 {
		e.metrics.RoyaltyPaid()
		logger.InfoCtx(ctx, "Royalty claimed",
			zap.String("beneficiary", caller.Hex()),
			zap.String("amount", claim.Amount.String()))
	}
	return claim, nil
}

func (e *engine) ClaimableRoyalty(ctx context.Context, beneficiary common.Address) (*domain.RoyaltyBalance, error) {
	return e.royalties.Balance(ctx, e.store, beneficiary)
}
