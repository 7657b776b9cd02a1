package market

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store"
)

func (e *engine) ApprovePayment(ctx context.Context, caller common.Address, amount *big.Int) error {
	if err := validCaller(caller); err != nil {
		return err
	}
	if amount == nil || !domain.ValidUint256(amount) {
		return fmt.Errorf("%w: amount must be a uint256", domain.ErrInvalidInput)
	}

	return e.mutate(ctx, "approve_payment", func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := e.payments(tx, cfg.PaymentToken).Approve(ctx, caller, cfg.Custody, amount); err != nil {
			return err
		}
		_, err := e.journal.Append(ctx, tx, domain.EventKindPaymentApproved, caller.Hex(), paymentApprovalEvent{
			Owner:   caller.Hex(),
			Spender: cfg.Custody.Hex(),
			Amount:  amount.String(),
		})
		return err
	})
}

func (e *engine) SetAssetApproval(ctx context.Context, caller, collection common.Address, approved bool) error {
	if err := validCaller(caller); err != nil {
		return err
	}

	return e.mutate(ctx, "set_asset_approval", func(tx store.Store, cfg *domain.ProtocolConfig) error {
		if err := e.assets(tx).SetApprovalForAll(ctx, collection, caller, cfg.Custody, approved); err != nil {
			return err
		}
		_, err := e.journal.Append(ctx, tx, domain.EventKindAssetApprovalSet, caller.Hex(), assetApprovalEvent{
			Collection: collection.Hex(),
			Owner:      caller.Hex(),
			Operator:   cfg.Custody.Hex(),
			Approved:   approved,
		})
		return err
	})
}

func (e *engine) PaymentBalance(ctx context.Context, account common.Address) (*big.Int, *big.Int, error) {
	cfg, err := e.store.GetProtocolConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cfg == nil {
		return nil, nil, domain.ErrNotInitialized
	}

	token := e.payments(e.store, cfg.PaymentToken)
	balance, err := token.BalanceOf(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	allowance, err := token.Allowance(ctx, account, cfg.Custody)
	if err != nil {
		return nil, nil, err
	}
	return balance, allowance, nil
}
