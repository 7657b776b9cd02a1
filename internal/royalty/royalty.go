package royalty

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/asset"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/payment"
	"github.com/feral-file/ff-settlement/internal/store"
)

// Book tracks royalties accrued in custody and pays them out on claim.
// Every method takes the store to act on so callers can pass their transaction.
type Book struct {
	clock adapter.Clock
}

// NewBook creates a royalty book
func NewBook(clock adapter.Clock) *Book {
	return &Book{clock: clock}
}

// Policy is the royalty rate and recipient that applies to one token
type Policy struct {
	Beneficiary common.Address
	Bps         uint16
}

// ResolvePolicy returns the royalty for a token. A policy without beneficiary
// pays the token creator, and a token without creator pays fallback.
func (b *Book) ResolvePolicy(
	ctx context.Context,
	st store.Store,
	collections asset.Collections,
	collection common.Address,
	tokenID *big.Int,
	fallback common.Address,
) (Policy, error) {
	p, err := st.GetRoyaltyPolicy(ctx, collection)
	if err != nil {
		return Policy{}, err
	}
	if p == nil || p.Bps == 0 {
		return Policy{}, nil
	}

	beneficiary := p.Beneficiary
	if beneficiary == (common.Address{}) {
		creator, err := collections.Creator(ctx, collection, tokenID)
		if err != nil {
			return Policy{}, err
		}
		beneficiary = creator
	}
	if beneficiary == (common.Address{}) {
		beneficiary = fallback
	}
	return Policy{Beneficiary: beneficiary, Bps: p.Bps}, nil
}

// Credit adds amount to the beneficiary's claimable balance
func (b *Book) Credit(ctx context.Context, st store.Store, beneficiary common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("%w: negative royalty credit", domain.ErrInvalidInput)
	}

	balance, err := st.GetRoyaltyBalance(ctx, beneficiary)
	if err != nil {
		return err
	}
	balance.Accrued.Add(balance.Accrued, amount)
	balance.UpdatedAt = b.clock.Now().UTC()
	return st.SaveRoyaltyBalance(ctx, balance)
}

// Balance returns the beneficiary's royalty record
func (b *Book) Balance(ctx context.Context, st store.Store, beneficiary common.Address) (*domain.RoyaltyBalance, error) {
	return st.GetRoyaltyBalance(ctx, beneficiary)
}

// Claim zeroes the beneficiary's balance and pays it out of custody, returning
// the amount paid. st must be a transaction so a failed transfer restores the balance.
func (b *Book) Claim(
	ctx context.Context,
	st store.Store,
	token payment.Token,
	custody common.Address,
	beneficiary common.Address,
) (*big.Int, error) {
	balance, err := st.GetRoyaltyBalance(ctx, beneficiary)
	if err != nil {
		return nil, err
	}
	amount := new(big.Int).Set(balance.Accrued)
	if amount.Sign() == 0 {
		return amount, nil
	}

	now := b.clock.Now().UTC()
	balance.Accrued = new(big.Int)
	balance.TotalClaimed.Add(balance.TotalClaimed, amount)
	balance.LastClaimedAt = &now
	balance.UpdatedAt = now
	if err := st.SaveRoyaltyBalance(ctx, balance); err != nil {
		return nil, err
	}

	if err := token.Transfer(ctx, custody, beneficiary, amount); err != nil {
		return nil, fmt.Errorf("%w: royalty payout: %v", domain.ErrPaymentTransferFailed, err)
	}
	return amount, nil
}
