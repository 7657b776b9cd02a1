package payment

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

// Token is the fungible payment token the market settles in
//
//go:generate mockgen -source=token.go -destination=../mocks/payment_token.go -package=mocks -mock_names=Token=MockPaymentToken
type Token interface {
	// Address returns the token contract address
	Address() common.Address
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	// Approve sets the amount spender may move out of owner's balance
	Approve(ctx context.Context, owner, spender common.Address, amount *big.Int) error
	// Transfer moves amount from one account to another
	Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error
	// TransferFrom moves amount on behalf of from, spending spender's allowance
	TransferFrom(ctx context.Context, spender, from, to common.Address, amount *big.Int) error
	// Mint credits newly issued tokens to an account
	Mint(ctx context.Context, to common.Address, amount *big.Int) error
}

// Binder returns the token view of a store, usually a transaction
type Binder func(st store.Store, token common.Address) Token

// Bind is the Binder for the store-backed ledger
func Bind(st store.Store, token common.Address) Token {
	return NewLedger(st, token)
}

// Ledger is a Token whose balances live in the settlement store
type Ledger struct {
	st    store.Store
	token common.Address
}

// NewLedger creates a token ledger over st
func NewLedger(st store.Store, token common.Address) *Ledger {
	return &Ledger{st: st, token: token}
}

func (l *Ledger) Address() common.Address {
	return l.token
}

func (l *Ledger) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return l.st.GetTokenBalance(ctx, l.token, account)
}

func (l *Ledger) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return l.st.GetTokenAllowance(ctx, l.token, owner, spender)
}

func (l *Ledger) Approve(ctx context.Context, owner, spender common.Address, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	return l.st.SetTokenAllowance(ctx, l.token, owner, spender, amount)
}

func (l *Ledger) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}

	fromBalance, err := l.st.GetTokenBalance(ctx, l.token, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance, from.Hex(), fromBalance, amount)
	}
	toBalance, err := l.st.GetTokenBalance(ctx, l.token, to)
	if err != nil {
		return err
	}

	if err := l.st.SetTokenBalance(ctx, l.token, from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	return l.st.SetTokenBalance(ctx, l.token, to, toBalance.Add(toBalance, amount))
}

func (l *Ledger) TransferFrom(ctx context.Context, spender, from, to common.Address, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}

	allowance, err := l.st.GetTokenAllowance(ctx, l.token, from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s may spend %s of %s, needs %s",
			ErrInsufficientAllowance, spender.Hex(), allowance, from.Hex(), amount)
	}
	if err := l.Transfer(ctx, from, to, amount); err != nil {
		return err
	}
	return l.st.SetTokenAllowance(ctx, l.token, from, spender, allowance.Sub(allowance, amount))
}

func (l *Ledger) Mint(ctx context.Context, to common.Address, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	balance, err := l.st.GetTokenBalance(ctx, l.token, to)
	if err != nil {
		return err
	}
	balance.Add(balance, amount)
	if !domain.ValidUint256(balance) {
		return fmt.Errorf("%w: balance overflow", domain.ErrInvalidInput)
	}
	return l.st.SetTokenBalance(ctx, l.token, to, balance)
}

func validAmount(amount *big.Int) error {
	if amount == nil || !domain.ValidUint256(amount) {
		return fmt.Errorf("%w: amount must be a uint256", domain.ErrInvalidInput)
	}
	return nil
}
