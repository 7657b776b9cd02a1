package payment

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store"
)

var (
	tokenAddress = common.HexToAddress("0x4000000000000000000000000000000000000004")
	alice        = common.HexToAddress("0xa11ce00000000000000000000000000000000000")
	bob          = common.HexToAddress("0xb0b0000000000000000000000000000000000000")
	market       = common.HexToAddress("0x5000000000000000000000000000000000000005")
)

func newFundedLedger(t *testing.T, amount int64) *Ledger {
	ledger := NewLedger(store.NewMemoryStore(), tokenAddress)
	require.NoError(t, ledger.Mint(context.Background(), alice, big.NewInt(amount)))
	return ledger
}

func balanceOf(t *testing.T, l *Ledger, account common.Address) int64 {
	b, err := l.BalanceOf(context.Background(), account)
	require.NoError(t, err)
	return b.Int64()
}

func TestLedger_Transfer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		amount        int64
		expectError   error
		expectedAlice int64
		expectedBob   int64
	}{
		{name: "partial", amount: 40, expectedAlice: 60, expectedBob: 40},
		{name: "entire balance", amount: 100, expectedAlice: 0, expectedBob: 100},
		{name: "zero is a no-op", amount: 0, expectedAlice: 100, expectedBob: 0},
		{name: "overdraw", amount: 101, expectError: ErrInsufficientBalance, expectedAlice: 100, expectedBob: 0},
		{name: "negative", amount: -1, expectError: domain.ErrInvalidInput, expectedAlice: 100, expectedBob: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newFundedLedger(t, 100)
			err := ledger.Transfer(ctx, alice, bob, big.NewInt(tt.amount))
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectedAlice, balanceOf(t, ledger, alice))
			assert.Equal(t, tt.expectedBob, balanceOf(t, ledger, bob))
		})
	}
}

func TestLedger_TransferFrom(t *testing.T) {
	ctx := context.Background()
	ledger := newFundedLedger(t, 100)

	err := ledger.TransferFrom(ctx, market, alice, bob, big.NewInt(10))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	require.NoError(t, ledger.Approve(ctx, alice, market, big.NewInt(30)))
	require.NoError(t, ledger.TransferFrom(ctx, market, alice, bob, big.NewInt(25)))

	allowance, err := ledger.Allowance(ctx, alice, market)
	require.NoError(t, err)
	assert.Equal(t, int64(5), allowance.Int64())
	assert.Equal(t, int64(75), balanceOf(t, ledger, alice))
	assert.Equal(t, int64(25), balanceOf(t, ledger, bob))

	// Allowance without balance still fails
	require.NoError(t, ledger.Approve(ctx, alice, market, big.NewInt(1000)))
	assert.ErrorIs(t, ledger.TransferFrom(ctx, market, alice, bob, big.NewInt(500)), ErrInsufficientBalance)
}

func TestBind(t *testing.T) {
	st := store.NewMemoryStore()
	token := Bind(st, tokenAddress)
	assert.Equal(t, tokenAddress, token.Address())
	require.NoError(t, token.Mint(context.Background(), bob, big.NewInt(3)))

	balance, err := st.GetTokenBalance(context.Background(), tokenAddress, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance.Int64())
}
