package fees

import (
	"fmt"
	"math/big"

	"github.com/feral-file/ff-settlement/internal/domain"
)

// BpsDenominator is the basis-point scale: 10000 bps = 100%
const BpsDenominator = 10_000

var denominator = big.NewInt(BpsDenominator)

// Input captures a settlement price and the rates applied to it
type Input struct {
	Price         *big.Int
	ServiceFeeBps uint16
	RoyaltyBps    uint16
}

// Split is how a settlement price is divided. Fee + Royalty + SellerProceeds == Price.
type Split struct {
	Price          *big.Int
	Fee            *big.Int
	Royalty        *big.Int
	SellerProceeds *big.Int
}

// ValidateConfig reports whether a service fee and royalty rate can coexist
func ValidateConfig(serviceFeeBps, royaltyBps uint16) error {
	if serviceFeeBps > BpsDenominator {
		return fmt.Errorf("%w: service fee %d bps exceeds %d", domain.ErrFeeConfigInvalid, serviceFeeBps, BpsDenominator)
	}
	if royaltyBps > BpsDenominator {
		return fmt.Errorf("%w: royalty %d bps exceeds %d", domain.ErrFeeConfigInvalid, royaltyBps, BpsDenominator)
	}
	if int(serviceFeeBps)+int(royaltyBps) > BpsDenominator {
		return fmt.Errorf("%w: service fee %d + royalty %d bps exceeds %d",
			domain.ErrFeeConfigInvalid, serviceFeeBps, royaltyBps, BpsDenominator)
	}
	return nil
}

// Distribute splits price into team fee, royalty and seller proceeds.
// Both shares round down; the remainder stays with the seller.
func Distribute(input Input) (Split, error) {
	if input.Price == nil || !domain.ValidUint256(input.Price) {
		return Split{}, fmt.Errorf("%w: price must be a uint256", domain.ErrInvalidInput)
	}
	if err := ValidateConfig(input.ServiceFeeBps, input.RoyaltyBps); err != nil {
		return Split{}, err
	}

	fee := share(input.Price, input.ServiceFeeBps)
	royalty := share(input.Price, input.RoyaltyBps)

	seller := new(big.Int).Sub(input.Price, fee)
	seller.Sub(seller, royalty)
	if seller.Sign() < 0 {
		return Split{}, fmt.Errorf("%w: fee %s + royalty %s exceeds price %s",
			domain.ErrFeeConfigInvalid, fee, royalty, input.Price)
	}

	return Split{
		Price:          new(big.Int).Set(input.Price),
		Fee:            fee,
		Royalty:        royalty,
		SellerProceeds: seller,
	}, nil
}

func share(price *big.Int, bps uint16) *big.Int {
	if bps == 0 || price.Sign() == 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(price, big.NewInt(int64(bps)))
	return out.Quo(out, denominator)
}
