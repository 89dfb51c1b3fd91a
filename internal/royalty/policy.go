// Package royalty holds the pure fee arithmetic of the marketplace: bounds
// validation for fee configuration and the basis-point split of a sale price
// into royalty, platform fee and seller proceeds.
package royalty

import (
	"errors"
	"math"

	"github.com/basenft/marketplace-royalties/internal/domain"
)

const (
	// BasisPointDenominator is the 100% mark on the basis-point scale.
	BasisPointDenominator uint64 = 10000

	// MaxSafePrice is the largest price whose basis-point products stay
	// inside uint64. Prices above it are rejected with ErrArithmeticOverflow.
	MaxSafePrice = math.MaxUint64 / BasisPointDenominator
)

var (
	ErrInvalidConfiguration = errors.New("invalid fee configuration")
	ErrRoyaltyOutOfBounds   = errors.New("royalty percentage out of configured bounds")
	ErrArithmeticOverflow   = errors.New("price exceeds the safe arithmetic range")
	ErrNegativeProceeds     = errors.New("royalty and platform fee exceed the sale price")
)

// ValidateConfig rejects a fee configuration whose bounds are inverted or
// exceed 100%.
func ValidateConfig(cfg domain.FeeConfig) error {
	if cfg.MinRoyaltyBp > cfg.MaxRoyaltyBp {
		return ErrInvalidConfiguration
	}
	if cfg.MaxRoyaltyBp > BasisPointDenominator || cfg.PlatformFeeBp > BasisPointDenominator {
		return ErrInvalidConfiguration
	}

	return nil
}

// ValidateRoyalty checks a requested per-item royalty against the configured
// bounds. Must pass before a listing may carry the royalty.
func ValidateRoyalty(cfg domain.FeeConfig, royaltyBp uint64) error {
	if royaltyBp < cfg.MinRoyaltyBp || royaltyBp > cfg.MaxRoyaltyBp {
		return ErrRoyaltyOutOfBounds
	}

	return nil
}

// ComputeSplit divides a sale price into royalty, platform fee and seller
// proceeds. Both cuts are floored; the division remainder stays with the
// seller so the three parts always sum exactly to the price.
func ComputeSplit(price, royaltyBp, platformFeeBp uint64) (domain.SettlementResult, error) {
	// MaxSafePrice only bounds the products for rates on the bp scale, so
	// an oversized rate must be rejected before the multiplications.
	if royaltyBp > BasisPointDenominator || platformFeeBp > BasisPointDenominator {
		return domain.SettlementResult{}, ErrInvalidConfiguration
	}
	if price > MaxSafePrice {
		return domain.SettlementResult{}, ErrArithmeticOverflow
	}

	royaltyAmount := price * royaltyBp / BasisPointDenominator
	platformFeeAmount := price * platformFeeBp / BasisPointDenominator

	// Unreachable with a validated configuration, checked regardless.
	if royaltyAmount+platformFeeAmount > price {
		return domain.SettlementResult{}, ErrNegativeProceeds
	}

	return domain.SettlementResult{
		RoyaltyAmount:     royaltyAmount,
		PlatformFeeAmount: platformFeeAmount,
		SellerProceeds:    price - royaltyAmount - platformFeeAmount,
	}, nil
}
