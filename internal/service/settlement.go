package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/event"
	"github.com/basenft/marketplace-royalties/internal/repository"
	"github.com/basenft/marketplace-royalties/internal/royalty"
)

var (
	ErrArithmeticOverflow = royalty.ErrArithmeticOverflow
	ErrNegativeProceeds   = royalty.ErrNegativeProceeds

	ErrInsufficientPayment = errors.New("tendered amount is below the listing price")
	ErrTransferFailed      = errors.New("asset transfer failed")
	ErrDisbursementFailed  = errors.New("payment disbursement failed")
)

// Exchanger commits a fully staged exchange atomically: either every effect
// becomes visible or none does.
type Exchanger interface {
	ExecuteExchange(ctx context.Context, ex domain.Exchange) error
}

type SettlementService struct {
	listings  ListingRepository
	settings  SettingsReader
	exchanger Exchanger
	events    *event.Manager
}

func NewSettlementService(listings ListingRepository, settings SettingsReader, exchanger Exchanger, events *event.Manager) *SettlementService {
	return &SettlementService{
		listings:  listings,
		settings:  settings,
		exchanger: exchanger,
		events:    events,
	}
}

// Purchase settles a sale: it validates the tender, computes the fee split,
// and commits ownership transfer, tender debit, payouts and the listing's
// Fulfilled transition in one atomic exchange. Overpayment is refunded to
// the buyer inside the same exchange. A failure at any step rejects the
// whole purchase with no partial effect; retries are up to the caller.
// The returned Settlement reports the listing that actually settled.
func (s *SettlementService) Purchase(ctx context.Context, tokenID uint64, buyer string, tendered uint64) (domain.Settlement, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Settlement{}, fmt.Errorf("s.settings.Get -> %w", err)
	}
	if settings.Paused {
		return domain.Settlement{}, ErrMarketplacePaused
	}

	listing, err := s.listings.FindActiveByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return domain.Settlement{}, ErrListingNotFound
		}

		return domain.Settlement{}, fmt.Errorf("s.listings.FindActiveByTokenID -> %w", err)
	}

	if tendered < listing.Price {
		return domain.Settlement{}, ErrInsufficientPayment
	}

	split, err := royalty.ComputeSplit(listing.Price, listing.Royalty.PercentageBp, settings.PlatformFeeBp)
	if err != nil {
		return domain.Settlement{}, err
	}

	payouts := make([]domain.Payout, 0, 4)
	if split.RoyaltyAmount > 0 {
		payouts = append(payouts, domain.Payout{To: listing.Royalty.Recipient, Amount: split.RoyaltyAmount})
	}
	if split.PlatformFeeAmount > 0 {
		payouts = append(payouts, domain.Payout{To: settings.PlatformAccount, Amount: split.PlatformFeeAmount})
	}
	if split.SellerProceeds > 0 {
		payouts = append(payouts, domain.Payout{To: listing.Seller, Amount: split.SellerProceeds})
	}
	if refund := tendered - listing.Price; refund > 0 {
		payouts = append(payouts, domain.Payout{To: buyer, Amount: refund})
	}

	err = s.exchanger.ExecuteExchange(ctx, domain.Exchange{
		TokenID:  listing.TokenID,
		Seller:   listing.Seller,
		Buyer:    buyer,
		Tendered: tendered,
		Payouts:  payouts,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTransferRejected):
			return domain.Settlement{}, ErrTransferFailed
		case errors.Is(err, repository.ErrDisbursementRejected):
			return domain.Settlement{}, ErrDisbursementFailed
		case errors.Is(err, repository.ErrListingNotActive):
			return domain.Settlement{}, ErrListingNotFound
		}

		return domain.Settlement{}, fmt.Errorf("s.exchanger.ExecuteExchange -> %w", err)
	}

	zap.L().Info("sale settled",
		zap.Uint64("token_id", listing.TokenID),
		zap.String("buyer", buyer),
		zap.String("seller", listing.Seller),
		zap.Uint64("price", listing.Price),
	)

	s.events.Emit(event.SaleSettledEvent, event.SaleSettled{
		TokenID:           listing.TokenID,
		Buyer:             buyer,
		Seller:            listing.Seller,
		Price:             listing.Price,
		RoyaltyRecipient:  listing.Royalty.Recipient,
		RoyaltyAmount:     split.RoyaltyAmount,
		PlatformFeeAmount: split.PlatformFeeAmount,
	})

	return domain.Settlement{
		TokenID: listing.TokenID,
		Seller:  listing.Seller,
		Buyer:   buyer,
		Price:   listing.Price,
		Refund:  tendered - listing.Price,
		Result:  split,
	}, nil
}

// RoyaltyInfo reports the royalty recipient and amount a hypothetical sale
// price would produce for the item's Active listing. Read-only.
func (s *SettlementService) RoyaltyInfo(ctx context.Context, tokenID uint64, salePrice uint64) (string, uint64, error) {
	listing, err := s.listings.FindActiveByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return "", 0, ErrListingNotFound
		}

		return "", 0, fmt.Errorf("s.listings.FindActiveByTokenID -> %w", err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("s.settings.Get -> %w", err)
	}

	split, err := royalty.ComputeSplit(salePrice, listing.Royalty.PercentageBp, settings.PlatformFeeBp)
	if err != nil {
		return "", 0, err
	}

	return listing.Royalty.Recipient, split.RoyaltyAmount, nil
}
