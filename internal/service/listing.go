package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/event"
	"github.com/basenft/marketplace-royalties/internal/repository"
	"github.com/basenft/marketplace-royalties/internal/royalty"
)

var (
	ErrListingNotFound    = repository.ErrListingNotFound
	ErrItemAlreadyListed  = repository.ErrItemAlreadyListed
	ErrAssetNotFound      = repository.ErrAssetNotFound
	ErrRoyaltyOutOfBounds = royalty.ErrRoyaltyOutOfBounds

	ErrInvalidPrice      = errors.New("listing price must be greater than zero")
	ErrNotOwner          = errors.New("seller does not own the item")
	ErrNotApproved       = errors.New("marketplace is not approved to transfer the item")
	ErrNotSeller         = errors.New("caller is neither the seller nor the administrator")
	ErrMarketplacePaused = errors.New("marketplace is paused")
)

type ListingRepository interface {
	CreateActive(ctx context.Context, listing domain.Listing) (domain.Listing, error)
	FindActiveByTokenID(ctx context.Context, tokenID uint64) (domain.Listing, error)
	HasActiveByTokenID(ctx context.Context, tokenID uint64) (bool, error)
	MarkCancelled(ctx context.Context, tokenID uint64) error
}

// AssetLedger is the read side of the external asset ledger the registry
// consults before accepting a listing.
type AssetLedger interface {
	OwnerOf(ctx context.Context, tokenID uint64) (string, error)
	IsApprovedForTransfer(ctx context.Context, tokenID uint64) (bool, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (domain.Settings, error)
}

type ListingService struct {
	repo     ListingRepository
	ledger   AssetLedger
	settings SettingsReader
	events   *event.Manager
}

func NewListingService(repo ListingRepository, ledger AssetLedger, settings SettingsReader, events *event.Manager) *ListingService {
	return &ListingService{
		repo:     repo,
		ledger:   ledger,
		settings: settings,
		events:   events,
	}
}

// Create validates and records a new Active listing. Every check runs before
// any mutation, so a rejected create leaves no trace.
func (s *ListingService) Create(ctx context.Context, tokenID uint64, seller string, price uint64, royaltyRecipient string, royaltyBp uint64) (domain.Listing, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("s.settings.Get -> %w", err)
	}
	if settings.Paused {
		return domain.Listing{}, ErrMarketplacePaused
	}

	if price == 0 {
		return domain.Listing{}, ErrInvalidPrice
	}

	owner, err := s.ledger.OwnerOf(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return domain.Listing{}, ErrAssetNotFound
		}

		return domain.Listing{}, fmt.Errorf("s.ledger.OwnerOf -> %w", err)
	}
	if owner != seller {
		return domain.Listing{}, ErrNotOwner
	}

	approved, err := s.ledger.IsApprovedForTransfer(ctx, tokenID)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("s.ledger.IsApprovedForTransfer -> %w", err)
	}
	if !approved {
		return domain.Listing{}, ErrNotApproved
	}

	listed, err := s.repo.HasActiveByTokenID(ctx, tokenID)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("s.repo.HasActiveByTokenID -> %w", err)
	}
	if listed {
		return domain.Listing{}, ErrItemAlreadyListed
	}

	if err = royalty.ValidateRoyalty(settings.FeeConfig, royaltyBp); err != nil {
		return domain.Listing{}, err
	}

	created, err := s.repo.CreateActive(ctx, domain.Listing{
		TokenID: tokenID,
		Seller:  seller,
		Price:   price,
		Royalty: domain.RoyaltyConfig{
			Recipient:    royaltyRecipient,
			PercentageBp: royaltyBp,
		},
	})
	if err != nil {
		if errors.Is(err, repository.ErrItemAlreadyListed) {
			return domain.Listing{}, ErrItemAlreadyListed
		}

		return domain.Listing{}, fmt.Errorf("s.repo.CreateActive -> %w", err)
	}

	s.events.Emit(event.ListingCreatedEvent, event.ListingCreated{
		TokenID:          created.TokenID,
		Seller:           created.Seller,
		Price:            created.Price,
		RoyaltyRecipient: created.Royalty.Recipient,
		RoyaltyBp:        created.Royalty.PercentageBp,
	})

	return created, nil
}

// Cancel transitions an Active listing to Cancelled. The seller may cancel
// their own listing; the administrator may force-cancel any listing.
func (s *ListingService) Cancel(ctx context.Context, tokenID uint64, caller string) error {
	listing, err := s.repo.FindActiveByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return ErrListingNotFound
		}

		return fmt.Errorf("s.repo.FindActiveByTokenID -> %w", err)
	}

	forced := caller != listing.Seller
	if forced {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return fmt.Errorf("s.settings.Get -> %w", err)
		}
		if caller != settings.Administrator {
			return ErrNotSeller
		}
	}

	if err = s.repo.MarkCancelled(ctx, tokenID); err != nil {
		if errors.Is(err, repository.ErrListingNotActive) {
			return ErrListingNotFound
		}

		return fmt.Errorf("s.repo.MarkCancelled -> %w", err)
	}

	s.events.Emit(event.ListingCancelledEvent, event.ListingCancelled{
		TokenID: listing.TokenID,
		Seller:  listing.Seller,
		Forced:  forced,
	})

	return nil
}

// Get returns the Active listing for an item. Read-only.
func (s *ListingService) Get(ctx context.Context, tokenID uint64) (domain.Listing, error) {
	listing, err := s.repo.FindActiveByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return domain.Listing{}, ErrListingNotFound
		}

		return domain.Listing{}, fmt.Errorf("s.repo.FindActiveByTokenID -> %w", err)
	}

	return listing, nil
}
