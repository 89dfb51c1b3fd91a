package service

import (
	"context"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/repository"
)

const (
	testSeller    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testBuyer     = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testRecipient = "0xcccccccccccccccccccccccccccccccccccccccc"
	testAdmin     = "0xdddddddddddddddddddddddddddddddddddddddd"
	testPlatform  = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
)

type fakeListingRepo struct {
	listings map[uint64]domain.Listing
	nextID   uint
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: make(map[uint64]domain.Listing),
	}
}

func (f *fakeListingRepo) CreateActive(_ context.Context, listing domain.Listing) (domain.Listing, error) {
	if _, ok := f.listings[listing.TokenID]; ok {
		return domain.Listing{}, repository.ErrItemAlreadyListed
	}

	f.nextID++
	listing.ID = f.nextID
	listing.State = domain.ListingStateActive
	f.listings[listing.TokenID] = listing

	return listing, nil
}

func (f *fakeListingRepo) FindActiveByTokenID(_ context.Context, tokenID uint64) (domain.Listing, error) {
	listing, ok := f.listings[tokenID]
	if !ok {
		return domain.Listing{}, repository.ErrListingNotFound
	}

	return listing, nil
}

func (f *fakeListingRepo) HasActiveByTokenID(_ context.Context, tokenID uint64) (bool, error) {
	_, ok := f.listings[tokenID]

	return ok, nil
}

func (f *fakeListingRepo) MarkCancelled(_ context.Context, tokenID uint64) error {
	if _, ok := f.listings[tokenID]; !ok {
		return repository.ErrListingNotActive
	}

	delete(f.listings, tokenID)

	return nil
}

type fakeAssetLedger struct {
	owners   map[uint64]string
	approved map[uint64]bool
}

func newFakeAssetLedger() *fakeAssetLedger {
	return &fakeAssetLedger{
		owners:   make(map[uint64]string),
		approved: make(map[uint64]bool),
	}
}

func (f *fakeAssetLedger) OwnerOf(_ context.Context, tokenID uint64) (string, error) {
	owner, ok := f.owners[tokenID]
	if !ok {
		return "", repository.ErrAssetNotFound
	}

	return owner, nil
}

func (f *fakeAssetLedger) IsApprovedForTransfer(_ context.Context, tokenID uint64) (bool, error) {
	return f.approved[tokenID], nil
}

type fakeSettingsRepo struct {
	settings domain.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{
		settings: domain.Settings{
			FeeConfig: domain.FeeConfig{
				PlatformFeeBp: 250,
				MinRoyaltyBp:  500,
				MaxRoyaltyBp:  3000,
			},
			Administrator:   testAdmin,
			PlatformAccount: testPlatform,
		},
	}
}

func (f *fakeSettingsRepo) Get(_ context.Context) (domain.Settings, error) {
	return f.settings, nil
}

func (f *fakeSettingsRepo) UpdateFeeConfig(_ context.Context, cfg domain.FeeConfig) error {
	f.settings.FeeConfig = cfg

	return nil
}

func (f *fakeSettingsRepo) UpdateAdministrator(_ context.Context, administrator string) error {
	f.settings.Administrator = administrator

	return nil
}

func (f *fakeSettingsRepo) UpdatePaused(_ context.Context, paused bool) error {
	f.settings.Paused = paused

	return nil
}

type fakeExchanger struct {
	executed []domain.Exchange
	err      error
}

func (f *fakeExchanger) ExecuteExchange(_ context.Context, ex domain.Exchange) error {
	if f.err != nil {
		return f.err
	}

	f.executed = append(f.executed, ex)

	return nil
}
