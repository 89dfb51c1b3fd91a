package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/event"
)

func newListingServiceForTest() (*ListingService, *fakeListingRepo, *fakeAssetLedger, *fakeSettingsRepo) {
	repo := newFakeListingRepo()
	ledger := newFakeAssetLedger()
	settings := newFakeSettingsRepo()
	svc := NewListingService(repo, ledger, settings, event.NewManager())

	return svc, repo, ledger, settings
}

func TestListingService_Create(t *testing.T) {
	t.Run("creates an active listing", func(t *testing.T) {
		svc, _, ledger, _ := newListingServiceForTest()
		ledger.owners[7] = testSeller
		ledger.approved[7] = true

		listing, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, 1000)

		require.NoError(t, err)
		assert.Equal(t, uint64(7), listing.TokenID)
		assert.Equal(t, testSeller, listing.Seller)
		assert.Equal(t, uint64(1_000_000), listing.Price)
		assert.Equal(t, testRecipient, listing.Royalty.Recipient)
		assert.Equal(t, uint64(1000), listing.Royalty.PercentageBp)
		assert.Equal(t, domain.ListingStateActive, listing.State)
	})

	t.Run("rejects a zero price", func(t *testing.T) {
		svc, _, ledger, _ := newListingServiceForTest()
		ledger.owners[7] = testSeller
		ledger.approved[7] = true

		_, err := svc.Create(context.Background(), 7, testSeller, 0, testRecipient, 1000)

		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("rejects a seller who does not own the item", func(t *testing.T) {
		svc, _, ledger, _ := newListingServiceForTest()
		ledger.owners[7] = testBuyer
		ledger.approved[7] = true

		_, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, 1000)

		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("rejects an unknown item", func(t *testing.T) {
		svc, _, _, _ := newListingServiceForTest()

		_, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, 1000)

		assert.ErrorIs(t, err, ErrAssetNotFound)
	})

	t.Run("rejects an item without marketplace approval", func(t *testing.T) {
		svc, _, ledger, _ := newListingServiceForTest()
		ledger.owners[7] = testSeller

		_, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, 1000)

		assert.ErrorIs(t, err, ErrNotApproved)
	})

	t.Run("rejects a second active listing for the same item", func(t *testing.T) {
		svc, _, ledger, _ := newListingServiceForTest()
		ledger.owners[7] = testSeller
		ledger.approved[7] = true

		_, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, 1000)
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), 7, testSeller, 2_000_000, testRecipient, 1000)

		assert.ErrorIs(t, err, ErrItemAlreadyListed)
	})

	t.Run("rejects royalties outside the configured bounds", func(t *testing.T) {
		svc, repo, ledger, _ := newListingServiceForTest()
		ledger.owners[7] = testSeller
		ledger.approved[7] = true

		for _, bp := range []uint64{0, 499, 3001, 10000} {
			_, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, bp)

			assert.ErrorIs(t, err, ErrRoyaltyOutOfBounds, "royalty_bp=%d", bp)
		}

		assert.Empty(t, repo.listings)
	})

	t.Run("accepts royalties on the bound edges", func(t *testing.T) {
		svc, _, ledger, _ := newListingServiceForTest()

		for tokenID, bp := range map[uint64]uint64{1: 500, 2: 3000} {
			ledger.owners[tokenID] = testSeller
			ledger.approved[tokenID] = true

			_, err := svc.Create(context.Background(), tokenID, testSeller, 1_000_000, testRecipient, bp)

			assert.NoError(t, err, "royalty_bp=%d", bp)
		}
	})

	t.Run("rejects creates while paused", func(t *testing.T) {
		svc, _, ledger, settings := newListingServiceForTest()
		ledger.owners[7] = testSeller
		ledger.approved[7] = true
		settings.settings.Paused = true

		_, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, 1000)

		assert.ErrorIs(t, err, ErrMarketplacePaused)
	})
}

func TestListingService_Cancel(t *testing.T) {
	seed := func(t *testing.T) (*ListingService, *fakeListingRepo) {
		t.Helper()

		svc, repo, ledger, _ := newListingServiceForTest()
		ledger.owners[7] = testSeller
		ledger.approved[7] = true

		_, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, 1000)
		require.NoError(t, err)

		return svc, repo
	}

	t.Run("seller cancels their own listing", func(t *testing.T) {
		svc, repo := seed(t)

		err := svc.Cancel(context.Background(), 7, testSeller)

		require.NoError(t, err)
		assert.Empty(t, repo.listings)
	})

	t.Run("administrator force-cancels any listing", func(t *testing.T) {
		svc, repo := seed(t)

		err := svc.Cancel(context.Background(), 7, testAdmin)

		require.NoError(t, err)
		assert.Empty(t, repo.listings)
	})

	t.Run("rejects any other caller", func(t *testing.T) {
		svc, repo := seed(t)

		err := svc.Cancel(context.Background(), 7, testBuyer)

		assert.ErrorIs(t, err, ErrNotSeller)
		assert.Len(t, repo.listings, 1)
	})

	t.Run("rejects an item without an active listing", func(t *testing.T) {
		svc, _, _, _ := newListingServiceForTest()

		err := svc.Cancel(context.Background(), 7, testSeller)

		assert.ErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("item can be relisted after cancellation", func(t *testing.T) {
		svc, _ := seed(t)

		require.NoError(t, svc.Cancel(context.Background(), 7, testSeller))

		listing, err := svc.Create(context.Background(), 7, testSeller, 2_000_000, testRecipient, 2000)

		require.NoError(t, err)
		assert.Equal(t, uint64(2_000_000), listing.Price)
		assert.Equal(t, uint64(2000), listing.Royalty.PercentageBp)
	})
}

func TestListingService_Get(t *testing.T) {
	svc, _, ledger, _ := newListingServiceForTest()
	ledger.owners[7] = testSeller
	ledger.approved[7] = true

	_, err := svc.Get(context.Background(), 7)
	assert.ErrorIs(t, err, ErrListingNotFound)

	created, err := svc.Create(context.Background(), 7, testSeller, 1_000_000, testRecipient, 1000)
	require.NoError(t, err)

	found, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}
