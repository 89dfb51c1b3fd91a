package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/event"
	"github.com/basenft/marketplace-royalties/internal/repository"
)

func newSettlementServiceForTest() (*SettlementService, *fakeListingRepo, *fakeSettingsRepo, *fakeExchanger) {
	repo := newFakeListingRepo()
	settings := newFakeSettingsRepo()
	exchanger := &fakeExchanger{}
	svc := NewSettlementService(repo, settings, exchanger, event.NewManager())

	return svc, repo, settings, exchanger
}

func seedActiveListing(t *testing.T, repo *fakeListingRepo, price, royaltyBp uint64) {
	t.Helper()

	_, err := repo.CreateActive(context.Background(), domain.Listing{
		TokenID: 7,
		Seller:  testSeller,
		Price:   price,
		Royalty: domain.RoyaltyConfig{
			Recipient:    testRecipient,
			PercentageBp: royaltyBp,
		},
	})
	require.NoError(t, err)
}

func TestSettlementService_Purchase(t *testing.T) {
	t.Run("splits the price into royalty, platform fee and seller proceeds", func(t *testing.T) {
		svc, repo, _, exchanger := newSettlementServiceForTest()
		seedActiveListing(t, repo, 1_000_000, 1000)

		settled, err := svc.Purchase(context.Background(), 7, testBuyer, 1_000_000)

		require.NoError(t, err)
		assert.Equal(t, uint64(100_000), settled.Result.RoyaltyAmount)
		assert.Equal(t, uint64(25_000), settled.Result.PlatformFeeAmount)
		assert.Equal(t, uint64(875_000), settled.Result.SellerProceeds)
		assert.Equal(t, uint64(1_000_000), settled.Price)
		assert.Equal(t, testSeller, settled.Seller)
		assert.Equal(t, testBuyer, settled.Buyer)
		assert.Zero(t, settled.Refund)

		require.Len(t, exchanger.executed, 1)
		ex := exchanger.executed[0]
		assert.Equal(t, uint64(7), ex.TokenID)
		assert.Equal(t, testSeller, ex.Seller)
		assert.Equal(t, testBuyer, ex.Buyer)
		assert.Equal(t, uint64(1_000_000), ex.Tendered)
		assert.Equal(t, []domain.Payout{
			{To: testRecipient, Amount: 100_000},
			{To: testPlatform, Amount: 25_000},
			{To: testSeller, Amount: 875_000},
		}, ex.Payouts)
	})

	t.Run("refunds overpayment to the buyer", func(t *testing.T) {
		svc, repo, _, exchanger := newSettlementServiceForTest()
		seedActiveListing(t, repo, 1_000_000, 1000)

		settled, err := svc.Purchase(context.Background(), 7, testBuyer, 1_500_000)

		require.NoError(t, err)
		assert.Equal(t, uint64(875_000), settled.Result.SellerProceeds)
		assert.Equal(t, uint64(1_000_000), settled.Price)
		assert.Equal(t, uint64(500_000), settled.Refund)

		require.Len(t, exchanger.executed, 1)
		ex := exchanger.executed[0]
		assert.Equal(t, uint64(1_500_000), ex.Tendered)
		assert.Contains(t, ex.Payouts, domain.Payout{To: testBuyer, Amount: 500_000})
	})

	t.Run("keeps the division remainder with the seller", func(t *testing.T) {
		svc, repo, _, _ := newSettlementServiceForTest()
		// 999 * 1000 / 10000 = 99 (floored), 999 * 250 / 10000 = 24 (floored).
		seedActiveListing(t, repo, 999, 1000)

		settled, err := svc.Purchase(context.Background(), 7, testBuyer, 999)

		require.NoError(t, err)
		assert.Equal(t, uint64(99), settled.Result.RoyaltyAmount)
		assert.Equal(t, uint64(24), settled.Result.PlatformFeeAmount)
		assert.Equal(t, uint64(876), settled.Result.SellerProceeds)
		assert.Equal(t, uint64(999), settled.Result.RoyaltyAmount+settled.Result.PlatformFeeAmount+settled.Result.SellerProceeds)
	})

	t.Run("rejects an insufficient tender and leaves the listing active", func(t *testing.T) {
		svc, repo, _, exchanger := newSettlementServiceForTest()
		seedActiveListing(t, repo, 1_000_000, 1000)

		_, err := svc.Purchase(context.Background(), 7, testBuyer, 999_999)

		assert.ErrorIs(t, err, ErrInsufficientPayment)
		assert.Empty(t, exchanger.executed)

		listing, err := repo.FindActiveByTokenID(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, listing.IsActive())
	})

	t.Run("rejects an item without an active listing", func(t *testing.T) {
		svc, _, _, _ := newSettlementServiceForTest()

		_, err := svc.Purchase(context.Background(), 7, testBuyer, 1_000_000)

		assert.ErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("rejects purchases while paused", func(t *testing.T) {
		svc, repo, settings, exchanger := newSettlementServiceForTest()
		seedActiveListing(t, repo, 1_000_000, 1000)
		settings.settings.Paused = true

		_, err := svc.Purchase(context.Background(), 7, testBuyer, 1_000_000)

		assert.ErrorIs(t, err, ErrMarketplacePaused)
		assert.Empty(t, exchanger.executed)
	})

	t.Run("maps a rejected transfer and leaves the listing active", func(t *testing.T) {
		svc, repo, _, exchanger := newSettlementServiceForTest()
		seedActiveListing(t, repo, 1_000_000, 1000)
		exchanger.err = repository.ErrTransferRejected

		_, err := svc.Purchase(context.Background(), 7, testBuyer, 1_000_000)

		assert.ErrorIs(t, err, ErrTransferFailed)

		listing, err := repo.FindActiveByTokenID(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, listing.IsActive())
	})

	t.Run("maps a rejected disbursement", func(t *testing.T) {
		svc, repo, _, exchanger := newSettlementServiceForTest()
		seedActiveListing(t, repo, 1_000_000, 1000)
		exchanger.err = repository.ErrDisbursementRejected

		_, err := svc.Purchase(context.Background(), 7, testBuyer, 1_000_000)

		assert.ErrorIs(t, err, ErrDisbursementFailed)
	})

	t.Run("rejects a price outside the safe arithmetic range", func(t *testing.T) {
		svc, repo, _, exchanger := newSettlementServiceForTest()
		seedActiveListing(t, repo, 1<<63, 1000)

		_, err := svc.Purchase(context.Background(), 7, testBuyer, 1<<63)

		assert.ErrorIs(t, err, ErrArithmeticOverflow)
		assert.Empty(t, exchanger.executed)
	})
}

func TestSettlementService_RoyaltyInfo(t *testing.T) {
	t.Run("reports the recipient and amount for a hypothetical price", func(t *testing.T) {
		svc, repo, _, _ := newSettlementServiceForTest()
		seedActiveListing(t, repo, 1_000_000, 1000)

		recipient, amount, err := svc.RoyaltyInfo(context.Background(), 7, 2_000_000)

		require.NoError(t, err)
		assert.Equal(t, testRecipient, recipient)
		assert.Equal(t, uint64(200_000), amount)
	})

	t.Run("rejects an item without an active listing", func(t *testing.T) {
		svc, _, _, _ := newSettlementServiceForTest()

		_, _, err := svc.RoyaltyInfo(context.Background(), 7, 1_000_000)

		assert.ErrorIs(t, err, ErrListingNotFound)
	})
}
