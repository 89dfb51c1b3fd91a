package royalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basenft/marketplace-royalties/internal/domain"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.FeeConfig
		wantErr error
	}{
		{
			name: "valid configuration",
			cfg:  domain.FeeConfig{PlatformFeeBp: 250, MinRoyaltyBp: 500, MaxRoyaltyBp: 3000},
		},
		{
			name: "zero everything is valid",
			cfg:  domain.FeeConfig{},
		},
		{
			name:    "minimum above maximum",
			cfg:     domain.FeeConfig{PlatformFeeBp: 250, MinRoyaltyBp: 3000, MaxRoyaltyBp: 1000},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "maximum royalty above 100%",
			cfg:     domain.FeeConfig{PlatformFeeBp: 250, MinRoyaltyBp: 500, MaxRoyaltyBp: 10001},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "platform fee above 100%",
			cfg:     domain.FeeConfig{PlatformFeeBp: 10001, MinRoyaltyBp: 500, MaxRoyaltyBp: 3000},
			wantErr: ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateRoyalty(t *testing.T) {
	cfg := domain.FeeConfig{PlatformFeeBp: 250, MinRoyaltyBp: 500, MaxRoyaltyBp: 3000}

	assert.NoError(t, ValidateRoyalty(cfg, 500))
	assert.NoError(t, ValidateRoyalty(cfg, 1000))
	assert.NoError(t, ValidateRoyalty(cfg, 3000))

	assert.ErrorIs(t, ValidateRoyalty(cfg, 499), ErrRoyaltyOutOfBounds)
	assert.ErrorIs(t, ValidateRoyalty(cfg, 100), ErrRoyaltyOutOfBounds)
	assert.ErrorIs(t, ValidateRoyalty(cfg, 3001), ErrRoyaltyOutOfBounds)
}

func TestComputeSplit(t *testing.T) {
	t.Run("2.5% fee and 10% royalty on 1,000,000", func(t *testing.T) {
		split, err := ComputeSplit(1_000_000, 1000, 250)
		require.NoError(t, err)

		assert.Equal(t, uint64(100_000), split.RoyaltyAmount)
		assert.Equal(t, uint64(25_000), split.PlatformFeeAmount)
		assert.Equal(t, uint64(875_000), split.SellerProceeds)
	})

	t.Run("division remainder stays with the seller", func(t *testing.T) {
		// 333 * 1000 / 10000 = 33.3 -> 33; 333 * 250 / 10000 = 8.325 -> 8.
		split, err := ComputeSplit(333, 1000, 250)
		require.NoError(t, err)

		assert.Equal(t, uint64(33), split.RoyaltyAmount)
		assert.Equal(t, uint64(8), split.PlatformFeeAmount)
		assert.Equal(t, uint64(292), split.SellerProceeds)
		assert.Equal(t, uint64(333), split.RoyaltyAmount+split.PlatformFeeAmount+split.SellerProceeds)
	})

	t.Run("parts always sum to the price", func(t *testing.T) {
		prices := []uint64{1, 3, 99, 100, 101, 9999, 10001, 123_456_789, MaxSafePrice}
		bps := []uint64{0, 1, 250, 500, 1000, 3000, 9999, 10000}

		for _, price := range prices {
			for _, royaltyBp := range bps {
				for _, feeBp := range bps {
					if royaltyBp+feeBp > 10000 {
						continue
					}

					split, err := ComputeSplit(price, royaltyBp, feeBp)
					require.NoError(t, err)
					assert.Equal(t, price, split.RoyaltyAmount+split.PlatformFeeAmount+split.SellerProceeds)
				}
			}
		}
	})

	t.Run("price beyond the safe range overflows", func(t *testing.T) {
		_, err := ComputeSplit(MaxSafePrice+1, 1000, 250)
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})

	t.Run("rates above 100% are rejected, never wrapped", func(t *testing.T) {
		// A 200% rate on MaxSafePrice overflows the bp product; the split
		// must fail instead of returning a wrapped amount.
		_, err := ComputeSplit(MaxSafePrice, 0, 20000)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)

		_, err = ComputeSplit(1_000_000, 10001, 250)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)

		_, err = ComputeSplit(1_000_000, 250, 10001)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("royalty plus fee above 100% is rejected", func(t *testing.T) {
		_, err := ComputeSplit(1_000_000, 9000, 2000)
		assert.ErrorIs(t, err, ErrNegativeProceeds)
	})

	t.Run("full price royalty leaves zero proceeds", func(t *testing.T) {
		split, err := ComputeSplit(1_000_000, 10000, 0)
		require.NoError(t, err)

		assert.Equal(t, uint64(1_000_000), split.RoyaltyAmount)
		assert.Zero(t, split.PlatformFeeAmount)
		assert.Zero(t, split.SellerProceeds)
	})
}
