package repository

import (
	"context"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/repository/dao"
)

var ErrSettingsNotFound = dao.ErrSettingsNotFound

type SettingsDAO interface {
	Seed(ctx context.Context, settings dao.Settings) error
	Get(ctx context.Context) (dao.Settings, error)
	UpdateFeeConfig(ctx context.Context, platformFeeBp, minRoyaltyBp, maxRoyaltyBp uint64) error
	UpdateAdministrator(ctx context.Context, administrator string) error
	UpdatePaused(ctx context.Context, paused bool) error
}

type SettingsRepository struct {
	dao SettingsDAO
}

func NewSettingsRepository(dao SettingsDAO) *SettingsRepository {
	return &SettingsRepository{
		dao: dao,
	}
}

func (r *SettingsRepository) Seed(ctx context.Context, settings domain.Settings) error {
	return r.dao.Seed(ctx, dao.Settings{
		PlatformFeeBp:   settings.PlatformFeeBp,
		MinRoyaltyBp:    settings.MinRoyaltyBp,
		MaxRoyaltyBp:    settings.MaxRoyaltyBp,
		Administrator:   settings.Administrator,
		PlatformAccount: settings.PlatformAccount,
		Paused:          settings.Paused,
	})
}

func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := r.dao.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	return domain.Settings{
		FeeConfig: domain.FeeConfig{
			PlatformFeeBp: settings.PlatformFeeBp,
			MinRoyaltyBp:  settings.MinRoyaltyBp,
			MaxRoyaltyBp:  settings.MaxRoyaltyBp,
		},
		Administrator:   settings.Administrator,
		PlatformAccount: settings.PlatformAccount,
		Paused:          settings.Paused,
	}, nil
}

func (r *SettingsRepository) UpdateFeeConfig(ctx context.Context, cfg domain.FeeConfig) error {
	return r.dao.UpdateFeeConfig(ctx, cfg.PlatformFeeBp, cfg.MinRoyaltyBp, cfg.MaxRoyaltyBp)
}

func (r *SettingsRepository) UpdateAdministrator(ctx context.Context, administrator string) error {
	return r.dao.UpdateAdministrator(ctx, administrator)
}

func (r *SettingsRepository) UpdatePaused(ctx context.Context, paused bool) error {
	return r.dao.UpdatePaused(ctx, paused)
}
