package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/royalty"
)

var (
	ErrNotAuthorized        = errors.New("caller is not the administrator")
	ErrInvalidPrincipal     = errors.New("invalid principal")
	ErrInvalidConfiguration = royalty.ErrInvalidConfiguration
)

type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	UpdateFeeConfig(ctx context.Context, cfg domain.FeeConfig) error
	UpdateAdministrator(ctx context.Context, administrator string) error
	UpdatePaused(ctx context.Context, paused bool) error
}

// AdminService gates the privileged operations behind the single
// administrator principal. There is deliberately no role hierarchy.
type AdminService struct {
	settings SettingsRepository
}

func NewAdminService(settings SettingsRepository) *AdminService {
	return &AdminService{
		settings: settings,
	}
}

func (s *AdminService) requireAdministrator(ctx context.Context, caller string) (domain.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("s.settings.Get -> %w", err)
	}
	if caller != settings.Administrator {
		return domain.Settings{}, ErrNotAuthorized
	}

	return settings, nil
}

// Configure replaces the fee configuration. The bounds are validated before
// the single-statement update, so no partial configuration is ever visible.
func (s *AdminService) Configure(ctx context.Context, caller string, cfg domain.FeeConfig) error {
	if _, err := s.requireAdministrator(ctx, caller); err != nil {
		return err
	}

	if err := royalty.ValidateConfig(cfg); err != nil {
		return err
	}

	if err := s.settings.UpdateFeeConfig(ctx, cfg); err != nil {
		return fmt.Errorf("s.settings.UpdateFeeConfig -> %w", err)
	}

	zap.L().Info("fee configuration replaced",
		zap.Uint64("platform_fee_bp", cfg.PlatformFeeBp),
		zap.Uint64("min_royalty_bp", cfg.MinRoyaltyBp),
		zap.Uint64("max_royalty_bp", cfg.MaxRoyaltyBp),
	)

	return nil
}

func (s *AdminService) TransferAdministrator(ctx context.Context, caller, newAdministrator string) error {
	if _, err := s.requireAdministrator(ctx, caller); err != nil {
		return err
	}

	if !domain.IsValidPrincipal(newAdministrator) {
		return ErrInvalidPrincipal
	}

	if err := s.settings.UpdateAdministrator(ctx, newAdministrator); err != nil {
		return fmt.Errorf("s.settings.UpdateAdministrator -> %w", err)
	}

	zap.L().Info("administrator transferred", zap.String("new_administrator", newAdministrator))

	return nil
}

func (s *AdminService) SetPaused(ctx context.Context, caller string, paused bool) error {
	if _, err := s.requireAdministrator(ctx, caller); err != nil {
		return err
	}

	if err := s.settings.UpdatePaused(ctx, paused); err != nil {
		return fmt.Errorf("s.settings.UpdatePaused -> %w", err)
	}

	return nil
}

func (s *AdminService) GetSettings(ctx context.Context, caller string) (domain.Settings, error) {
	settings, err := s.requireAdministrator(ctx, caller)
	if err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

func (s *AdminService) IsAdministrator(ctx context.Context, caller string) (bool, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("s.settings.Get -> %w", err)
	}

	return caller == settings.Administrator, nil
}
