package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrSettingsNotFound = errors.New("marketplace settings not found")

// settingsRowID pins the settings to a single row.
const settingsRowID = 1

type Settings struct {
	ID uint `gorm:"primaryKey"`

	PlatformFeeBp   uint64 `gorm:"not null"`
	MinRoyaltyBp    uint64 `gorm:"not null"`
	MaxRoyaltyBp    uint64 `gorm:"not null"`
	Administrator   string `gorm:"not null"`
	PlatformAccount string `gorm:"not null"`
	Paused          bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type SettingsDAO struct {
	db *gorm.DB
}

func NewSettingsDAO(db *gorm.DB) *SettingsDAO {
	return &SettingsDAO{
		db: db,
	}
}

// Seed creates the settings row on first boot and leaves an existing row
// untouched, so a redeploy never clobbers administrator changes.
func (d *SettingsDAO) Seed(ctx context.Context, settings Settings) error {
	settings.ID = settingsRowID

	result := d.db.WithContext(ctx).
		Where(Settings{ID: settingsRowID}).
		Attrs(settings).
		FirstOrCreate(&Settings{})

	return result.Error
}

func (d *SettingsDAO) Get(ctx context.Context) (Settings, error) {
	var settings Settings

	result := d.db.WithContext(ctx).First(&settings, settingsRowID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Settings{}, ErrSettingsNotFound
		}

		return Settings{}, result.Error
	}

	return settings, nil
}

// UpdateFeeConfig replaces the three fee bounds in a single UPDATE, so a
// concurrent reader never observes a half-applied configuration.
func (d *SettingsDAO) UpdateFeeConfig(ctx context.Context, platformFeeBp, minRoyaltyBp, maxRoyaltyBp uint64) error {
	result := d.db.WithContext(ctx).
		Model(&Settings{}).
		Where("id = ?", settingsRowID).
		Updates(map[string]interface{}{
			"platform_fee_bp": platformFeeBp,
			"min_royalty_bp":  minRoyaltyBp,
			"max_royalty_bp":  maxRoyaltyBp,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

func (d *SettingsDAO) UpdateAdministrator(ctx context.Context, administrator string) error {
	result := d.db.WithContext(ctx).
		Model(&Settings{}).
		Where("id = ?", settingsRowID).
		Update("administrator", administrator)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

func (d *SettingsDAO) UpdatePaused(ctx context.Context, paused bool) error {
	result := d.db.WithContext(ctx).
		Model(&Settings{}).
		Where("id = ?", settingsRowID).
		Update("paused", paused)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
