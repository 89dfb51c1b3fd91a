package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetAlreadyExists  = errors.New("asset already registered")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountFrozen       = errors.New("account is frozen")
	ErrInsufficientBalance = errors.New("insufficient account balance")
)

type Asset struct {
	ID uint `gorm:"primaryKey"`

	TokenID          uint64 `gorm:"uniqueIndex;not null"`
	Owner            string `gorm:"not null;index"`
	ApprovedOperator string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Account struct {
	ID uint `gorm:"primaryKey"`

	Address string `gorm:"uniqueIndex;not null"`
	Balance uint64 `gorm:"not null;default:0"`
	Frozen  bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AssetDAO struct {
	db *gorm.DB
}

func NewAssetDAO(db *gorm.DB) *AssetDAO {
	return &AssetDAO{
		db: db,
	}
}

func (d *AssetDAO) Insert(ctx context.Context, asset Asset) (Asset, error) {
	result := d.db.WithContext(ctx).Create(&asset)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "token_id") {
			return Asset{}, ErrAssetAlreadyExists
		}

		return Asset{}, result.Error
	}

	return asset, nil
}

func (d *AssetDAO) FindByTokenID(ctx context.Context, tokenID uint64) (Asset, error) {
	var asset Asset

	result := d.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Asset{}, ErrAssetNotFound
		}

		return Asset{}, result.Error
	}

	return asset, nil
}

func (d *AssetDAO) UpdateApprovedOperator(ctx context.Context, tokenID uint64, operator string) error {
	result := d.db.WithContext(ctx).
		Model(&Asset{}).
		Where("token_id = ?", tokenID).
		Update("approved_operator", operator)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}

	return nil
}

func (d *AssetDAO) FindAccountByAddress(ctx context.Context, address string) (Account, error) {
	var account Account

	result := d.db.WithContext(ctx).Where("address = ?", address).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Account{}, ErrAccountNotFound
		}

		return Account{}, result.Error
	}

	return account, nil
}

// Credit adds funds to an account, creating it on first use.
func (d *AssetDAO) Credit(ctx context.Context, address string, amount uint64) (Account, error) {
	var account Account

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("address = ?", address).First(&account)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}

			account = Account{Address: address, Balance: amount}
			return tx.Create(&account).Error
		}

		if account.Frozen {
			return ErrAccountFrozen
		}

		account.Balance += amount
		return tx.Save(&account).Error
	})
	if err != nil {
		return Account{}, err
	}

	return account, nil
}
