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
	ErrListingNotFound   = errors.New("listing not found")
	ErrItemAlreadyListed = errors.New("item already has an active listing")
	ErrListingNotActive  = errors.New("listing is no longer active")
)

type Listing struct {
	ID uint `gorm:"primaryKey"`

	TokenID          uint64 `gorm:"not null;index"`
	Seller           string `gorm:"not null"`
	Price            uint64 `gorm:"not null"`
	RoyaltyRecipient string `gorm:"not null"`
	RoyaltyBp        uint64 `gorm:"not null"`
	State            string `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ListingDAO struct {
	db *gorm.DB
}

func NewListingDAO(db *gorm.DB) *ListingDAO {
	return &ListingDAO{
		db: db,
	}
}

// Insert creates an Active listing. The partial unique index on
// (token_id) WHERE state = 'active' backs up the application-level check,
// so two concurrent creates cannot both succeed.
func (d *ListingDAO) Insert(ctx context.Context, listing Listing) (Listing, error) {
	result := d.db.WithContext(ctx).Create(&listing)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "idx_listings_active_token") {
			return Listing{}, ErrItemAlreadyListed
		}

		return Listing{}, result.Error
	}

	return listing, nil
}

func (d *ListingDAO) FindActiveByTokenID(ctx context.Context, tokenID uint64) (Listing, error) {
	var listing Listing

	result := d.db.WithContext(ctx).
		Where("token_id = ? AND state = ?", tokenID, "active").
		First(&listing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Listing{}, ErrListingNotFound
		}

		return Listing{}, result.Error
	}

	return listing, nil
}

func (d *ListingDAO) HasActiveByTokenID(ctx context.Context, tokenID uint64) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Listing{}).
		Where("token_id = ? AND state = ?", tokenID, "active").
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// UpdateState transitions an Active listing into a terminal state. The WHERE
// clause on the current state makes the transition a no-op once the listing
// has already reached a terminal state.
func (d *ListingDAO) UpdateState(ctx context.Context, tokenID uint64, state string) error {
	result := d.db.WithContext(ctx).
		Model(&Listing{}).
		Where("token_id = ? AND state = ?", tokenID, "active").
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrListingNotActive
	}

	return nil
}
