package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransferRejected     = errors.New("asset transfer rejected by the ledger")
	ErrDisbursementRejected = errors.New("payment rail rejected a disbursement")
)

// MarketplaceOperator is the operator identity the marketplace acts under on
// the asset ledger. Sellers approve it before listing; the approval is
// consumed when the transfer settles.
const MarketplaceOperator = "marketplace"

type Payout struct {
	To     string
	Amount uint64
}

// Exchange is the staged outcome of a purchase handed down by the settlement
// engine once every validation has passed.
type Exchange struct {
	TokenID  uint64
	Seller   string
	Buyer    string
	Tendered uint64
	Payouts  []Payout
}

type SettlementDAO struct {
	db *gorm.DB
}

func NewSettlementDAO(db *gorm.DB) *SettlementDAO {
	return &SettlementDAO{
		db: db,
	}
}

// ExecuteExchange commits an exchange in one database transaction: the
// ownership transfer, the tender debit, every payout and the listing's
// Active -> Fulfilled transition. Any rejection rolls the whole exchange
// back, the transfer included.
func (d *SettlementDAO) ExecuteExchange(ctx context.Context, ex Exchange) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := transferAsset(tx, ex); err != nil {
			return err
		}
		if err := debitTender(tx, ex.Buyer, ex.Tendered); err != nil {
			return err
		}
		for _, payout := range ex.Payouts {
			if err := creditPayout(tx, payout); err != nil {
				return err
			}
		}

		// Reuses the same state guard as cancellation, so a listing that
		// reached a terminal state concurrently aborts the exchange.
		result := tx.Model(&Listing{}).
			Where("token_id = ? AND state = ?", ex.TokenID, "active").
			Update("state", "fulfilled")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrListingNotActive
		}

		return nil
	})
}

func transferAsset(tx *gorm.DB, ex Exchange) error {
	var asset Asset

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token_id = ?", ex.TokenID).
		First(&asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrTransferRejected
		}

		return result.Error
	}

	// The seller may have moved the item or revoked approval since listing.
	if asset.Owner != ex.Seller || asset.ApprovedOperator != MarketplaceOperator {
		return ErrTransferRejected
	}

	asset.Owner = ex.Buyer
	asset.ApprovedOperator = ""

	return tx.Save(&asset).Error
}

func debitTender(tx *gorm.DB, buyer string, amount uint64) error {
	var account Account

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", buyer).
		First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrDisbursementRejected
		}

		return result.Error
	}

	if account.Frozen || account.Balance < amount {
		return ErrDisbursementRejected
	}

	account.Balance -= amount

	return tx.Save(&account).Error
}

func creditPayout(tx *gorm.DB, payout Payout) error {
	var account Account

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", payout.To).
		First(&account)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		// First payment to this principal opens the account.
		account = Account{Address: payout.To, Balance: payout.Amount}
		return tx.Create(&account).Error
	}

	// A frozen recipient rejects funds and aborts the whole exchange.
	if account.Frozen {
		return ErrDisbursementRejected
	}

	account.Balance += payout.Amount

	return tx.Save(&account).Error
}
