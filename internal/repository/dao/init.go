package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Asset{},
		&Account{},
		&Listing{},
		&Settings{},
	)
	if err != nil {
		return err
	}

	// AutoMigrate cannot express a partial unique index; this one enforces
	// the at-most-one-Active-listing-per-item invariant at the database.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_active_token
		 ON listings (token_id) WHERE state = 'active'`,
	).Error
}
