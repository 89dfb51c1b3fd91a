package domain

import "time"

type ListingState string

const (
	ListingStateActive    ListingState = "active"
	ListingStateFulfilled ListingState = "fulfilled"
	ListingStateCancelled ListingState = "cancelled"
)

// RoyaltyConfig is fixed at listing time and lives as long as the listing.
// A relisted item may carry a different value, as long as it sits within
// the configured bounds at creation time.
type RoyaltyConfig struct {
	Recipient    string `json:"recipient"`
	PercentageBp uint64 `json:"percentage_bp"`
}

type Listing struct {
	ID      uint          `json:"id"`
	TokenID uint64        `json:"token_id"`
	Seller  string        `json:"seller"`
	Price   uint64        `json:"price"`
	Royalty RoyaltyConfig `json:"royalty"`
	State   ListingState  `json:"state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l Listing) IsActive() bool {
	return l.State == ListingStateActive
}
