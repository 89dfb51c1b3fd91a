package event

type Type string

const (
	ListingCreatedEvent   Type = "ListingCreatedEvent"
	ListingCancelledEvent Type = "ListingCancelledEvent"
	SaleSettledEvent      Type = "SaleSettledEvent"
)

type ListingCreated struct {
	TokenID          uint64 `json:"token_id"`
	Seller           string `json:"seller"`
	Price            uint64 `json:"price"`
	RoyaltyRecipient string `json:"royalty_recipient"`
	RoyaltyBp        uint64 `json:"royalty_bp"`
}

type ListingCancelled struct {
	TokenID uint64 `json:"token_id"`
	Seller  string `json:"seller"`
	Forced  bool   `json:"forced"`
}

type SaleSettled struct {
	TokenID           uint64 `json:"token_id"`
	Buyer             string `json:"buyer"`
	Seller            string `json:"seller"`
	Price             uint64 `json:"price"`
	RoyaltyRecipient  string `json:"royalty_recipient"`
	RoyaltyAmount     uint64 `json:"royalty_amount"`
	PlatformFeeAmount uint64 `json:"platform_fee_amount"`
}
