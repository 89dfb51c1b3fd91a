package domain

// SettlementResult is derived per sale and never stored. The three amounts
// always sum exactly to the sale price; integer-division remainder is
// attributed to the seller.
type SettlementResult struct {
	RoyaltyAmount     uint64 `json:"royalty_amount"`
	PlatformFeeAmount uint64 `json:"platform_fee_amount"`
	SellerProceeds    uint64 `json:"seller_proceeds"`
}

// Settlement records one settled purchase exactly as it committed: the
// listing actually fulfilled, the price paid and any overpayment refund,
// alongside the fee split.
type Settlement struct {
	TokenID uint64           `json:"token_id"`
	Seller  string           `json:"seller"`
	Buyer   string           `json:"buyer"`
	Price   uint64           `json:"price"`
	Refund  uint64           `json:"refund"`
	Result  SettlementResult `json:"result"`
}

type Payout struct {
	To     string
	Amount uint64
}

// Exchange is the fully staged outcome of a purchase: the ownership move,
// the tender collected from the buyer and every payout (royalty, platform
// fee, seller proceeds, overpayment refund). It is committed in a single
// pass, all effects or none.
type Exchange struct {
	TokenID  uint64
	Seller   string
	Buyer    string
	Tendered uint64
	Payouts  []Payout
}
