package response

type AuthResponse struct {
	Token   string `json:"token"`
	Address string `json:"address"`
}

type PurchaseResponse struct {
	TokenID           uint64 `json:"token_id"`
	Buyer             string `json:"buyer"`
	Price             uint64 `json:"price"`
	RoyaltyAmount     uint64 `json:"royalty_amount"`
	PlatformFeeAmount uint64 `json:"platform_fee_amount"`
	SellerProceeds    uint64 `json:"seller_proceeds"`
	Refund            uint64 `json:"refund"`
}

type RoyaltyInfoResponse struct {
	TokenID       uint64 `json:"token_id"`
	Recipient     string `json:"recipient"`
	SalePrice     uint64 `json:"sale_price"`
	RoyaltyAmount uint64 `json:"royalty_amount"`
}
