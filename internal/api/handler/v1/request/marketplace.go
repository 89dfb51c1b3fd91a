package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateListingRequest struct {
	TokenID          uint64 `json:"token_id"`
	Price            uint64 `json:"price"`
	RoyaltyRecipient string `json:"royalty_recipient"`
	RoyaltyBp        uint64 `json:"royalty_bp"`
}

func (req *CreateListingRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TokenID, validation.Required),
		validation.Field(&req.Price, validation.Required),
		validation.Field(&req.RoyaltyRecipient, validation.Required, validation.By(validateAddress)),
		validation.Field(&req.RoyaltyBp, validation.Max(uint64(10000))),
	)
}

type PurchaseRequest struct {
	TenderedAmount uint64 `json:"tendered_amount"`
}

func (req *PurchaseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TenderedAmount, validation.Required),
	)
}

type RegisterAssetRequest struct {
	TokenID uint64 `json:"token_id"`
}

func (req *RegisterAssetRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TokenID, validation.Required),
	)
}

type SetApprovalRequest struct {
	Approved bool `json:"approved"`
}

type DepositRequest struct {
	Amount uint64 `json:"amount"`
}

func (req *DepositRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required),
	)
}
