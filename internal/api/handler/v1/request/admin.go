package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ConfigureRequest struct {
	PlatformFeeBp uint64 `json:"platform_fee_bp"`
	MinRoyaltyBp  uint64 `json:"min_royalty_bp"`
	MaxRoyaltyBp  uint64 `json:"max_royalty_bp"`
}

func (req *ConfigureRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PlatformFeeBp, validation.Max(uint64(10000))),
		validation.Field(&req.MinRoyaltyBp, validation.Max(uint64(10000))),
		validation.Field(&req.MaxRoyaltyBp, validation.Max(uint64(10000))),
	)
}

type TransferAdministratorRequest struct {
	NewAdministrator string `json:"new_administrator"`
}

func (req *TransferAdministratorRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.NewAdministrator, validation.Required, validation.By(validateAddress)),
	)
}
