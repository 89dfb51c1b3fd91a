package domain

// FeeConfig holds the process-wide fee bounds on the 0-10000 basis-point
// scale. Replaced atomically via the administrator's configure call.
type FeeConfig struct {
	PlatformFeeBp uint64 `json:"platform_fee_bp"`
	MinRoyaltyBp  uint64 `json:"min_royalty_bp"`
	MaxRoyaltyBp  uint64 `json:"max_royalty_bp"`
}

// Settings is the single marketplace settings record: the fee bounds, the
// administrator principal, the platform fee account and the pause switch.
type Settings struct {
	FeeConfig

	Administrator   string `json:"administrator"`
	PlatformAccount string `json:"platform_account"`
	Paused          bool   `json:"paused"`
}
