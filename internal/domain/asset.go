package domain

import "time"

// Asset mirrors an item on the external asset ledger: its identifier, the
// current owner and the operator (if any) approved to move it.
type Asset struct {
	TokenID          uint64 `json:"token_id"`
	Owner            string `json:"owner"`
	ApprovedOperator string `json:"approved_operator"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account is a balance on the payment rail.
type Account struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Frozen  bool   `json:"frozen"`
}
