package domain

import "time"

// Transaction types recorded in the escrow journal. Amount is signed from
// the point of view of the account's internal balance.
const (
	TxTypeDeposit  = "deposit"
	TxTypeStake    = "stake"
	TxTypePayout   = "payout"
	TxTypeRefund   = "refund"
	TxTypeWithdraw = "withdraw"
)

type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	Account   string                 `db:"account" json:"account"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	GameKey   string                 `db:"game_key" json:"game_key,omitempty"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
