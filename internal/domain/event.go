package domain

import "time"

// EventType - kind of notification emitted by the escrow engine
type EventType string

const (
	EventDeposited          EventType = "deposited"
	EventStarted            EventType = "started"
	EventPlayerOneCommitted EventType = "player_one_committed"
	EventPlayerTwoCommitted EventType = "player_two_committed"
	EventCompleted          EventType = "completed"
	EventTied               EventType = "tied"
	EventWithdrawn          EventType = "withdrawn"
	EventExpired            EventType = "expired"
)

// Event is a pure notification about an applied state change. It is not
// part of engine state; observers (ws, redis, audit) consume it.
//
// Account is the acting or benefiting account (depositor, committer,
// winner, player one on start/tie/expiry); Counterparty is the other
// player when there is one. On a tie Amount and CounterpartyAmount are the
// stakes returned to each side.
type Event struct {
	ID                 string    `json:"id"`
	Type               EventType `json:"type"`
	GameID             string    `json:"game_id,omitempty"`
	GameKey            string    `json:"game_key,omitempty"`
	Account            string    `json:"account"`
	Counterparty       string    `json:"counterparty,omitempty"`
	Amount             int64     `json:"amount,omitempty"`
	CounterpartyAmount int64     `json:"counterparty_amount,omitempty"`
	Choice             Choice    `json:"choice,omitempty"`
	At                 time.Time `json:"at"`
}

// Accounts lists the accounts an event concerns.
func (e Event) Accounts() []string {
	if e.Counterparty == "" {
		return []string{e.Account}
	}
	return []string{e.Account, e.Counterparty}
}
