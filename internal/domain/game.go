package domain

import "time"

// GameStatus - lifecycle state of an escrow game
type GameStatus string

const (
	GameStatusCreated            GameStatus = "created"
	GameStatusPlayerOneCommitted GameStatus = "player_one_committed"
	GameStatusPlayerTwoCommitted GameStatus = "player_two_committed"
	GameStatusResolved           GameStatus = "resolved"
)

// Outcome - how a resolved game ended
type Outcome string

const (
	OutcomeNone          Outcome = ""
	OutcomePlayerOneWins Outcome = "player_one_wins"
	OutcomePlayerTwoWins Outcome = "player_two_wins"
	OutcomeTie           Outcome = "tie"
	OutcomeExpired       Outcome = "expired"
)

// Decisive reports whether the outcome has a winner.
func (o Outcome) Decisive() bool {
	return o == OutcomePlayerOneWins || o == OutcomePlayerTwoWins
}

// Game is one escrowed match, looked up by its caller-chosen Key.
// ID is unique per record so a settled key can be reused while the
// previous record stays on file.
type Game struct {
	ID        string     `db:"id" json:"id"`
	Key       string     `db:"game_key" json:"key"`
	PlayerOne string     `db:"player_one" json:"player_one"`
	PlayerTwo string     `db:"player_two" json:"player_two"`
	Deadline  time.Time  `db:"deadline" json:"deadline"`
	ChoiceOne Choice     `db:"choice_one" json:"choice_one,omitempty"`
	ChoiceTwo Choice     `db:"choice_two" json:"choice_two,omitempty"`
	StakeOne  int64      `db:"stake_one" json:"stake_one"`
	StakeTwo  int64      `db:"stake_two" json:"stake_two"`
	Pool      int64      `db:"pool" json:"pool"`
	Status    GameStatus `db:"status" json:"status"`
	Outcome   Outcome    `db:"outcome" json:"outcome,omitempty"`
	Winner    string     `db:"winner" json:"winner,omitempty"`
	Payout    int64      `db:"payout" json:"payout"`
	Withdrawn bool       `db:"withdrawn" json:"withdrawn"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// IsPlayer reports whether account is one of the two participants.
func (g *Game) IsPlayer(account string) bool {
	return account != "" && (account == g.PlayerOne || account == g.PlayerTwo)
}

// OpponentOf returns the other participant, or "" if account is not playing.
func (g *Game) OpponentOf(account string) string {
	switch account {
	case g.PlayerOne:
		return g.PlayerTwo
	case g.PlayerTwo:
		return g.PlayerOne
	default:
		return ""
	}
}

// Settled reports whether the record no longer holds funds or pending
// actions: resolved and either non-decisive or already withdrawn.
func (g *Game) Settled() bool {
	if g.Status != GameStatusResolved {
		return false
	}
	return !g.Outcome.Decisive() || g.Withdrawn
}

// WinningChoice returns the winner's hand, or ChoiceNone.
func (g *Game) WinningChoice() Choice {
	switch g.Outcome {
	case OutcomePlayerOneWins:
		return g.ChoiceOne
	case OutcomePlayerTwoWins:
		return g.ChoiceTwo
	default:
		return ChoiceNone
	}
}

// Clone returns a copy safe to hand out of the engine.
func (g *Game) Clone() *Game {
	c := *g
	return &c
}

// ResultFor reports the game result from one player's point of view.
func (g *Game) ResultFor(account string) GameResult {
	switch {
	case g.Outcome == OutcomeTie:
		return GameResultDraw
	case g.Outcome == OutcomeExpired:
		return GameResultVoid
	case g.Outcome.Decisive() && g.Winner == account:
		return GameResultWin
	case g.Outcome.Decisive():
		return GameResultLose
	default:
		return GameResultPending
	}
}

// GameResult - result of a game for one player
type GameResult string

const (
	GameResultWin     GameResult = "win"
	GameResultLose    GameResult = "lose"
	GameResultDraw    GameResult = "draw"
	GameResultPending GameResult = "pending"
	GameResultVoid    GameResult = "void"
)
