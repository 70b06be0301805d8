package main

import (
	"strconv"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/pterm/pterm"
)

// gameView mirrors the server's per-account game rendering.
type gameView struct {
	domain.Game
	Result        domain.GameResult `json:"result"`
	PoolFormatted string            `json:"pool_formatted"`
	Expired       bool              `json:"deadline_passed"`
}

func hand(c domain.Choice) string {
	if c == domain.ChoiceNone {
		return pterm.Gray("hidden")
	}
	return c.String()
}

func resultText(r domain.GameResult) string {
	switch r {
	case domain.GameResultWin:
		return pterm.Green(string(r))
	case domain.GameResultLose:
		return pterm.Red(string(r))
	case "":
		return "-"
	default:
		return pterm.Yellow(string(r))
	}
}

func printGame(g gameView) {
	deadline := g.Deadline.Local().Format(time.DateTime)
	if g.Expired && g.Status != domain.GameStatusResolved {
		deadline += " " + pterm.Red("(passed)")
	}

	data := pterm.TableData{
		{"key", g.Key},
		{"status", string(g.Status)},
		{"player one", g.PlayerOne + " / " + hand(g.ChoiceOne) + " / " + token.Format(g.StakeOne)},
		{"player two", g.PlayerTwo + " / " + hand(g.ChoiceTwo) + " / " + token.Format(g.StakeTwo)},
		{"pool", g.PoolFormatted + " " + token.Symbol},
		{"deadline", deadline},
	}
	if g.Outcome != domain.OutcomeNone {
		data = append(data, []string{"outcome", string(g.Outcome)})
	}
	if g.Winner != "" {
		data = append(data,
			[]string{"winner", g.Winner},
			[]string{"payout", token.Format(g.Payout) + " " + token.Symbol},
			[]string{"withdrawn", strconv.FormatBool(g.Withdrawn)},
		)
	}
	data = append(data, []string{"your result", resultText(g.Result)})

	pterm.DefaultSection.Println("Game " + g.Key)
	_ = pterm.DefaultTable.WithData(data).Render()
}

func printGames(games []gameView) {
	if len(games) == 0 {
		pterm.Info.Println("no games")
		return
	}
	data := pterm.TableData{{"key", "status", "player one", "player two", "pool", "result", "created"}}
	for _, g := range games {
		data = append(data, []string{
			g.Key,
			string(g.Status),
			g.PlayerOne,
			g.PlayerTwo,
			g.PoolFormatted,
			resultText(g.Result),
			g.CreatedAt.Local().Format(time.DateTime),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printEvents(events []domain.Event) {
	if len(events) == 0 {
		pterm.Info.Println("no events")
		return
	}
	data := pterm.TableData{{"at", "type", "account", "counterparty", "amount", "choice"}}
	for _, ev := range events {
		amount := ""
		if ev.Amount != 0 {
			amount = token.Format(ev.Amount)
		}
		data = append(data, []string{
			ev.At.Local().Format(time.DateTime),
			string(ev.Type),
			ev.Account,
			ev.Counterparty,
			amount,
			ev.Choice.String(),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printTransactions(txs []domain.Transaction) {
	if len(txs) == 0 {
		pterm.Info.Println("no transactions")
		return
	}
	data := pterm.TableData{{"id", "type", "amount", "game", "at"}}
	for _, tx := range txs {
		data = append(data, []string{
			strconv.FormatInt(tx.ID, 10),
			tx.Type,
			token.Format(tx.Amount),
			tx.GameKey,
			tx.CreatedAt.Local().Format(time.DateTime),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printAudit(logs []domain.AuditLog) {
	if len(logs) == 0 {
		pterm.Info.Println("no audit entries")
		return
	}
	data := pterm.TableData{{"id", "category", "action", "at"}}
	for _, l := range logs {
		data = append(data, []string{
			strconv.FormatInt(l.ID, 10),
			l.Category,
			l.Action,
			l.CreatedAt.Local().Format(time.DateTime),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
