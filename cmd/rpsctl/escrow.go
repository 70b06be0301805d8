package main

import (
	"strconv"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func DepositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Move approved tokens into escrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			var res struct {
				Balance int64 `json:"balance"`
			}
			if err := clientFor(cmd).post(cmd.Context(), "/api/v1/deposit", map[string]int64{"amount": amount}, &res); err != nil {
				return err
			}
			pterm.Success.Printfln("deposited %s, escrow balance %s %s", token.Format(amount), token.Format(res.Balance), token.Symbol)
			return nil
		},
	}
	addAmountFlag(cmd)
	return cmd
}

func BalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show your unstaked escrow balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Account string `json:"account"`
				Balance int64  `json:"balance"`
			}
			if err := clientFor(cmd).get(cmd.Context(), "/api/v1/balance", &res); err != nil {
				return err
			}
			pterm.Info.Printfln("%s: %s %s", res.Account, token.Format(res.Balance), token.Symbol)
			return nil
		},
	}
}

func GameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Escrow game management",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		GameStartCmd(),
		GameCommitCmd(),
		GameResolveCmd(),
		GameWithdrawCmd(),
		GameReclaimCmd(),
		GameShowCmd(),
		GameHistoryCmd(),
		GameEventsCmd(),
	)
	return cmd
}

func GameStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <key>",
		Short: "Open a game as player one",
		Args:  cobra.ExactArgs(1),
		RunE:  gameStart,
	}
	cmd.Flags().StringP("opponent", "o", "", "player two account")
	cmd.MarkFlagRequired("opponent")
	cmd.Flags().Int64P("timeout", "t", 0, "commit window in seconds, server default when 0")
	return cmd
}

func gameStart(cmd *cobra.Command, args []string) error {
	opponent, _ := cmd.Flags().GetString("opponent")
	timeout, _ := cmd.Flags().GetInt64("timeout")

	body := map[string]any{"key": args[0], "opponent": opponent}
	if timeout > 0 {
		body["duration_seconds"] = timeout
	}
	var g gameView
	if err := clientFor(cmd).post(cmd.Context(), "/api/v1/games", body, &g); err != nil {
		return err
	}
	pterm.Success.Printfln("game %s started against %s", g.Key, g.PlayerTwo)
	printGame(g)
	return nil
}

func GameCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit <key>",
		Short: "Stake your whole escrow balance with a hand",
		Args:  cobra.ExactArgs(1),
		RunE:  gameCommit,
	}
	cmd.Flags().StringP("choice", "c", "", "rock, paper or scissors (or 1, 2, 3)")
	cmd.MarkFlagRequired("choice")
	cmd.Flags().StringP("opponent", "o", "", "the other player's account")
	cmd.MarkFlagRequired("opponent")
	cmd.Flags().Bool("two", false, "commit as player two")
	return cmd
}

func gameCommit(cmd *cobra.Command, args []string) error {
	choiceStr, _ := cmd.Flags().GetString("choice")
	opponent, _ := cmd.Flags().GetString("opponent")
	two, _ := cmd.Flags().GetBool("two")

	choice, err := domain.ParseChoice(choiceStr)
	if err != nil {
		return err
	}
	seat := "player-one"
	if two {
		seat = "player-two"
	}

	var g gameView
	body := map[string]string{"choice": choice.String(), "opponent": opponent}
	if err := clientFor(cmd).post(cmd.Context(), gamePath(args[0], seat), body, &g); err != nil {
		return err
	}
	pterm.Success.Printfln("committed %s to %s", choice, g.Key)
	printGame(g)
	return nil
}

func GameResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <key>",
		Short: "Decide a fully committed game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opponent, _ := cmd.Flags().GetString("opponent")
			var g gameView
			if err := clientFor(cmd).post(cmd.Context(), gamePath(args[0], "resolve"), map[string]string{"opponent": opponent}, &g); err != nil {
				return err
			}
			announce(g)
			printGame(g)
			return nil
		},
	}
	cmd.Flags().StringP("opponent", "o", "", "the other player's account")
	cmd.MarkFlagRequired("opponent")
	return cmd
}

func announce(g gameView) {
	switch g.Result {
	case domain.GameResultWin:
		pterm.Success.Printfln("you won %s %s, run withdraw to collect", token.Format(g.Payout), token.Symbol)
	case domain.GameResultLose:
		pterm.Error.Printfln("%s won this one", g.Winner)
	case domain.GameResultDraw:
		pterm.Info.Println("tie, stakes returned to both escrow balances")
	default:
		pterm.Info.Printfln("game %s is %s", g.Key, g.Status)
	}
}

func GameWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <key>",
		Short: "Send your winnings to your token account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Amount int64 `json:"amount"`
			}
			if err := clientFor(cmd).post(cmd.Context(), gamePath(args[0], "withdraw"), nil, &res); err != nil {
				return err
			}
			pterm.Success.Printfln("withdrew %s %s", token.Format(res.Amount), token.Symbol)
			return nil
		},
	}
}

func GameReclaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reclaim <key>",
		Short: "Close a game whose deadline passed and return the stakes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g gameView
			if err := clientFor(cmd).post(cmd.Context(), gamePath(args[0], "reclaim"), nil, &g); err != nil {
				return err
			}
			pterm.Success.Printfln("game %s closed, stakes returned", g.Key)
			printGame(g)
			return nil
		},
	}
}

func GameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show the game currently bound to a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g gameView
			if err := clientFor(cmd).get(cmd.Context(), gamePath(args[0], ""), &g); err != nil {
				return err
			}
			printGame(g)
			return nil
		},
	}
}

func GameHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <key>",
		Short: "List every game ever bound to a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Games []gameView `json:"games"`
			}
			if err := clientFor(cmd).get(cmd.Context(), gamePath(args[0], "history"), &res); err != nil {
				return err
			}
			printGames(res.Games)
			return nil
		},
	}
}

func GameEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events <key>",
		Short: "Replay recent events of a game key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			var res struct {
				Events []domain.Event `json:"events"`
			}
			path := gamePath(args[0], "events") + "?limit=" + strconv.Itoa(limit)
			if err := clientFor(cmd).get(cmd.Context(), path, &res); err != nil {
				return err
			}
			printEvents(res.Events)
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 50, "number of events")
	return cmd
}

func MyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "my",
		Short: "Your own games and records",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "games",
			Short: "List games you play in",
			RunE: func(cmd *cobra.Command, args []string) error {
				var res struct {
					Games []gameView `json:"games"`
				}
				if err := clientFor(cmd).get(cmd.Context(), "/api/v1/me/games", &res); err != nil {
					return err
				}
				printGames(res.Games)
				return nil
			},
		},
		&cobra.Command{
			Use:   "transactions",
			Short: "List your journal entries",
			RunE: func(cmd *cobra.Command, args []string) error {
				var res struct {
					Transactions []domain.Transaction `json:"transactions"`
				}
				if err := clientFor(cmd).get(cmd.Context(), "/api/v1/me/transactions", &res); err != nil {
					return err
				}
				printTransactions(res.Transactions)
				return nil
			},
		},
		&cobra.Command{
			Use:   "events",
			Short: "Replay recent events that concern you",
			RunE: func(cmd *cobra.Command, args []string) error {
				var res struct {
					Events []domain.Event `json:"events"`
				}
				if err := clientFor(cmd).get(cmd.Context(), "/api/v1/me/events", &res); err != nil {
					return err
				}
				printEvents(res.Events)
				return nil
			},
		},
		&cobra.Command{
			Use:   "audit",
			Short: "List your audit log",
			RunE: func(cmd *cobra.Command, args []string) error {
				var res struct {
					Logs []domain.AuditLog `json:"logs"`
				}
				if err := clientFor(cmd).get(cmd.Context(), "/api/v1/me/audit", &res); err != nil {
					return err
				}
				printAudit(res.Logs)
				return nil
			},
		},
	)
	return cmd
}
