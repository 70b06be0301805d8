package main

import (
	"errors"

	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a token from a development server and save it",
		RunE:  login,
	}
	cmd.Flags().StringP("account", "u", "", "account id")
	cmd.MarkFlagRequired("account")
	return cmd
}

func login(cmd *cobra.Command, args []string) error {
	account, _ := cmd.Flags().GetString("account")
	session, _ := cmd.Flags().GetString("session")

	var res struct {
		Token   string `json:"token"`
		Account string `json:"account"`
	}
	if err := clientFor(cmd).post(cmd.Context(), "/api/v1/auth/dev", map[string]string{"account": account}, &res); err != nil {
		return err
	}
	if err := saveSession(session, res.Token); err != nil {
		return err
	}
	pterm.Success.Printfln("logged in as %s, token saved to %s", pterm.Cyan(res.Account), session)
	return nil
}

func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Token account management",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		TokenInfoCmd(),
		TokenBalanceCmd(),
		TokenApproveCmd(),
		TokenMintCmd(),
		TokenBurnCmd(),
	)
	return cmd
}

func TokenInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the wagered token and the escrow custody account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Name     string `json:"name"`
				Symbol   string `json:"symbol"`
				Decimals int    `json:"decimals"`
				Custody  string `json:"custody"`
				Supply   int64  `json:"total_supply"`
			}
			if err := clientFor(cmd).get(cmd.Context(), "/api/v1/token/info", &res); err != nil {
				return err
			}
			return pterm.DefaultTable.WithData(pterm.TableData{
				{"name", res.Name},
				{"symbol", res.Symbol},
				{"decimals", pterm.Sprint(res.Decimals)},
				{"custody", res.Custody},
				{"total supply", token.Format(res.Supply) + " " + res.Symbol},
			}).Render()
		},
	}
}

func TokenBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show your token balance and the allowance granted to the escrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Account   string `json:"account"`
				Balance   int64  `json:"balance"`
				Allowance int64  `json:"allowance"`
			}
			if err := clientFor(cmd).get(cmd.Context(), "/api/v1/token/balance", &res); err != nil {
				return err
			}
			return pterm.DefaultTable.WithData(pterm.TableData{
				{"account", res.Account},
				{"balance", token.Format(res.Balance) + " " + token.Symbol},
				{"allowance", token.Format(res.Allowance) + " " + token.Symbol},
			}).Render()
		},
	}
}

func TokenApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Allow the escrow to pull tokens from your account",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			var res struct {
				Spender   string `json:"spender"`
				Allowance int64  `json:"allowance"`
			}
			if err := clientFor(cmd).post(cmd.Context(), "/api/v1/token/approve", map[string]int64{"amount": amount}, &res); err != nil {
				return err
			}
			pterm.Success.Printfln("%s may now pull %s %s", res.Spender, token.Format(res.Allowance), token.Symbol)
			return nil
		},
	}
	addAmountFlag(cmd)
	return cmd
}

func TokenMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint test tokens to your account (development servers only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			var res struct {
				Minted  int64 `json:"minted"`
				Balance int64 `json:"balance"`
			}
			if err := clientFor(cmd).post(cmd.Context(), "/api/v1/token/mint", map[string]int64{"amount": amount}, &res); err != nil {
				return err
			}
			pterm.Success.Printfln("minted %s, balance %s %s", token.Format(res.Minted), token.Format(res.Balance), token.Symbol)
			return nil
		},
	}
	addAmountFlag(cmd)
	return cmd
}

func TokenBurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Destroy tokens from your account (development servers only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			var res struct {
				Burned  int64 `json:"burned"`
				Balance int64 `json:"balance"`
			}
			if err := clientFor(cmd).post(cmd.Context(), "/api/v1/token/burn", map[string]int64{"amount": amount}, &res); err != nil {
				return err
			}
			pterm.Success.Printfln("burned %s, balance %s %s", token.Format(res.Burned), token.Format(res.Balance), token.Symbol)
			return nil
		},
	}
	addAmountFlag(cmd)
	return cmd
}

func addAmountFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("amount", "a", "", "amount in whole tokens, e.g. 12.5")
	cmd.Flags().Int64("units", 0, "amount in base units, overrides --amount")
}

var errNoAmount = errors.New("--amount or --units is required")

// amountFlag resolves --units or the decimal --amount into base units.
func amountFlag(cmd *cobra.Command) (int64, error) {
	if units, _ := cmd.Flags().GetInt64("units"); units != 0 {
		if units < 0 {
			return 0, token.ErrZeroAmount
		}
		return units, nil
	}
	s, _ := cmd.Flags().GetString("amount")
	if s == "" {
		return 0, errNoAmount
	}
	amount, err := token.Parse(s)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, token.ErrZeroAmount
	}
	return amount, nil
}
