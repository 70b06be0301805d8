package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rpsctl drives the escrow HTTP API from a terminal.
func main() {
	if err := rootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rpsctl",
		Short:         "rock-paper-scissors escrow client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("addr", envOr("RPSCTL_ADDR", "http://127.0.0.1:8080"), "server base URL")
	cmd.PersistentFlags().String("token", os.Getenv("RPSCTL_TOKEN"), "bearer token, overrides the session file")
	cmd.PersistentFlags().String("session", defaultSessionPath(), "file holding the token saved by login")

	cmd.AddCommand(
		LoginCmd(),
		TokenCmd(),
		DepositCmd(),
		BalanceCmd(),
		GameCmd(),
		MyCmd(),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// clientFor builds an API client from the persistent flags.
func clientFor(cmd *cobra.Command) *client {
	addr, _ := cmd.Flags().GetString("addr")
	tok, _ := cmd.Flags().GetString("token")
	if tok == "" {
		path, _ := cmd.Flags().GetString("session")
		tok, _ = loadSession(path)
	}
	return newClient(addr, tok)
}
