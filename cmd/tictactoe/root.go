package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-tac-toe game server and tools",
		Long: `tictactoe serves a REST API for games against an automated player and ships
helpers to inspect encoded board states or play a game in the terminal.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newBoardCmd(), newPlayCmd())

	return rootCmd
}
