package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"rentcore/internal/commands"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "rentcore",
		Short: "Rental marketplace lease lifecycle tool",
	}

	rootCmd.AddCommand(
		commands.MigrateCmd(),
		commands.OfferCmd(),
		commands.IssueCmd(),
		commands.TerminateCmd(),
		commands.RefundCmd(),
		commands.StatusCmd(),
		commands.SweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
