package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/subledger-inc/subledger/internal/interfaces/cli/billing"
	"github.com/subledger-inc/subledger/internal/interfaces/cli/migrate"
	"github.com/subledger-inc/subledger/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "subledger",
		Short: "Subledger - recurring billing subscription engine",
		Long:  `Subledger manages recurring subscriptions: billing schedules with month-end handling, lifecycle transitions, billing sweeps, and revenue reporting.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		billing.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
