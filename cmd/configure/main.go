package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/enablementhq/tracker-api/cmd/configure/commands"
)

// tracker-configure is the operator's side door: it shares the server's
// config loading, so what it prints and tests is exactly what the server
// would see.
func main() {
	rootCmd := &cobra.Command{
		Use:   "tracker-configure",
		Short: "Configuration tool for Tracker API",
		Long:  "CLI tool for inspecting configuration, testing connectivity, and managing runtime settings",
	}

	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewTestCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewCatalogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
