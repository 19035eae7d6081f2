/*
Package main is the entry point for the Rubie's Chat server.

It wires the cobra command tree: "serve" runs the HTTP server and "migrate" manages the
database schema. Configuration is loaded from the environment before any command runs.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rubiechat/internal/configs"
	"rubiechat/internal/pkg/logx"
)

var cfg *configs.AppConfig

var rootCmd = &cobra.Command{
	Use:           "rubiechat",
	Short:         "Rubie's Chat server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := configs.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)
		return nil
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}
