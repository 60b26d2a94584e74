package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/berrnk/bdz1/pkg/config"
)

var (
	cfgFile string
	ws      *workspace
)

var rootCmd = &cobra.Command{
	Use:           "finacc",
	Short:         "Track accounts, categories and income/expense operations",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Load configuration (config file + env + flag overrides)
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "finacc",
			Level:           cfg.Level(),
		})
		ws, err = openWorkspace(cfg, logger)
		return err
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", ".", "Directory holding the ledger and exports")
	rootCmd.PersistentFlags().StringP("format", "f", "yaml", "Document format: csv, json or yaml")
	rootCmd.PersistentFlags().String("ledger", "", "Ledger file name inside the data dir (default ledger.<format>)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level")

	rootCmd.AddCommand(accountCmd(), categoryCmd(), operationCmd())
	rootCmd.AddCommand(reportCmd(), planCmd(), applyCmd())
	rootCmd.AddCommand(exportCmd(), importCmd(), convertCmd(), dumpCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
