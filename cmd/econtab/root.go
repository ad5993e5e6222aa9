package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"econtab/internal/config"
	"econtab/internal/infrastructure"
)

// NewRootCmd creates the root command for econtab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "econtab",
		Short: "Fetch, reshape and export tabular data",
		Long: `econtab is a small toolkit for getting data into shape: fetch CSV, JSON,
HTML tables, spreadsheets or PDF text from URLs and files, coerce and rename
columns, filter/sort/group the rows, and export the result as delimited
text, a terminal table, markdown, LaTeX or an Excel workbook.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging for a subcommand.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}
