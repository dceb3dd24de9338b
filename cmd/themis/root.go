package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "themis",
	Short: "Themis - HR policy compliance engine",
	Long: `Themis turns HR policy text into structured compliance rules and
evaluates them against tabular employee records.

It provides:
  - Deterministic rule extraction from constrained-English policy sentences
  - Rule evaluation over leave and benefit CSV datasets
  - Violation reports as JSON or CSV
  - A store-backed service mode with scheduled runs and policy watching`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
