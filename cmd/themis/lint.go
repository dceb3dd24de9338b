package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"veritas-hq/themis/pkg/cli"
	"veritas-hq/themis/pkg/rules"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule files",
	Long: `Validate rule JSON files for structural errors.

The lint command decodes each rule file and checks every rule:
  - Known category, severity and check type
  - Required params present for the check type
  - Rule code shape (LEAVE_001, BEN_002, ...)

Examples:
  # Lint a single file
  themis lint --file rules.json

  # Lint a directory
  themis lint --dir rules/

  # JSON output for CI
  themis lint --file rules.json --format json`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintRules(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return cli.NewUsageError("lint", "either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		matches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.json"))
		if err != nil {
			return cli.NewCommandError("lint", fmt.Errorf("listing rule files: %w", err))
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return cli.NewCommandError("lint", fmt.Errorf("no rule files found"))
	}

	results := make([]lintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintFile(file))
	}

	if lintFlags.format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		printLintResults(results)
	}

	for _, r := range results {
		if !r.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}

// lintResult is the validation outcome for one rule file.
type lintResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Rules  int      `json:"rules"`
	Errors []string `json:"errors,omitempty"`
}

func lintFile(path string) lintResult {
	result := lintResult{File: path, Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	var rs []rules.Rule
	if err := json.Unmarshal(data, &rs); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("invalid JSON: %v", err))
		return result
	}
	result.Rules = len(rs)

	for _, err := range rules.ValidateAll(rs) {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}
	return result
}

func printLintResults(results []lintResult) {
	totalErrors := 0
	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)
		if result.Valid {
			fmt.Printf("✓ %d rule(s) valid\n", result.Rules)
		}
		for _, msg := range result.Errors {
			fmt.Printf("✗ Error: %s\n", msg)
			totalErrors++
		}
		fmt.Println()
	}
	fmt.Println("Summary:")
	fmt.Printf("  %d error(s)\n", totalErrors)
}
