package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"veritas-hq/themis/pkg/cli"
	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/export"
	"veritas-hq/themis/pkg/rules"
)

var checkFlags struct {
	rulesFile   string
	datasetFile string
	datasetType string
	format      string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate rules against a dataset",
	Long: `Evaluate a rule file against a CSV dataset and report violations.

Rules whose category does not match the dataset type are skipped. Rows
with missing or unparseable values never produce violations for the
affected rule. Finding violations is a successful run: the command
exits non-zero only when the input itself cannot be processed.

Examples:
  # Check benefit claims
  themis check --rules rules.json --dataset claims.csv --type benefit

  # Check leave requests, CSV report
  themis check --rules rules.json --dataset leave.csv --type leave --format csv`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.rulesFile, "rules", "r", "", "rule file (JSON array)")
	checkCmd.Flags().StringVarP(&checkFlags.datasetFile, "dataset", "d", "", "dataset CSV file")
	checkCmd.Flags().StringVarP(&checkFlags.datasetType, "type", "t", "", "dataset type: leave, benefit")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "json", "report format: json, csv")
	checkCmd.MarkFlagRequired("rules")
	checkCmd.MarkFlagRequired("dataset")
	checkCmd.MarkFlagRequired("type")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dt := dataset.Type(checkFlags.datasetType)
	if !dt.Valid() {
		return cli.NewUsageError("check", fmt.Sprintf("invalid dataset type %q (want leave or benefit)", checkFlags.datasetType))
	}
	exporter, err := export.ForFormat(checkFlags.format)
	if err != nil {
		return cli.NewUsageError("check", err.Error())
	}

	rs, err := loadRuleFile(checkFlags.rulesFile)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	if errs := rules.ValidateAll(rs); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "invalid rule: %v\n", e)
		}
		return cli.NewCommandError("check", fmt.Errorf("%d invalid rule(s) in %s", len(errs), checkFlags.rulesFile))
	}

	src, err := dataset.Open(checkFlags.datasetFile)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	defer src.Close()

	evaluator := compliance.NewEvaluator(nil)
	violations, err := evaluator.EvaluateStream(rs, dt, src)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	if err := exporter.Export(violations, cmd.OutOrStdout()); err != nil {
		return cli.NewCommandError("check", err)
	}
	return nil
}

// loadRuleFile reads and decodes a JSON rule array.
func loadRuleFile(path string) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	var rs []rules.Rule
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}
	return rs, nil
}
