package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"veritas-hq/themis/pkg/cli"
	"veritas-hq/themis/pkg/extract"
	"veritas-hq/themis/pkg/rules"
)

var extractFlags struct {
	file  string
	scope string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract compliance rules from policy text",
	Long: `Extract structured compliance rules from a policy document.

The extractor recognizes a fixed set of constrained-English policy
sentences and emits one rule per recognized sentence, as a JSON array
on stdout. Unrecognized sentences are ignored. Extraction is
deterministic: the same text always yields the same rules in the same
order.

Examples:
  # Extract from a file
  themis extract --file handbook.txt

  # Extract from stdin
  cat handbook.txt | themis extract

  # Restrict to one category
  themis extract --file handbook.txt --scope benefit`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFlags.file, "file", "f", "", "policy text file (defaults to stdin)")
	extractCmd.Flags().StringVar(&extractFlags.scope, "scope", "both", "rule categories to extract: leave, benefit, both")
}

func runExtract(cmd *cobra.Command, args []string) error {
	scope := extract.Scope(extractFlags.scope)
	if !scope.Valid() {
		return cli.NewUsageError("extract", fmt.Sprintf("invalid scope %q (want leave, benefit or both)", extractFlags.scope))
	}

	var text []byte
	var err error
	if extractFlags.file != "" {
		text, err = os.ReadFile(extractFlags.file)
	} else {
		text, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return cli.NewCommandError("extract", fmt.Errorf("reading policy text: %w", err))
	}

	rs := extract.Extract(string(text), scope)
	if rs == nil {
		// Encode an empty array, not null.
		rs = []rules.Rule{}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(rs)
}
