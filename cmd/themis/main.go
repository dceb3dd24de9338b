// Themis is an HR policy compliance engine.
//
// It extracts structured compliance rules from constrained-English
// policy text and evaluates them against tabular employee records:
//   - Deterministic rule extraction from policy sentences
//   - Rule evaluation over leave and benefit CSV datasets
//   - Violation export as JSON or CSV
//   - Store-backed runs with scheduling and policy file watching
//
// Usage:
//
//	# Extract rules from a policy document
//	themis extract --file handbook.txt
//
//	# Check a dataset against a rule file
//	themis check --rules rules.json --dataset claims.csv --type benefit
//
//	# Validate a rule file
//	themis lint --file rules.json
//
//	# Start the store-backed service mode
//	themis run --config /path/to/config.yaml
//
//	# Show version information
//	themis version
package main

func main() {
	Execute()
}
