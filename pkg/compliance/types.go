package compliance

import "veritas-hq/themis/pkg/rules"

// Violation records one rule broken by one row, with the concrete values
// that broke it. Violations are immutable once produced; only the optional
// Explanation field may be filled in afterwards by an external explainer.
type Violation struct {
	// PolicyID identifies the policy the rule belongs to. Empty in
	// store-less evaluation (the check CLI path).
	PolicyID string `json:"policy_id"`

	// RuleID identifies the violated rule. For unpersisted rules this is
	// the rule code.
	RuleID string `json:"rule_id"`

	// DatasetID identifies the dataset the row came from.
	DatasetID string `json:"dataset_id"`

	// EmployeeIdentifier is the row's resolved employee identifier.
	EmployeeIdentifier string `json:"employee_identifier"`

	// Evidence explains the violation in terms of the compared values.
	Evidence string `json:"evidence"`

	// Risk is the severity copied from the violated rule.
	Risk rules.Severity `json:"risk"`

	// Explanation is the optional narrative added by an external
	// explanation path. Never set by the evaluator.
	Explanation string `json:"explanation,omitempty"`
}
