package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// ruleCodePattern matches the extractor's numbering scheme.
var ruleCodePattern = regexp.MustCompile(`^(LEAVE|BEN)_\d{3}$`)

// ValidationError describes why a rule failed validation.
type ValidationError struct {
	RuleCode string
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule %q invalid: %s", e.RuleCode, strings.Join(e.Problems, "; "))
}

// Validate checks a rule for structural problems: unknown enum values, a
// malformed rule code, a check type that does not match the category, and
// missing required params. A nil return means the rule is well-formed.
//
// The evaluator does not require validation; it falls back to defaults and
// treats unknown check types as not applicable. Validate exists for the
// lint path, where silent leniency is the wrong default.
func Validate(r Rule) error {
	var problems []string

	if r.RuleCode == "" {
		problems = append(problems, "rule_code is empty")
	} else if !ruleCodePattern.MatchString(r.RuleCode) {
		problems = append(problems, fmt.Sprintf("rule_code %q does not match LEAVE_### or BEN_###", r.RuleCode))
	}
	if !r.Category.Valid() {
		problems = append(problems, fmt.Sprintf("unknown category %q", r.Category))
	}
	if !r.Severity.Valid() {
		problems = append(problems, fmt.Sprintf("unknown severity %q", r.Severity))
	}
	if !r.CheckType.Valid() {
		problems = append(problems, fmt.Sprintf("unknown check_type %q", r.CheckType))
	} else {
		if r.Category.Valid() && r.CheckType.Category() != r.Category {
			problems = append(problems, fmt.Sprintf("check_type %q does not belong to category %q", r.CheckType, r.Category))
		}
		if missing := r.Params.MissingParams(r.CheckType); len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("missing params: %s", strings.Join(missing, ", ")))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{RuleCode: r.RuleCode, Problems: problems}
	}
	return nil
}

// ValidateAll validates a rule sequence and additionally flags duplicate
// rule codes within it. It returns one error per offending rule.
func ValidateAll(rs []Rule) []error {
	var errs []error
	seen := make(map[string]bool, len(rs))
	for _, r := range rs {
		if err := Validate(r); err != nil {
			errs = append(errs, err)
		}
		if r.RuleCode != "" && seen[r.RuleCode] {
			errs = append(errs, &ValidationError{
				RuleCode: r.RuleCode,
				Problems: []string{"duplicate rule_code"},
			})
		}
		seen[r.RuleCode] = true
	}
	return errs
}
