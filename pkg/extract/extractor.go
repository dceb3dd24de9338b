package extract

import (
	"fmt"
	"regexp"
	"strings"

	"veritas-hq/themis/pkg/rules"
)

// Scope restricts extraction to one rule category, or allows both.
type Scope string

const (
	// ScopeLeave extracts only leave rules.
	ScopeLeave Scope = "leave"

	// ScopeBenefit extracts only benefit rules.
	ScopeBenefit Scope = "benefit"

	// ScopeBoth extracts rules of both categories.
	ScopeBoth Scope = "both"
)

// Valid reports whether the scope is one of the known values.
func (s Scope) Valid() bool {
	return s == ScopeLeave || s == ScopeBenefit || s == ScopeBoth
}

// Includes reports whether the scope admits rules of the given category.
func (s Scope) Includes(c rules.Category) bool {
	switch s {
	case ScopeBoth:
		return true
	case ScopeLeave:
		return c == rules.CategoryLeave
	case ScopeBenefit:
		return c == rules.CategoryBenefit
	default:
		return false
	}
}

// builder is a single pattern-to-rule function. It inspects the normalized
// policy text and either produces a rule (without a code; Extract assigns
// codes) or reports no match.
type builder struct {
	category rules.Category
	build    func(text string) (rules.Rule, bool)
}

// builders is the fixed pattern order. Reordering changes assigned rule
// codes, so additions go at the end.
var builders = []builder{
	{rules.CategoryLeave, buildLeaveAdvance},
	{rules.CategoryBenefit, buildBenefitMaxAmount},
	{rules.CategoryBenefit, buildBenefitReceipt},
	{rules.CategoryBenefit, buildBenefitAllowedTypes},
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extract parses policy text into an ordered rule sequence. It is pure,
// deterministic and idempotent: identical input always yields identical
// rules in identical order. Text with no recognizable sentence yields an
// empty (nil) sequence, never an error.
func Extract(policyText string, scope Scope) []rules.Rule {
	normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(policyText), " ")

	var out []rules.Rule
	counts := make(map[rules.Category]int, 2)

	for _, b := range builders {
		if !scope.Includes(b.category) {
			continue
		}
		r, ok := b.build(normalized)
		if !ok {
			continue
		}
		counts[b.category]++
		r.RuleCode = ruleCode(b.category, counts[b.category])
		out = append(out, r)
	}
	return out
}

// ruleCode renders the sequential per-category code (LEAVE_001, BEN_002).
func ruleCode(c rules.Category, n int) string {
	if c == rules.CategoryLeave {
		return fmt.Sprintf("LEAVE_%03d", n)
	}
	return fmt.Sprintf("BEN_%03d", n)
}
