// Package ai defines the contracts for the non-deterministic extraction
// and explanation paths. Those paths consume and produce the same rule and
// violation schemas as the deterministic engine but are external
// collaborators; this package carries only their interfaces plus the
// adapters that let the deterministic engine stand in for them.
package ai

import (
	"context"

	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/extract"
	"veritas-hq/themis/pkg/rules"
)

// RuleExtractor turns free-text policy into rules. Implementations may be
// deterministic (pattern matching) or model-backed; callers must treat the
// output of a model-backed extractor as non-reproducible.
type RuleExtractor interface {
	ExtractRules(ctx context.Context, policyText string, scope extract.Scope) ([]rules.Rule, error)
}

// Explainer produces a narrative explanation for a violation. The
// explanation is the only field of a violation ever written after
// evaluation.
type Explainer interface {
	Explain(ctx context.Context, v compliance.Violation, r rules.Rule) (string, error)
}

// PatternExtractor adapts the deterministic pattern extractor to the
// RuleExtractor contract. It never returns an error.
type PatternExtractor struct{}

// ExtractRules implements RuleExtractor.
func (PatternExtractor) ExtractRules(_ context.Context, policyText string, scope extract.Scope) ([]rules.Rule, error) {
	return extract.Extract(policyText, scope), nil
}

// NoopExplainer leaves violations unexplained. Used when no explanation
// backend is configured.
type NoopExplainer struct{}

// Explain implements Explainer.
func (NoopExplainer) Explain(context.Context, compliance.Violation, rules.Rule) (string, error) {
	return "", nil
}
