package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"veritas-hq/themis/pkg/ai"
	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/extract"
	"veritas-hq/themis/pkg/rules"
	"veritas-hq/themis/pkg/store"
)

// Runner executes store-backed compliance runs.
type Runner struct {
	store     store.Store
	evaluator *compliance.Evaluator
	extractor ai.RuleExtractor
	explainer ai.Explainer
	logger    *slog.Logger
}

// New creates a Runner. A nil extractor defaults to the deterministic
// pattern extractor; a nil explainer leaves violations unexplained.
func New(st store.Store, ev *compliance.Evaluator, extractor ai.RuleExtractor, explainer ai.Explainer) *Runner {
	if extractor == nil {
		extractor = ai.PatternExtractor{}
	}
	if explainer == nil {
		explainer = ai.NoopExplainer{}
	}
	return &Runner{
		store:     st,
		evaluator: ev,
		extractor: extractor,
		explainer: explainer,
		logger:    slog.Default().With("component", "runner"),
	}
}

// Run evaluates a policy's rules against a dataset and supersedes the
// pair's stored violations with the result. When the policy has no rules
// applicable to the dataset's type, the dataset file is not opened and
// the stored violations are left untouched.
//
// A failure opening or reading the dataset file is fatal to the run and
// returned to the caller.
func (r *Runner) Run(ctx context.Context, policyID, datasetID string) ([]*store.StoredViolation, error) {
	ds, err := r.store.GetDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	stored, err := r.store.ListRules(ctx, policyID, rules.Category(ds.Type))
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		r.logger.Info("no applicable rules, skipping run",
			"policy_id", policyID, "dataset_id", datasetID, "dataset_type", ds.Type)
		return nil, nil
	}

	ruleSet := make([]rules.Rule, len(stored))
	byCode := make(map[string]*store.StoredRule, len(stored))
	for i, sr := range stored {
		ruleSet[i] = sr.Rule
		byCode[sr.RuleCode] = sr
	}

	src, err := dataset.Open(ds.FilePath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	violations, err := r.evaluator.EvaluateStream(ruleSet, ds.Type, src)
	if err != nil {
		return nil, fmt.Errorf("evaluating dataset %s: %w", datasetID, err)
	}

	// Rewrite rule codes to store IDs and attach explanations.
	for i := range violations {
		sr := byCode[violations[i].RuleID]
		if sr == nil {
			continue
		}
		violations[i].RuleID = sr.ID
		explanation, err := r.explainer.Explain(ctx, violations[i], sr.Rule)
		if err != nil {
			r.logger.Warn("explanation failed, continuing without",
				"rule_id", sr.ID, "error", err)
			continue
		}
		violations[i].Explanation = explanation
	}

	out, err := r.store.ReplaceViolations(ctx, policyID, datasetID, violations)
	if err != nil {
		return nil, err
	}

	r.logger.Info("compliance run complete",
		"policy_id", policyID,
		"dataset_id", datasetID,
		"rules", len(ruleSet),
		"violations", len(out),
	)
	return out, nil
}

// SyncPolicyFile extracts rules from a policy text file and persists
// them, creating the policy on first sight. The policy is identified by
// the file's base name, so repeated syncs of the same file update in
// place.
func (r *Runner) SyncPolicyFile(ctx context.Context, path string) (*store.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file %s: %w", path, err)
	}
	text := string(data)
	name := filepath.Base(path)

	policy, err := r.findPolicyByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		policy = &store.Policy{Name: name, Scope: extract.ScopeBoth}
	}
	policy.RawText = text

	if err := r.store.SavePolicy(ctx, policy); err != nil {
		return nil, err
	}

	extracted, err := r.extractor.ExtractRules(ctx, text, policy.Scope)
	if err != nil {
		return nil, fmt.Errorf("extracting rules from %s: %w", path, err)
	}
	if _, err := r.store.ReplaceRules(ctx, policy.ID, extracted); err != nil {
		return nil, err
	}

	r.logger.Info("policy synced", "policy_id", policy.ID, "name", name, "rules", len(extracted))
	return policy, nil
}

func (r *Runner) findPolicyByName(ctx context.Context, name string) (*store.Policy, error) {
	all, err := r.store.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}
