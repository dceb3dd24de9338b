package store

import (
	"context"

	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/extract"
	"veritas-hq/themis/pkg/rules"
)

// Policy is a stored policy document: the raw text rules were extracted
// from, plus the scope the extraction ran under.
type Policy struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	RawText string        `json:"raw_text"`
	Scope   extract.Scope `json:"scope"`
}

// StoredRule is a rule persisted under a policy, addressable by store ID.
type StoredRule struct {
	ID       string `json:"id"`
	PolicyID string `json:"policy_id"`
	rules.Rule
}

// StoredViolation is a violation persisted with a store ID.
type StoredViolation struct {
	ID string `json:"id"`
	compliance.Violation
}

// Store is the persistence contract for the compliance system.
// Implementations must be safe for concurrent use.
type Store interface {
	// SavePolicy persists a policy, assigning an ID when empty.
	SavePolicy(ctx context.Context, p *Policy) error

	// GetPolicy retrieves a policy by ID.
	GetPolicy(ctx context.Context, id string) (*Policy, error)

	// ListPolicies returns all policies.
	ListPolicies(ctx context.Context) ([]*Policy, error)

	// ReplaceRules replaces the policy's rule set with rs, assigning
	// store IDs. Replace semantics keep rule codes unambiguous per
	// policy even though codes repeat across extraction passes.
	ReplaceRules(ctx context.Context, policyID string, rs []rules.Rule) ([]*StoredRule, error)

	// ListRules returns the policy's rules, optionally filtered by
	// category (empty category means all), in insertion order.
	ListRules(ctx context.Context, policyID string, category rules.Category) ([]*StoredRule, error)

	// SaveDataset persists dataset metadata, assigning an ID when empty.
	SaveDataset(ctx context.Context, d *dataset.Dataset) error

	// GetDataset retrieves dataset metadata by ID.
	GetDataset(ctx context.Context, id string) (*dataset.Dataset, error)

	// ListDatasets returns all datasets.
	ListDatasets(ctx context.Context) ([]*dataset.Dataset, error)

	// ReplaceViolations supersedes all violations for the (policy,
	// dataset) pair with vs, assigning store IDs.
	ReplaceViolations(ctx context.Context, policyID, datasetID string, vs []compliance.Violation) ([]*StoredViolation, error)

	// ListViolations returns violations filtered by policy and dataset;
	// an empty filter value matches all. Insertion order is preserved.
	ListViolations(ctx context.Context, policyID, datasetID string) ([]*StoredViolation, error)

	// Close releases any resources held by the backend.
	Close() error
}
