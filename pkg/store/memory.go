package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/rules"
)

// MemoryStore implements Store using in-memory maps. Intended for tests
// and throwaway runs; nothing survives the process.
type MemoryStore struct {
	mu         sync.RWMutex
	policies   map[string]*Policy
	ruleLists  map[string][]*StoredRule // keyed by policy ID
	datasets   map[string]*dataset.Dataset
	violations []*StoredViolation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		policies:  make(map[string]*Policy),
		ruleLists: make(map[string][]*StoredRule),
		datasets:  make(map[string]*dataset.Dataset),
	}
}

// SavePolicy persists a policy, assigning an ID when empty.
func (s *MemoryStore) SavePolicy(ctx context.Context, p *Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	s.policies[p.ID] = &cp
	return nil
}

// GetPolicy retrieves a policy by ID.
func (s *MemoryStore) GetPolicy(ctx context.Context, id string) (*Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[id]
	if !ok {
		return nil, fmt.Errorf("policy %q: %w", id, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// ListPolicies returns all policies.
func (s *MemoryStore) ListPolicies(ctx context.Context) ([]*Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Policy, 0, len(s.policies))
	for _, p := range s.policies {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// ReplaceRules replaces the policy's rule set with rs.
func (s *MemoryStore) ReplaceRules(ctx context.Context, policyID string, rs []rules.Rule) ([]*StoredRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.policies[policyID]; !ok {
		return nil, fmt.Errorf("policy %q: %w", policyID, ErrNotFound)
	}

	stored := make([]*StoredRule, len(rs))
	for i, r := range rs {
		stored[i] = &StoredRule{
			ID:       uuid.NewString(),
			PolicyID: policyID,
			Rule:     r,
		}
	}
	s.ruleLists[policyID] = stored

	out := make([]*StoredRule, len(stored))
	for i, r := range stored {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

// ListRules returns the policy's rules, optionally filtered by category.
func (s *MemoryStore) ListRules(ctx context.Context, policyID string, category rules.Category) ([]*StoredRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*StoredRule
	for _, r := range s.ruleLists[policyID] {
		if category != "" && r.Category != category {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

// SaveDataset persists dataset metadata, assigning an ID when empty.
func (s *MemoryStore) SaveDataset(ctx context.Context, d *dataset.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	cp := *d
	s.datasets[d.ID] = &cp
	return nil
}

// GetDataset retrieves dataset metadata by ID.
func (s *MemoryStore) GetDataset(ctx context.Context, id string) (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("dataset %q: %w", id, ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

// ListDatasets returns all datasets.
func (s *MemoryStore) ListDatasets(ctx context.Context) ([]*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*dataset.Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

// ReplaceViolations supersedes the pair's violations with vs.
func (s *MemoryStore) ReplaceViolations(ctx context.Context, policyID, datasetID string, vs []compliance.Violation) ([]*StoredViolation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.violations[:0]
	for _, v := range s.violations {
		if v.PolicyID == policyID && v.DatasetID == datasetID {
			continue
		}
		kept = append(kept, v)
	}
	s.violations = kept

	out := make([]*StoredViolation, len(vs))
	for i, v := range vs {
		v.PolicyID = policyID
		v.DatasetID = datasetID
		sv := &StoredViolation{ID: uuid.NewString(), Violation: v}
		s.violations = append(s.violations, sv)
		cp := *sv
		out[i] = &cp
	}
	return out, nil
}

// ListViolations returns violations filtered by policy and dataset.
func (s *MemoryStore) ListViolations(ctx context.Context, policyID, datasetID string) ([]*StoredViolation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*StoredViolation
	for _, v := range s.violations {
		if policyID != "" && v.PolicyID != policyID {
			continue
		}
		if datasetID != "" && v.DatasetID != datasetID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
