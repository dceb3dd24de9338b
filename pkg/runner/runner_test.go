package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/extract"
	"veritas-hq/themis/pkg/rules"
	"veritas-hq/themis/pkg/store"
)

func setup(t *testing.T) (*Runner, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	return New(st, compliance.NewEvaluator(nil), nil, nil), st
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// TestRunner_Run tests a full store-backed run: extract, persist, stream
// the dataset, supersede violations.
func TestRunner_Run(t *testing.T) {
	ctx := context.Background()
	r, st := setup(t)
	dir := t.TempDir()

	policy := &store.Policy{Name: "handbook", RawText: "", Scope: extract.ScopeBoth}
	if err := st.SavePolicy(ctx, policy); err != nil {
		t.Fatalf("SavePolicy() failed: %v", err)
	}
	extracted := extract.Extract(
		"Claims above $1,000 are not allowed. All benefit claims require a receipt.",
		extract.ScopeBoth)
	if _, err := st.ReplaceRules(ctx, policy.ID, extracted); err != nil {
		t.Fatalf("ReplaceRules() failed: %v", err)
	}

	csvPath := writeFile(t, dir, "claims.csv",
		"employee_id,claim_amount,receipt_attached\n"+
			"E001,1500,yes\n"+
			"E002,200,no\n"+
			"E003,500,yes\n")
	ds := &dataset.Dataset{Name: "claims", Type: dataset.TypeBenefit, FilePath: csvPath}
	if err := st.SaveDataset(ctx, ds); err != nil {
		t.Fatalf("SaveDataset() failed: %v", err)
	}

	got, err := r.Run(ctx, policy.ID, ds.ID)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Run() produced %d violations, want 2", len(got))
	}
	if got[0].EmployeeIdentifier != "E001" || got[0].Risk != rules.SeverityHigh {
		t.Errorf("violation[0] = %+v", got[0])
	}
	if got[1].EmployeeIdentifier != "E002" {
		t.Errorf("violation[1] = %+v", got[1])
	}

	// Violations reference stored rule IDs, not extraction codes.
	stored, _ := st.ListRules(ctx, policy.ID, "")
	ids := make(map[string]bool)
	for _, sr := range stored {
		ids[sr.ID] = true
	}
	for _, v := range got {
		if !ids[v.RuleID] {
			t.Errorf("violation rule_id %q is not a stored rule ID", v.RuleID)
		}
	}

	// Re-running supersedes rather than appends.
	again, err := r.Run(ctx, policy.ID, ds.ID)
	if err != nil {
		t.Fatalf("second Run() failed: %v", err)
	}
	listed, _ := st.ListViolations(ctx, policy.ID, ds.ID)
	if len(listed) != len(again) {
		t.Errorf("stored %d violations after re-run, want %d", len(listed), len(again))
	}
}

// TestRunner_Run_NoApplicableRules tests that a category mismatch skips
// the dataset file entirely.
func TestRunner_Run_NoApplicableRules(t *testing.T) {
	ctx := context.Background()
	r, st := setup(t)

	policy := &store.Policy{Name: "leave-only", Scope: extract.ScopeBoth}
	if err := st.SavePolicy(ctx, policy); err != nil {
		t.Fatalf("SavePolicy() failed: %v", err)
	}
	leaveRules := extract.Extract(
		"Annual leave must be requested at least 3 days before the start date.",
		extract.ScopeBoth)
	if _, err := st.ReplaceRules(ctx, policy.ID, leaveRules); err != nil {
		t.Fatalf("ReplaceRules() failed: %v", err)
	}

	// File path deliberately bogus: it must never be opened.
	ds := &dataset.Dataset{Name: "claims", Type: dataset.TypeBenefit, FilePath: "/nonexistent/claims.csv"}
	if err := st.SaveDataset(ctx, ds); err != nil {
		t.Fatalf("SaveDataset() failed: %v", err)
	}

	got, err := r.Run(ctx, policy.ID, ds.ID)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Run() produced %d violations, want 0", len(got))
	}
}

// TestRunner_Run_MissingFileFatal tests that an unreadable dataset file
// fails the run.
func TestRunner_Run_MissingFileFatal(t *testing.T) {
	ctx := context.Background()
	r, st := setup(t)

	policy := &store.Policy{Name: "p", Scope: extract.ScopeBoth}
	if err := st.SavePolicy(ctx, policy); err != nil {
		t.Fatalf("SavePolicy() failed: %v", err)
	}
	if _, err := st.ReplaceRules(ctx, policy.ID, extract.Extract(
		"All benefit claims require a receipt.", extract.ScopeBoth)); err != nil {
		t.Fatalf("ReplaceRules() failed: %v", err)
	}
	ds := &dataset.Dataset{Name: "gone", Type: dataset.TypeBenefit, FilePath: "/nonexistent/claims.csv"}
	if err := st.SaveDataset(ctx, ds); err != nil {
		t.Fatalf("SaveDataset() failed: %v", err)
	}

	if _, err := r.Run(ctx, policy.ID, ds.ID); err == nil {
		t.Error("Run() with missing dataset file = nil error, want failure")
	}
}

// TestRunner_SyncPolicyFile tests create-then-update sync of a policy
// text file.
func TestRunner_SyncPolicyFile(t *testing.T) {
	ctx := context.Background()
	r, st := setup(t)
	dir := t.TempDir()

	path := writeFile(t, dir, "handbook.txt",
		"Annual leave must be requested at least 3 days before the start date.")

	policy, err := r.SyncPolicyFile(ctx, path)
	if err != nil {
		t.Fatalf("SyncPolicyFile() failed: %v", err)
	}
	rs, _ := st.ListRules(ctx, policy.ID, "")
	if len(rs) != 1 || rs[0].CheckType != rules.CheckLeaveAdvanceDays {
		t.Fatalf("after first sync: %+v", rs)
	}

	// Update the file: same policy, replaced rules.
	writeFile(t, dir, "handbook.txt",
		"Annual leave must be requested at least 3 days before the start date. "+
			"All benefit claims require a receipt.")
	updated, err := r.SyncPolicyFile(ctx, path)
	if err != nil {
		t.Fatalf("second SyncPolicyFile() failed: %v", err)
	}
	if updated.ID != policy.ID {
		t.Errorf("re-sync created new policy %q, want %q", updated.ID, policy.ID)
	}
	rs, _ = st.ListRules(ctx, policy.ID, "")
	if len(rs) != 2 {
		t.Errorf("after second sync: %d rules, want 2", len(rs))
	}
}
