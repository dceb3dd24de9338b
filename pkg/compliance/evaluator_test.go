package compliance

import (
	"errors"
	"io"
	"testing"

	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/rules"
)

func maxAmountRule(max float64) rules.Rule {
	return rules.Rule{
		RuleCode:  "BEN_001",
		Category:  rules.CategoryBenefit,
		Severity:  rules.SeverityHigh,
		CheckType: rules.CheckBenefitMaxAmount,
		Params: rules.Params{
			"amount_column": "claim_amount",
			"max_amount":    max,
		},
	}
}

func receiptRule() rules.Rule {
	return rules.Rule{
		RuleCode:  "BEN_002",
		Category:  rules.CategoryBenefit,
		Severity:  rules.SeverityMedium,
		CheckType: rules.CheckBenefitRequiresReceipt,
		Params:    rules.Params{"receipt_column": "receipt_attached"},
	}
}

func advanceRule(minDays int) rules.Rule {
	return rules.Rule{
		RuleCode:  "LEAVE_001",
		Category:  rules.CategoryLeave,
		Severity:  rules.SeverityMedium,
		CheckType: rules.CheckLeaveAdvanceDays,
		Params: rules.Params{
			"request_date_column": "request_date",
			"start_date_column":   "leave_start_date",
			"min_days_before":     minDays,
		},
	}
}

// TestEvaluate_CategoryPreFilter tests that rules of the wrong category
// never run and that no applicable rules means no row inspection.
func TestEvaluate_CategoryPreFilter(t *testing.T) {
	ev := NewEvaluator(nil)

	rows := []dataset.Row{{"employee_id": "E001", "claim_amount": "garbage"}}
	got := ev.Evaluate([]rules.Rule{advanceRule(3)}, dataset.TypeBenefit, rows)
	if len(got) != 0 {
		t.Errorf("leave rule against benefit dataset produced %d violations", len(got))
	}

	got = ev.Evaluate(nil, dataset.TypeBenefit, rows)
	if len(got) != 0 {
		t.Errorf("empty rule set produced %d violations", len(got))
	}

	got = ev.Evaluate([]rules.Rule{maxAmountRule(100)}, dataset.TypeBenefit, nil)
	if len(got) != 0 {
		t.Errorf("empty row set produced %d violations", len(got))
	}
}

// TestEvaluate_UnknownCheckType tests that an unknown check type never
// raises and never appends a violation.
func TestEvaluate_UnknownCheckType(t *testing.T) {
	ev := NewEvaluator(nil)
	r := rules.Rule{
		RuleCode:  "BEN_009",
		Category:  rules.CategoryBenefit,
		Severity:  rules.SeverityLow,
		CheckType: "benefit_future_check",
		Params:    rules.Params{},
	}
	rows := []dataset.Row{{"employee_id": "E001", "claim_amount": "50"}}

	if got := ev.Evaluate([]rules.Rule{r}, dataset.TypeBenefit, rows); len(got) != 0 {
		t.Errorf("unknown check type produced %d violations", len(got))
	}
}

// TestEvaluate_Ordering tests row-major, then rule-major violation order.
func TestEvaluate_Ordering(t *testing.T) {
	ev := NewEvaluator(nil)
	rs := []rules.Rule{maxAmountRule(100), receiptRule()}
	rows := []dataset.Row{
		{"employee_id": "E001", "claim_amount": "500", "receipt_attached": "no"},
		{"employee_id": "E002", "claim_amount": "900", "receipt_attached": ""},
	}

	got := ev.Evaluate(rs, dataset.TypeBenefit, rows)
	if len(got) != 4 {
		t.Fatalf("expected 4 violations, got %d", len(got))
	}

	wantOrder := []struct{ employee, ruleID string }{
		{"E001", "BEN_001"},
		{"E001", "BEN_002"},
		{"E002", "BEN_001"},
		{"E002", "BEN_002"},
	}
	for i, want := range wantOrder {
		if got[i].EmployeeIdentifier != want.employee || got[i].RuleID != want.ruleID {
			t.Errorf("violation[%d] = (%s, %s), want (%s, %s)",
				i, got[i].EmployeeIdentifier, got[i].RuleID, want.employee, want.ruleID)
		}
	}
}

// TestEvaluate_RiskCopiedFromRule tests that violations carry the rule's
// severity as their risk.
func TestEvaluate_RiskCopiedFromRule(t *testing.T) {
	ev := NewEvaluator(nil)
	rows := []dataset.Row{{"employee_id": "E001", "claim_amount": "5000"}}

	got := ev.Evaluate([]rules.Rule{maxAmountRule(1000)}, dataset.TypeBenefit, rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(got))
	}
	if got[0].Risk != rules.SeverityHigh {
		t.Errorf("Risk = %q, want high", got[0].Risk)
	}
}

// TestEvaluate_MissingParamsUseDefaults tests the default fallback when a
// rule omits params entirely.
func TestEvaluate_MissingParamsUseDefaults(t *testing.T) {
	ev := NewEvaluator(nil)
	r := rules.Rule{
		RuleCode:  "BEN_001",
		Category:  rules.CategoryBenefit,
		Severity:  rules.SeverityHigh,
		CheckType: rules.CheckBenefitMaxAmount,
		Params:    rules.Params{},
	}
	// Default max_amount is 1000, default column claim_amount.
	rows := []dataset.Row{{"employee_id": "E001", "claim_amount": "1500"}}

	got := ev.Evaluate([]rules.Rule{r}, dataset.TypeBenefit, rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 violation via defaults, got %d", len(got))
	}
}

type fakeSource struct {
	rows []dataset.Row
	err  error
	pos  int
}

func (s *fakeSource) Next() (dataset.Row, error) {
	if s.pos < len(s.rows) {
		row := s.rows[s.pos]
		s.pos++
		return row, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, io.EOF
}

// TestEvaluateStream tests the streaming scan and its hard failure on a
// source error.
func TestEvaluateStream(t *testing.T) {
	ev := NewEvaluator(nil)
	rs := []rules.Rule{maxAmountRule(100)}

	src := &fakeSource{rows: []dataset.Row{
		{"employee_id": "E001", "claim_amount": "250"},
		{"employee_id": "E002", "claim_amount": "50"},
	}}
	got, err := ev.EvaluateStream(rs, dataset.TypeBenefit, src)
	if err != nil {
		t.Fatalf("EvaluateStream() failed: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeIdentifier != "E001" {
		t.Errorf("unexpected violations: %+v", got)
	}

	srcErr := errors.New("disk gone")
	src = &fakeSource{rows: []dataset.Row{{"employee_id": "E003", "claim_amount": "999"}}, err: srcErr}
	got, err = ev.EvaluateStream(rs, dataset.TypeBenefit, src)
	if !errors.Is(err, srcErr) {
		t.Errorf("EvaluateStream() error = %v, want %v", err, srcErr)
	}
	if len(got) != 1 {
		t.Errorf("violations before failure = %d, want 1", len(got))
	}

	// No applicable rules: source must not be read at all.
	src = &fakeSource{err: srcErr}
	if _, err := ev.EvaluateStream(nil, dataset.TypeBenefit, src); err != nil {
		t.Errorf("EvaluateStream() with no rules = %v, want nil", err)
	}
}
