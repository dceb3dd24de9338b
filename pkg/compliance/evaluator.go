package compliance

import (
	"io"
	"log/slog"
	"time"

	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/rules"
	"veritas-hq/themis/pkg/telemetry/metrics"
)

// Evaluator applies rules to dataset rows. It holds no mutable state
// between runs, so one Evaluator may serve concurrent evaluations.
type Evaluator struct {
	logger  *slog.Logger
	metrics *metrics.ComplianceMetrics
}

// NewEvaluator creates an evaluator. A nil metrics argument disables
// instrumentation.
func NewEvaluator(m *metrics.ComplianceMetrics) *Evaluator {
	return &Evaluator{
		logger:  slog.Default().With("component", "compliance.evaluator"),
		metrics: m,
	}
}

// Evaluate applies the rules to every row and returns the violations in
// row-major order (then rule order within a row). Rules whose category
// does not match the dataset type are filtered out up front; when none
// remain, the rows are not inspected at all.
func (e *Evaluator) Evaluate(rs []rules.Rule, dt dataset.Type, rows []dataset.Row) []Violation {
	start := time.Now()
	defer func() { e.metrics.ObserveEvaluationDuration(time.Since(start)) }()

	applicable := filterByCategory(rs, dt)
	if len(applicable) == 0 {
		return nil
	}

	var violations []Violation
	for _, row := range rows {
		violations = append(violations, e.EvaluateRow(applicable, dt, row)...)
	}
	return violations
}

// EvaluateStream applies the rules to rows pulled one at a time from src.
// The scan stops at io.EOF; any other source error aborts the run and is
// returned alongside the violations produced so far.
func (e *Evaluator) EvaluateStream(rs []rules.Rule, dt dataset.Type, src dataset.RowSource) ([]Violation, error) {
	start := time.Now()
	defer func() { e.metrics.ObserveEvaluationDuration(time.Since(start)) }()

	applicable := filterByCategory(rs, dt)
	if len(applicable) == 0 {
		return nil, nil
	}

	var violations []Violation
	for {
		row, err := src.Next()
		if err == io.EOF {
			return violations, nil
		}
		if err != nil {
			return violations, err
		}
		violations = append(violations, e.EvaluateRow(applicable, dt, row)...)
	}
}

// EvaluateRow applies each rule to a single row, in rule order. The rules
// are assumed to be pre-filtered to the dataset type; a rule of the wrong
// category is still guarded per check and simply does not apply.
func (e *Evaluator) EvaluateRow(rs []rules.Rule, dt dataset.Type, row dataset.Row) []Violation {
	e.metrics.RecordRow()

	var violations []Violation
	for _, r := range rs {
		e.metrics.RecordEvaluation(string(r.CheckType))
		violated, evidence := e.applyRule(r, row, dt)
		if !violated {
			continue
		}
		e.metrics.RecordViolation(string(r.CheckType), string(r.Severity))
		violations = append(violations, Violation{
			RuleID:             r.RuleCode,
			EmployeeIdentifier: row.EmployeeIdentifier(),
			Evidence:           evidence,
			Risk:               r.Severity,
		})
	}
	return violations
}

// applyRule dispatches on the rule's check type. The default arm is the
// deliberate catch-all: an unknown check type, or a check guarded against
// the wrong dataset type, yields no violation and no error.
func (e *Evaluator) applyRule(r rules.Rule, row dataset.Row, dt dataset.Type) (bool, string) {
	switch r.CheckType {
	case rules.CheckLeaveAdvanceDays:
		if dt != dataset.TypeLeave {
			return false, ""
		}
		return e.checkLeaveAdvanceDays(r, row)

	case rules.CheckBenefitMaxAmount:
		if dt != dataset.TypeBenefit {
			return false, ""
		}
		return e.checkBenefitMaxAmount(r, row)

	case rules.CheckBenefitRequiresReceipt:
		if dt != dataset.TypeBenefit {
			return false, ""
		}
		return e.checkBenefitRequiresReceipt(r, row)

	case rules.CheckBenefitAllowedTypes:
		if dt != dataset.TypeBenefit {
			return false, ""
		}
		return e.checkBenefitAllowedTypes(r, row)

	default:
		// Not applicable, by contract not an error.
		return false, ""
	}
}

// filterByCategory keeps only rules applicable to the dataset type.
func filterByCategory(rs []rules.Rule, dt dataset.Type) []rules.Rule {
	var out []rules.Rule
	for _, r := range rs {
		if r.Category == rules.Category(dt) {
			out = append(out, r)
		}
	}
	return out
}

// stringParam reads a string param, surfacing default substitution in the
// debug log and metrics rather than hiding it.
func (e *Evaluator) stringParam(r rules.Rule, key, def string) string {
	v, usedDefault := r.Params.String(key, def)
	if usedDefault {
		e.recordDefault(r, key, def)
	}
	return v
}

func (e *Evaluator) intParam(r rules.Rule, key string, def int) int {
	v, usedDefault := r.Params.Int(key, def)
	if usedDefault {
		e.recordDefault(r, key, def)
	}
	return v
}

func (e *Evaluator) floatParam(r rules.Rule, key string, def float64) float64 {
	v, usedDefault := r.Params.Float(key, def)
	if usedDefault {
		e.recordDefault(r, key, def)
	}
	return v
}

func (e *Evaluator) recordDefault(r rules.Rule, key string, def interface{}) {
	e.metrics.RecordDefaultUsed(string(r.CheckType), key)
	e.logger.Debug("rule param missing, default substituted",
		"rule_code", r.RuleCode,
		"check_type", r.CheckType,
		"param", key,
		"default", def,
	)
}

func (e *Evaluator) recordSkip(r rules.Rule, row dataset.Row, reason string) {
	e.metrics.RecordSkip(string(r.CheckType))
	e.logger.Debug("row skipped for rule",
		"rule_code", r.RuleCode,
		"check_type", r.CheckType,
		"employee", row.EmployeeIdentifier(),
		"reason", reason,
	)
}
