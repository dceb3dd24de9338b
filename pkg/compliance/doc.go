// Package compliance evaluates rules against dataset rows and produces
// violations with human-readable evidence.
//
// Evaluation is a pure function over an immutable rule snapshot and a row
// sequence. Rules are pre-filtered to the dataset's category; each
// surviving rule is applied to each row by dispatching on its check type.
// Violations come out row-major, then rule-major within a row, with no
// reordering or deduplication.
//
// Cell-level problems are tolerated: an unparseable date or amount skips
// that row/rule pair, and an unknown check type is "not applicable"
// rather than an error. A failure reading the row source itself is the
// one hard failure and propagates to the caller.
//
// # Basic Usage
//
//	ev := compliance.NewEvaluator(nil)
//	violations := ev.Evaluate(ruleSet, dataset.TypeBenefit, rows)
//	for _, v := range violations {
//	    fmt.Println(v.EmployeeIdentifier, v.Evidence)
//	}
package compliance
