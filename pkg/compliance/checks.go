package compliance

import (
	"fmt"
	"strings"

	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/rules"
	"veritas-hq/themis/pkg/values"
)

// checkLeaveAdvanceDays verifies the request date precedes the leave start
// date by at least min_days_before whole days. A missing or unparseable
// date on either side skips the pair.
func (e *Evaluator) checkLeaveAdvanceDays(r rules.Rule, row dataset.Row) (bool, string) {
	requestCol := e.stringParam(r, "request_date_column", rules.DefaultRequestDateColumn)
	startCol := e.stringParam(r, "start_date_column", rules.DefaultStartDateColumn)
	minDays := e.intParam(r, "min_days_before", rules.DefaultMinDaysBefore)

	requestVal, _ := row.Get(requestCol)
	startVal, _ := row.Get(startCol)

	requestDate, okReq := values.ParseDate(requestVal)
	startDate, okStart := values.ParseDate(startVal)
	if !okReq || !okStart {
		e.recordSkip(r, row, "missing or invalid dates")
		return false, ""
	}

	diff := values.DaysBetween(requestDate, startDate)
	if diff < minDays {
		return true, fmt.Sprintf(
			"Leave requested %d days before start; policy requires at least %d days.",
			diff, minDays)
	}
	return false, ""
}

// checkBenefitMaxAmount verifies the claim amount does not exceed the cap.
// The boundary never violates: amount equal to max_amount passes. An
// unparseable amount skips the pair.
func (e *Evaluator) checkBenefitMaxAmount(r rules.Rule, row dataset.Row) (bool, string) {
	amountCol := e.stringParam(r, "amount_column", rules.DefaultAmountColumn)
	maxAmount := e.floatParam(r, "max_amount", rules.DefaultMaxAmount)

	raw, _ := row.Get(amountCol)
	amount, ok := values.ParseAmount(raw)
	if !ok {
		e.recordSkip(r, row, "invalid claim amount")
		return false, ""
	}

	if amount > maxAmount {
		return true, fmt.Sprintf("Claim amount %s exceeds max allowed %s.",
			values.FormatAmount(amount), values.FormatAmount(maxAmount))
	}
	return false, ""
}

// checkBenefitRequiresReceipt verifies the receipt flag is affirmative.
// Anything outside the truthy set, including an empty cell, violates.
func (e *Evaluator) checkBenefitRequiresReceipt(r rules.Rule, row dataset.Row) (bool, string) {
	receiptCol := e.stringParam(r, "receipt_column", rules.DefaultReceiptColumn)

	raw, _ := row.Get(receiptCol)
	if !values.IsTruthy(raw) {
		return true, fmt.Sprintf("Receipt is required but '%s' is '%s'.",
			receiptCol, values.Normalize(raw))
	}
	return false, ""
}

// checkBenefitAllowedTypes verifies the claim type is in the allowed set,
// compared case-insensitively. An empty allowed list matches everything.
func (e *Evaluator) checkBenefitAllowedTypes(r rules.Rule, row dataset.Row) (bool, string) {
	typeCol := e.stringParam(r, "type_column", rules.DefaultTypeColumn)
	allowed := r.Params.StringList("allowed_types")

	if len(allowed) == 0 {
		return false, ""
	}

	normalized := make([]string, len(allowed))
	for i, a := range allowed {
		normalized[i] = values.Normalize(a)
	}

	raw, _ := row.Get(typeCol)
	v := values.Normalize(raw)
	for _, a := range normalized {
		if v == a {
			return false, ""
		}
	}
	return true, fmt.Sprintf("Claim type '%s' is not in allowed types: %s",
		v, strings.Join(normalized, ", "))
}
