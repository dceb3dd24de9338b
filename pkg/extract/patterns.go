package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"veritas-hq/themis/pkg/rules"
	"veritas-hq/themis/pkg/values"
)

// Sentence patterns. All matching runs against whitespace-normalized text.
var (
	leaveAdvanceRe = regexp.MustCompile(
		`(?i)\b(?:annual\s+)?leave\s+must\s+be\s+requested\s+at\s+least\s+(\d+)\s+days\s+before\s+(?:the\s+)?(?:leave\s+)?start\s+date\b`)

	benefitAboveRe = regexp.MustCompile(
		`(?i)\bclaims?\s+(?:above|over|greater\s+than)\s+([$€£]?\s*[0-9][0-9,]*\.?[0-9]*)\b`)

	benefitLimitRe = regexp.MustCompile(
		`(?i)\bclaim\s+amount\s+must\s+be\s*(?:<=|less\s+than\s+or\s+equal\s+to)\s+([$€£]?\s*[0-9][0-9,]*\.?[0-9]*)\b`)

	benefitReceiptRe = regexp.MustCompile(
		`(?i)\b(?:a\s+)?receipt\s+must\s+be\s+attached\s+for\s+all\s+claims\b|\ball\s+benefit\s+claims\s+require\s+a\s+receipt\b`)

	benefitTypesRe = regexp.MustCompile(
		`(?i)\ballowed\s+claim\s+types\s+(?:include|are)\s+([^.]+)\.`)

	listSplitRe   = regexp.MustCompile(`\s*,\s*|\s+and\s+|\s+or\s+`)
	leadingConjRe = regexp.MustCompile(`^(?:and|or)\s+`)
)

// buildLeaveAdvance recognizes the leave advance-notice sentence and
// extracts the minimum number of days.
func buildLeaveAdvance(text string) (rules.Rule, bool) {
	m := leaveAdvanceRe.FindStringSubmatch(text)
	if m == nil {
		return rules.Rule{}, false
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return rules.Rule{}, false
	}
	return rules.Rule{
		Description: fmt.Sprintf("Annual leave must be requested at least %d days before the start date.", days),
		Category:    rules.CategoryLeave,
		Severity:    rules.SeverityMedium,
		CheckType:   rules.CheckLeaveAdvanceDays,
		Params: rules.Params{
			"request_date_column": rules.DefaultRequestDateColumn,
			"start_date_column":   rules.DefaultStartDateColumn,
			"min_days_before":     days,
		},
	}, true
}

// buildBenefitMaxAmount recognizes either phrasing of the claim cap
// ("claims above $X" or "claim amount must be <= X"). A malformed amount
// falls back to zero rather than aborting extraction.
func buildBenefitMaxAmount(text string) (rules.Rule, bool) {
	m := benefitAboveRe.FindStringSubmatch(text)
	if m == nil {
		m = benefitLimitRe.FindStringSubmatch(text)
	}
	if m == nil {
		return rules.Rule{}, false
	}
	amount := values.AmountOrZero(m[1])
	return rules.Rule{
		Description: fmt.Sprintf("Claim amount must be <= %s.", values.FormatAmount(amount)),
		Category:    rules.CategoryBenefit,
		Severity:    rules.SeverityHigh,
		CheckType:   rules.CheckBenefitMaxAmount,
		Params: rules.Params{
			"amount_column": rules.DefaultAmountColumn,
			"max_amount":    amount,
		},
	}, true
}

// buildBenefitReceipt recognizes either phrasing of the receipt
// requirement.
func buildBenefitReceipt(text string) (rules.Rule, bool) {
	if !benefitReceiptRe.MatchString(text) {
		return rules.Rule{}, false
	}
	return rules.Rule{
		Description: "All benefit claims require a receipt.",
		Category:    rules.CategoryBenefit,
		Severity:    rules.SeverityMedium,
		CheckType:   rules.CheckBenefitRequiresReceipt,
		Params: rules.Params{
			"receipt_column": rules.DefaultReceiptColumn,
		},
	}, true
}

// buildBenefitAllowedTypes recognizes the allowed-types sentence and
// splits the list on commas and the conjunctions "and"/"or". Tokens are
// lower-cased, trimmed, stripped of a leading conjunction, and dropped if
// empty. No rule is produced when nothing survives cleanup.
func buildBenefitAllowedTypes(text string) (rules.Rule, bool) {
	m := benefitTypesRe.FindStringSubmatch(text)
	if m == nil {
		return rules.Rule{}, false
	}

	parts := listSplitRe.Split(strings.TrimSpace(m[1]), -1)
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToLower(strings.TrimSpace(p))
		if t == "" {
			continue
		}
		t = leadingConjRe.ReplaceAllString(t, "")
		if t != "" {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return rules.Rule{}, false
	}

	return rules.Rule{
		Description: fmt.Sprintf("Allowed claim types are %s.", strings.Join(types, ", ")),
		Category:    rules.CategoryBenefit,
		Severity:    rules.SeverityLow,
		CheckType:   rules.CheckBenefitAllowedTypes,
		Params: rules.Params{
			"type_column":   rules.DefaultTypeColumn,
			"allowed_types": types,
		},
	}, true
}
