package rules

// Category classifies which kind of dataset a rule applies to.
type Category string

const (
	// CategoryLeave applies to leave request datasets.
	CategoryLeave Category = "leave"

	// CategoryBenefit applies to benefit claim datasets.
	CategoryBenefit Category = "benefit"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	return c == CategoryLeave || c == CategoryBenefit
}

// Severity is the qualitative risk rating attached to a rule. It is copied
// onto every violation the rule produces.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// CheckType selects the automated comparison a rule encodes. It determines
// which params keys the rule reads and which evaluator branch runs.
type CheckType string

const (
	// CheckLeaveAdvanceDays verifies leave was requested at least N days
	// before the leave start date.
	CheckLeaveAdvanceDays CheckType = "leave_advance_days"

	// CheckBenefitMaxAmount verifies a claim amount does not exceed a cap.
	CheckBenefitMaxAmount CheckType = "benefit_max_amount"

	// CheckBenefitRequiresReceipt verifies the receipt flag is affirmative.
	CheckBenefitRequiresReceipt CheckType = "benefit_requires_receipt"

	// CheckBenefitAllowedTypes verifies the claim type is in an allowed set.
	CheckBenefitAllowedTypes CheckType = "benefit_allowed_types"
)

// Valid reports whether the check type is one of the known values.
func (ct CheckType) Valid() bool {
	switch ct {
	case CheckLeaveAdvanceDays, CheckBenefitMaxAmount,
		CheckBenefitRequiresReceipt, CheckBenefitAllowedTypes:
		return true
	default:
		return false
	}
}

// Category returns the dataset category the check type belongs to.
func (ct CheckType) Category() Category {
	if ct == CheckLeaveAdvanceDays {
		return CategoryLeave
	}
	return CategoryBenefit
}

// Rule is a single machine-checkable policy constraint.
type Rule struct {
	// RuleCode is the short identifier assigned during extraction
	// (LEAVE_001, BEN_002, ...). Codes are sequential within one
	// extraction pass only; global uniqueness is a store concern.
	RuleCode string `json:"rule_code"`

	// Description is the human-readable restatement of the constraint.
	Description string `json:"description"`

	// Category is the dataset category the rule applies to.
	Category Category `json:"category"`

	// Severity is copied onto violations as their risk rating.
	Severity Severity `json:"severity"`

	// CheckType selects the comparison to perform.
	CheckType CheckType `json:"check_type"`

	// Params holds the check-specific column names and thresholds.
	Params Params `json:"params"`
}
