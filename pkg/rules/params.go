package rules

// Params holds check-specific rule parameters. Values arrive from JSON, so
// numbers are typically float64 and lists are []interface{}; the accessors
// normalize both.
//
// Every accessor takes a default and reports whether the default was used,
// so substitution is observable rather than silent.
type Params map[string]interface{}

// Default params values per check type.
const (
	DefaultRequestDateColumn = "request_date"
	DefaultStartDateColumn   = "leave_start_date"
	DefaultMinDaysBefore     = 3

	DefaultAmountColumn = "claim_amount"
	DefaultMaxAmount    = 1000.0

	DefaultReceiptColumn = "receipt_attached"

	DefaultTypeColumn = "claim_type"
)

// String returns the string value for key, or def if the key is absent or
// not a string. The second return is true when the default was used.
func (p Params) String(key, def string) (string, bool) {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s, false
		}
	}
	return def, true
}

// Int returns the integer value for key, accepting JSON numbers decoded as
// float64. The second return is true when the default was used.
func (p Params) Int(key string, def int) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, false
	case int64:
		return int(v), false
	case float64:
		return int(v), false
	}
	return def, true
}

// Float returns the numeric value for key. The second return is true when
// the default was used.
func (p Params) Float(key string, def float64) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, false
	case int:
		return float64(v), false
	case int64:
		return float64(v), false
	}
	return def, true
}

// StringList returns the list value for key, accepting both []string and
// the []interface{} form produced by JSON decoding. Non-string elements
// are dropped. An absent or malformed key yields an empty list.
func (p Params) StringList(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// requiredParams maps each check type to the params keys a well-formed
// rule supplies. Evaluation tolerates missing keys via defaults; lint
// flags them.
var requiredParams = map[CheckType][]string{
	CheckLeaveAdvanceDays:       {"request_date_column", "start_date_column", "min_days_before"},
	CheckBenefitMaxAmount:       {"amount_column", "max_amount"},
	CheckBenefitRequiresReceipt: {"receipt_column"},
	CheckBenefitAllowedTypes:    {"type_column", "allowed_types"},
}

// MissingParams returns the required keys for ct that p does not supply.
func (p Params) MissingParams(ct CheckType) []string {
	var missing []string
	for _, key := range requiredParams[ct] {
		if _, ok := p[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
