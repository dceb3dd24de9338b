// Package rules defines the machine-checkable rule model shared by the
// extractor, the compliance evaluator, and the store.
//
// A Rule encodes a single policy constraint: a category (leave or benefit),
// a severity, a check type selecting the comparison to perform, and a
// params map naming the dataset columns and thresholds the check reads.
//
// # Rule Exchange Schema
//
// Rules serialize to a stable JSON shape used by the CLI and any external
// extraction path:
//
//	{
//	  "rule_code": "BEN_001",
//	  "description": "Claim amount must be <= 1000.",
//	  "category": "benefit",
//	  "severity": "high",
//	  "check_type": "benefit_max_amount",
//	  "params": {"amount_column": "claim_amount", "max_amount": 1000}
//	}
//
// # Params and Defaults
//
// Each check type documents required params keys. Missing keys fall back
// to hardcoded defaults rather than rejecting the rule; the accessors on
// Params report when a default was substituted so the evaluator can
// surface the substitution instead of hiding it.
package rules
