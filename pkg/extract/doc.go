// Package extract turns constrained-English policy sentences into
// structured rules. It recognizes a fixed set of sentence patterns, each
// implemented as an independent pattern-to-rule builder, composed in a
// fixed order so extraction is deterministic regardless of sentence order
// in the input.
//
// Extraction never fails: text containing no recognizable sentence yields
// an empty rule sequence. Rule codes (LEAVE_001, BEN_001, ...) are
// assigned sequentially per category within one call only; persistence is
// responsible for any global uniqueness.
//
// # Recognized Patterns
//
//   - "Annual leave must be requested at least N days before the leave
//     start date."
//   - "Claims above $X ..." / "Claim amount must be <= X."
//   - "A receipt must be attached for all claims." / "All benefit claims
//     require a receipt."
//   - "Allowed claim types include A, B, and C."
//
// Matching is case-insensitive and whitespace-insensitive.
package extract
