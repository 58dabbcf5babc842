// Package match provides identifier normalization, edit distance, and
// ranking of similarly named candidates.
//
// It backs two features of the schema package:
//   - "did you mean" suggestions on unknown type references and on reader
//     fields that have no counterpart in the writer schema
//   - segment normalization for field-path projection
//
// Key functions:
//   - NormalizeIdent: case-folds and strips separators for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankNames: ranks candidate names by normalized similarity
package match
