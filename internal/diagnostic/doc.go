// Package diagnostic provides structured findings produced while explaining
// why a reader schema can or cannot decode data written with a writer schema.
//
// Key capabilities:
//   - Error diagnostics for each incompatibility, tagged with a stable code
//   - Warnings for resolutions that succeed only through a fallback
//     (alias match, reader default, numeric promotion)
//   - Schema-pair and field-path context on every entry
//   - "Did you mean" suggestions for unmatched reader fields
package diagnostic
