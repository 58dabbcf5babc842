// Package guard breaks cycles in recursive traversals over schema graphs.
//
// A traversal that may revisit the same pair of nodes (structural equality,
// hashing, reader/writer resolution over self-referential records) keeps a
// Pairs value for the duration of one top-level call. Before descending into
// a pair it asks Run to execute the body; if that exact identity pair is
// already in progress further up the same call stack, Run returns the
// caller's neutral value instead of recursing.
//
// Key properties:
//   - Identity is pointer identity of the two operands, not structural.
//   - A Pairs value is owned by a single call stack and is never shared
//     between goroutines; concurrent traversals each allocate their own.
//   - Pairs are released on every exit path, including panics.
//   - Revisited pairs are answered optimistically, which trades a full
//     bisimulation check for guaranteed termination.
package guard
