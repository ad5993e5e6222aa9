// Package tabular implements the in-memory table model shared by every
// pipeline stage: ordered named columns of tagged, nullable values, with
// value-semantics transformations.
//
// A Table preserves row order through every operation unless the operation
// explicitly sorts or samples. Transformations (Filter, Select, Sort,
// GroupBy, WithinGroup, Sample, DeriveColumn) return new Tables and never
// mutate their input, so intermediate results can be kept and compared.
//
// Normalize applies column type coercions (string to date or number) and
// renames. Its failure policy is configurable: FailFast aborts on the
// first unconvertible cell, NullOnError replaces it with the missing-value
// marker.
//
// Query is the declarative counterpart used at the CLI and HTTP
// boundaries; Apply compiles and runs it as filter → select → group →
// sort → sample.
package tabular
