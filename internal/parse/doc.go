// Package parse converts fetched payloads into tables or structured
// intermediate forms.
//
// Structural formats (CSV, JSON, XLSX) parse directly into a single
// table with string cells the Normalizer later types. HTML documents
// become a traversable node tree with a document-order FindAll query, and
// their <table> elements convert one table per element, optionally
// filtered by a rendered-text substring. PDF payloads yield page text
// only; no table recovery is attempted.
//
// The dispatching entry point is Tables, which picks the parser from the
// declared or inferred content kind and rejects unknown kinds with an
// unsupported-format error.
package parse
