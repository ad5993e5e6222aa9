// Package middleware holds the chi-compatible HTTP middleware chain:
// request-ID assignment (doubling as the log trace_id), structured
// request logging, panic recovery, and token-bucket rate limiting.
package middleware
