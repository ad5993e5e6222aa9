// Package errors defines the structured error type shared by every pipeline
// stage, plus the mapping from error kinds to HTTP status codes used by the
// transport layer.
//
// Every failure is classified by a Kind (network, not_found, malformed_data,
// unsupported_format, type_coercion, unknown_column, invalid_argument, io)
// and carries the failing stage, the offending input descriptor (URL, path,
// column name, row index), and an expected-versus-actual message.
//
// Example usage:
//
//	if err := doFetch(url); err != nil {
//	    return errors.Network(url, err, "GET failed")
//	}
//
//	if errors.IsKind(err, errors.KindNotFound) {
//	    // handle missing input
//	}
package errors
