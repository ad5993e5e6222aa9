// Package fetch retrieves raw content for the pipeline: HTTP(S) GET with
// a configurable timeout and body size cap, local file reads, headless
// Chrome for JavaScript-rendered pages, and the Google Sheets values API
// for spreadsheet-published datasets.
//
// Each call is a single synchronous attempt with no retries. Failures are
// classified: unreachable hosts and non-2xx statuses are network errors,
// missing local paths are not-found errors.
//
// The Result carries the payload plus a content-kind hint (csv, json,
// html, xlsx, pdf) inferred from the URL or path suffix and the declared
// media type; the parse package dispatches on that hint.
package fetch
