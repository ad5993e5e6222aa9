// Package main provides the entry point for the econtab CLI.
//
// econtab fetches tabular data from files, APIs, web pages and
// spreadsheets, reshapes it, and exports it to analysis-ready formats.
//
// Usage:
//
//	econtab fetch <url-or-path>
//	econtab convert <source> --format csv --out table.csv
//	econtab query <source> --filter "country:eq:Sweden" --select country,gdp
//	econtab serve
//
// See --help for all available options.
package main

// main is the entry point for econtab.
func main() {
	Execute()
}
