// Package export serializes tables to their output formats: delimited
// text (with optional UTF-8 BOM for Excel), boxed terminal display,
// markdown and HTML via go-pretty, captioned-and-labeled LaTeX table
// markup, and XLSX workbooks.
//
// Render is a pure formatting function; WriteFile adds the one permitted
// side effect, a write to a file sink, and classifies unwritable sinks as
// IO errors.
package export
