package parse

import (
	"net/url"
	"path"
	"strings"

	"econtab/internal/errors"
	"econtab/internal/fetch"
	"econtab/pkg/tabular"
)

// Options tune format-specific parsing.
type Options struct {
	// Delimiter overrides the comma for delimited input.
	Delimiter rune
	// Sheet selects an Excel sheet by name; empty means the first sheet.
	Sheet string
	// TableContains restricts HTML table extraction to tables whose
	// rendered text contains the substring.
	TableContains string
}

// Tables converts a fetch result into tables, dispatching on the declared
// kind or, when that is unknown, the result's inferred kind. CSV, JSON
// and XLSX yield exactly one table; HTML yields one per matching <table>
// element. PDF payloads carry no tabular structure and are rejected here;
// use ParsePDFText for their text.
func Tables(res *fetch.Result, declared fetch.ContentKind, opts Options) ([]*tabular.Table, error) {
	kind := declared
	if kind == fetch.KindUnknown {
		kind = res.Kind
	}
	switch kind {
	case fetch.KindCSV:
		delim := opts.Delimiter
		if delim == 0 && isTSV(res.Source) {
			delim = '\t'
		}
		t, err := ParseCSV(res.Body, res.Source, delim)
		if err != nil {
			return nil, err
		}
		return []*tabular.Table{t}, nil
	case fetch.KindJSON:
		t, err := ParseJSON(res.Body, res.Source)
		if err != nil {
			return nil, err
		}
		return []*tabular.Table{t}, nil
	case fetch.KindXLSX:
		t, err := ParseXLSX(res.Body, res.Source, opts.Sheet)
		if err != nil {
			return nil, err
		}
		return []*tabular.Table{t}, nil
	case fetch.KindHTML:
		return ParseHTMLTables(res.Body, res.Source, opts.TableContains)
	case fetch.KindPDF:
		return nil, errors.UnsupportedFormat(res.Source,
			"PDF has no tabular structure; extract page text instead")
	default:
		return nil, errors.UnsupportedFormat(res.Source,
			"cannot determine content kind, declare one explicitly")
	}
}

// isTSV reports whether a source descriptor names a tab-separated file,
// so .tsv input defaults to a tab delimiter instead of the comma.
func isTSV(source string) bool {
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" {
		p = u.Path
	}
	return strings.EqualFold(path.Ext(p), ".tsv")
}
