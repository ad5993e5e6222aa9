package main

import (
	"fmt"
	"strings"

	"econtab/internal/export"
	"econtab/internal/fetch"
	"econtab/internal/parse"
	"econtab/pkg/tabular"
)

// pipelineFlags are the flags shared by convert and query.
type pipelineFlags struct {
	kind      string
	rendered  bool
	sheet     string
	delimiter string
	contains  string

	coerce      []string
	rename      []string
	nullOnError bool

	format  string
	out     string
	caption string
	label   string
	bom     bool
}

// parseOptions builds the parse options from the flags.
func (f *pipelineFlags) parseOptions() (parse.Options, error) {
	opts := parse.Options{
		Sheet:         f.sheet,
		TableContains: f.contains,
	}
	if f.delimiter != "" {
		runes := []rune(f.delimiter)
		if len(runes) != 1 {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", f.delimiter)
		}
		opts.Delimiter = runes[0]
	}
	return opts, nil
}

// normalization builds the coercion/rename spec from the repeated
// --coerce col:type[:layout] and --rename old=new flags. A nil result
// means the normalize stage is skipped.
func (f *pipelineFlags) normalization() (*tabular.Normalization, error) {
	if len(f.coerce) == 0 && len(f.rename) == 0 {
		return nil, nil
	}
	spec := &tabular.Normalization{}
	if f.nullOnError {
		spec.OnError = tabular.NullOnError
	}
	for _, raw := range f.coerce {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("coerce %q: want col:type[:layout]", raw)
		}
		kind, err := valueKind(parts[1])
		if err != nil {
			return nil, fmt.Errorf("coerce %q: %w", raw, err)
		}
		c := tabular.Coercion{Column: parts[0], To: kind}
		if len(parts) == 3 {
			c.Layout = parts[2]
		}
		spec.Coercions = append(spec.Coercions, c)
	}
	for _, raw := range f.rename {
		from, to, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("rename %q: want old=new", raw)
		}
		if spec.Renames == nil {
			spec.Renames = make(map[string]string)
		}
		spec.Renames[from] = to
	}
	return spec, nil
}

func (f *pipelineFlags) exportFormat() export.Format {
	if f.format == "" {
		return export.FormatTable
	}
	return export.Format(f.format)
}

func (f *pipelineFlags) exportOptions() export.Options {
	opts := export.Options{
		Caption:   f.caption,
		Label:     f.label,
		Sheet:     f.sheet,
		BOMPrefix: f.bom,
	}
	if f.delimiter != "" {
		opts.Delimiter = []rune(f.delimiter)[0]
	}
	return opts
}

func (f *pipelineFlags) contentKind() fetch.ContentKind {
	return fetch.ContentKind(f.kind)
}

func valueKind(name string) (tabular.ValueKind, error) {
	var k tabular.ValueKind
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return tabular.KindNull, fmt.Errorf("unknown type %q (string, int, float, date)", name)
	}
	return k, nil
}

// queryFlags hold the declarative transform flags of the query command.
type queryFlags struct {
	filters     []string
	sel         string
	sortKeys    []string
	groupBy     string
	aggs        []string
	withinGroup bool
	sampleSize  int
	sampleFrac  float64
	replacement bool
	weightCol   string
	seed        int64
}

// query builds the tabular.Query from the flags, nil when no transform
// was requested.
func (qf *queryFlags) query() (*tabular.Query, error) {
	q := &tabular.Query{}
	empty := true

	for _, raw := range qf.filters {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("filter %q: want col:op[:value]", raw)
		}
		f := tabular.FilterSpec{Column: parts[0], Op: tabular.FilterOp(parts[1])}
		if len(parts) == 3 {
			f.Value = parts[2]
		}
		q.Filters = append(q.Filters, f)
		empty = false
	}
	if qf.sel != "" {
		q.Select = splitList(qf.sel)
		empty = false
	}
	for _, raw := range qf.sortKeys {
		col, dir, _ := strings.Cut(raw, ":")
		q.Sort = append(q.Sort, tabular.SortKey{Column: col, Descending: dir == "desc"})
		empty = false
	}
	if qf.groupBy != "" {
		q.GroupBy = splitList(qf.groupBy)
		q.WithinGroup = qf.withinGroup
		empty = false
	}
	for _, raw := range qf.aggs {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("agg %q: want col:func[:as]", raw)
		}
		a := tabular.Aggregation{Column: parts[0], Func: tabular.AggFunc(parts[1])}
		if len(parts) == 3 {
			a.As = parts[2]
		}
		q.Aggregations = append(q.Aggregations, a)
		empty = false
	}
	if qf.sampleSize > 0 || qf.sampleFrac > 0 {
		q.Sample = &tabular.SampleSpec{
			Size:         qf.sampleSize,
			Fraction:     qf.sampleFrac,
			Replacement:  qf.replacement,
			WeightColumn: qf.weightCol,
			Seed:         qf.seed,
		}
		empty = false
	}

	if empty {
		return nil, nil
	}
	return q, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
