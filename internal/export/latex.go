package export

import (
	"bytes"
	"fmt"
	"strings"

	"econtab/pkg/tabular"
)

// latexReplacer escapes the characters LaTeX treats specially in cell
// text.
var latexReplacer = strings.NewReplacer(
	"\\", `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// renderLaTeX emits a booktabs-style table environment with an optional
// caption and label, the form the typeset reports use.
func renderLaTeX(t *tabular.Table, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	names := t.ColumnNames()

	buf.WriteString("\\begin{table}[htbp]\n\\centering\n")
	if opts.Caption != "" {
		fmt.Fprintf(&buf, "\\caption{%s}\n", latexReplacer.Replace(opts.Caption))
	}
	if opts.Label != "" {
		fmt.Fprintf(&buf, "\\label{%s}\n", opts.Label)
	}
	fmt.Fprintf(&buf, "\\begin{tabular}{%s}\n\\toprule\n", strings.Repeat("l", len(names)))

	escaped := make([]string, len(names))
	for i, name := range names {
		escaped[i] = latexReplacer.Replace(name)
	}
	buf.WriteString(strings.Join(escaped, " & "))
	buf.WriteString(" \\\\\n\\midrule\n")

	cells := make([]string, len(names))
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.RowValues(i) {
			cells[j] = latexReplacer.Replace(v.Format())
		}
		buf.WriteString(strings.Join(cells, " & "))
		buf.WriteString(" \\\\\n")
	}

	buf.WriteString("\\bottomrule\n\\end{tabular}\n\\end{table}\n")
	return buf.Bytes(), nil
}
