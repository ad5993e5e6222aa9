package export

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"econtab/internal/errors"
	"econtab/pkg/tabular"
)

// Format names a serialization target for a table.
type Format string

const (
	// FormatCSV is delimited text with a header record.
	FormatCSV Format = "csv"
	// FormatTable is a boxed plain-text rendering for terminals.
	FormatTable Format = "table"
	// FormatMarkdown is a GitHub-style pipe table.
	FormatMarkdown Format = "markdown"
	// FormatHTML is an HTML <table> fragment.
	FormatHTML Format = "html"
	// FormatLaTeX is a captioned, labeled LaTeX table environment.
	FormatLaTeX Format = "latex"
	// FormatXLSX is an Excel workbook with a single sheet.
	FormatXLSX Format = "xlsx"
)

// Options tune the output of a single export.
type Options struct {
	// Delimiter for FormatCSV; zero means comma.
	Delimiter rune
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility (FormatCSV).
	BOMPrefix bool
	// Caption is the table caption for the typeset formats.
	Caption string
	// Label is the cross-reference label for FormatLaTeX.
	Label string
	// Sheet names the worksheet for FormatXLSX; empty uses "Sheet1".
	Sheet string
}

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatTable, FormatMarkdown, FormatHTML, FormatLaTeX, FormatXLSX}
}

// Render serializes a table to the chosen format. Rendering is a pure
// formatting step with no side effects; pair it with WriteFile for a
// file sink.
func Render(t *tabular.Table, format Format, opts Options) ([]byte, error) {
	switch format {
	case FormatCSV:
		return renderCSV(t, opts)
	case FormatTable, FormatMarkdown, FormatHTML:
		return renderPretty(t, format, opts)
	case FormatLaTeX:
		return renderLaTeX(t, opts)
	case FormatXLSX:
		return renderXLSX(t, opts)
	default:
		return nil, errors.InvalidArgument("export", "unknown export format %q", format)
	}
}

// WriteFile renders the table and writes it to path, creating parent
// directories as needed. An unwritable sink surfaces as an IO error.
func WriteFile(t *tabular.Table, format Format, path string, opts Options) error {
	data, err := Render(t, format, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IO(path, err, "creating output directory failed")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IO(path, err, "writing output file failed")
	}
	slog.Info("exported table",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("rows", t.NumRows()))
	return nil
}

// bomPrefix prepends the UTF-8 byte order mark when requested.
func bomPrefix(buf *bytes.Buffer, opts Options) {
	if opts.BOMPrefix {
		buf.WriteString("\xEF\xBB\xBF")
	}
}
