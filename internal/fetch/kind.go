package fetch

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

// ContentKind hints the parser at the structure of a fetched payload.
type ContentKind string

const (
	KindUnknown ContentKind = ""
	KindCSV     ContentKind = "csv"
	KindJSON    ContentKind = "json"
	KindHTML    ContentKind = "html"
	KindXLSX    ContentKind = "xlsx"
	KindPDF     ContentKind = "pdf"
)

// kindByExtension maps file suffixes to content kinds.
var kindByExtension = map[string]ContentKind{
	".csv":  KindCSV,
	".tsv":  KindCSV,
	".json": KindJSON,
	".html": KindHTML,
	".htm":  KindHTML,
	".xlsx": KindXLSX,
	".pdf":  KindPDF,
}

// kindByMediaType maps declared media types to content kinds.
var kindByMediaType = map[string]ContentKind{
	"text/csv":         KindCSV,
	"application/json": KindJSON,
	"text/html":        KindHTML,
	"application/xhtml+xml": KindHTML,
	"application/pdf":       KindPDF,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": KindXLSX,
}

// InferKind guesses the content kind from a source descriptor and an
// optional declared media type. The media type wins when both give an
// answer.
func InferKind(source, contentType string) ContentKind {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			if k, ok := kindByMediaType[mt]; ok {
				return k
			}
		}
	}
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" {
		p = u.Path
	}
	if k, ok := kindByExtension[strings.ToLower(path.Ext(p))]; ok {
		return k
	}
	return KindUnknown
}
