package parse

import (
	"bytes"

	"github.com/ledongthuc/pdf"

	"econtab/internal/errors"
)

// ParsePDFText extracts the text of each page, in page order. No table
// structure is recovered; bounding-box table detection belongs to an
// external specialized tool.
func ParsePDFText(data []byte, source string) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.MalformedData(source, err, "opening PDF failed")
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, errors.MalformedData(source, err, "extracting text of page %d failed", i)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
