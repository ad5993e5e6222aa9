package http

import (
	"net/http"

	"github.com/go-chi/render"

	"econtab/internal/export"
)

// FormatsResponse lists the content kinds the parser accepts and the
// export formats the renderer produces.
type FormatsResponse struct {
	InputKinds    []string `json:"input_kinds"`
	ExportFormats []string `json:"export_formats"`
}

// HandleFormats handles GET /api/v1/formats.
func HandleFormats(w http.ResponseWriter, r *http.Request) {
	formats := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		formats = append(formats, string(f))
	}
	render.JSON(w, r, &FormatsResponse{
		InputKinds:    []string{"csv", "json", "html", "xlsx", "pdf"},
		ExportFormats: formats,
	})
}
