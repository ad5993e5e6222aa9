package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// statusByKind maps pipeline error kinds to HTTP status codes at the
// transport boundary.
var statusByKind = map[Kind]int{
	KindNetwork:           http.StatusBadGateway,
	KindNotFound:          http.StatusNotFound,
	KindMalformedData:     http.StatusUnprocessableEntity,
	KindUnsupportedFormat: http.StatusUnsupportedMediaType,
	KindTypeCoercion:      http.StatusUnprocessableEntity,
	KindUnknownColumn:     http.StatusBadRequest,
	KindInvalidArgument:   http.StatusBadRequest,
	KindIO:                http.StatusInternalServerError,
}

// StatusCode returns the HTTP status code for an error chain. Unclassified
// errors map to 500.
func StatusCode(err error) int {
	if code, ok := statusByKind[KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Response is the JSON error body returned by the HTTP surface.
type Response struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Stage      string `json:"stage,omitempty"`
	Source     string `json:"source,omitempty"`
}

// Render implements the render.Renderer interface for chi/render.
func (r *Response) Render(w http.ResponseWriter, req *http.Request) error {
	render.Status(req, r.StatusCode)
	return nil
}

// NewResponse builds a Response from any error. Pipeline errors keep their
// kind, stage and source; everything else becomes an internal error.
func NewResponse(err error) *Response {
	resp := &Response{
		StatusCode: StatusCode(err),
		ErrorCode:  "INTERNAL_ERROR",
		Message:    err.Error(),
	}
	if kind := KindOf(err); kind != "" {
		resp.ErrorCode = string(kind)
		var pe *Error
		if AsPipeline(err, &pe) {
			resp.Stage = pe.Stage
			resp.Source = pe.Source
		}
	}
	return resp
}
