package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"econtab/internal/errors"
	"econtab/internal/pipeline"
)

// PipelineHandler runs declarative pipeline requests.
type PipelineHandler struct {
	runner   *pipeline.Runner
	validate *validator.Validate
	logger   *slog.Logger
}

// NewPipelineHandler creates the handler around a runner.
func NewPipelineHandler(runner *pipeline.Runner, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		runner:   runner,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "pipeline")),
	}
}

// PipelineResponse is the success body: the final table's shape plus its
// rendering in the requested format.
type PipelineResponse struct {
	RunID   string   `json:"run_id"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
	Format  string   `json:"format"`
	Output  string   `json:"output"`
}

// Render implements render.Renderer.
func (p *PipelineResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusOK)
	return nil
}

// Run handles POST /api/v1/pipeline.
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, errors.Wrap(errors.KindInvalidArgument, "transport", "", err, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.renderError(w, r, errors.Wrap(errors.KindInvalidArgument, "transport", "", err, "request validation failed"))
		return
	}
	// the HTTP surface never writes server-side files
	req.OutputPath = ""

	result, err := h.runner.Run(r.Context(), req)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	format := string(req.Format)
	if format == "" {
		format = "table"
	}
	resp := &PipelineResponse{
		RunID:   result.RunID,
		Columns: result.Table.ColumnNames(),
		Rows:    result.Table.NumRows(),
		Format:  format,
		Output:  string(result.Output),
	}
	if err := render.Render(w, r, resp); err != nil {
		h.logger.ErrorContext(r.Context(), "rendering response failed", slog.String("error", err.Error()))
	}
}

func (h *PipelineHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WarnContext(r.Context(), "pipeline request failed", slog.String("error", err.Error()))
	if renderErr := render.Render(w, r, errors.NewResponse(err)); renderErr != nil {
		h.logger.ErrorContext(r.Context(), "rendering error response failed",
			slog.String("error", renderErr.Error()))
	}
}
