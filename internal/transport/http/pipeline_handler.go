package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salescli/internal/errors"
)

// PipelineHandler triggers pipeline runs and serves the cleaning report.
type PipelineHandler struct {
	service      SalesServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPipelineHandler creates a pipeline handler.
func NewPipelineHandler(service SalesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PipelineHandler {
	return &PipelineHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "pipeline_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the pipeline routes.
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/run", h.Run)
	r.Get("/report", h.GetReport)

	return r
}

// RunRequest is the body of POST /api/pipeline/run.
type RunRequest struct {
	Paths []string `json:"paths"`
}

// Bind validates the run request.
func (req *RunRequest) Bind(r *http.Request) error {
	if len(req.Paths) == 0 {
		return apierrors.NewInvalidArgumentError("at least one input path is required")
	}
	return nil
}

// Run handles POST /api/pipeline/run.
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	req := &RunRequest{}
	if err := render.Bind(r, req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Run(r.Context(), req.Paths)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "pipeline run triggered",
		slog.Int("files", len(req.Paths)),
		slog.Int("output_rows", result.Report.OutputRows))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// GetReport handles GET /api/pipeline/report.
func (h *PipelineHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}
