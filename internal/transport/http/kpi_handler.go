package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salescli/internal/errors"
)

// KPIHandler serves the analysis results of the latest pipeline run.
type KPIHandler struct {
	service      SalesServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewKPIHandler creates a KPI handler.
func NewKPIHandler(service SalesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *KPIHandler {
	return &KPIHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "kpi_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the KPI routes.
func (h *KPIHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetBundle)
	r.Get("/top-products", h.GetTopProducts)
	r.Get("/regions", h.GetRegions)
	r.Get("/monthly", h.GetMonthly)
	r.Get("/profit", h.GetProfit)
	r.Get("/summary", h.GetSummary)

	return r
}

// GetBundle handles GET /api/kpi.
func (h *KPIHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Bundle(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, bundle)
}

// GetTopProducts handles GET /api/kpi/top-products. The optional "n" query
// parameter overrides the configured ranking size.
func (h *KPIHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Bundle(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	top := bundle.TopProducts
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.errorHandler.HandleError(w, r,
				apierrors.NewInvalidArgumentError("query parameter n must be a positive integer"))
			return
		}
		if n < len(top) {
			top = top[:n]
		}
	}
	render.JSON(w, r, top)
}

// GetRegions handles GET /api/kpi/regions.
func (h *KPIHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Bundle(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, bundle.Regions)
}

// GetMonthly handles GET /api/kpi/monthly.
func (h *KPIHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Bundle(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, bundle.Monthly)
}

// GetProfit handles GET /api/kpi/profit. Answers 404 when the loaded data
// carried no cost column.
func (h *KPIHandler) GetProfit(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Bundle(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if bundle.Profit == nil {
		h.errorHandler.HandleError(w, r, apierrors.NewNotFoundError("profit metrics"))
		return
	}
	render.JSON(w, r, bundle.Profit)
}

// GetSummary handles GET /api/kpi/summary.
func (h *KPIHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Bundle(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, bundle.Summary)
}
