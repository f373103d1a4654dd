package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskstream/taskstream/internal/analytics"
)

// AnalyticsHandler serves project metrics, summaries, and predictions.
type AnalyticsHandler struct {
	engine      *analytics.Engine
	now         func() time.Time
	defaultDays int
}

func NewAnalyticsHandler(engine *analytics.Engine, defaultDays int) *AnalyticsHandler {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &AnalyticsHandler{engine: engine, now: time.Now, defaultDays: defaultDays}
}

func analyticsStatus(err error) int {
	switch {
	case errors.Is(err, analytics.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, analytics.ErrUnknownMetric),
		errors.Is(err, analytics.ErrUnknownMode),
		errors.Is(err, analytics.ErrUnknownHorizon):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *AnalyticsHandler) window(r *http.Request) analytics.Window {
	days := queryInt(r, "days", h.defaultDays)
	return analytics.LastDays(h.now(), days)
}

// Metric computes one metric for a project, e.g.
// GET /api/v1/analytics/projects/{id}/metrics/velocity?mode=rolling&days=14.
func (h *AnalyticsHandler) Metric(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mode := analytics.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = analytics.ModeStandard
	}

	m, err := h.engine.Calculate(r.Context(), vars["id"], analytics.MetricType(vars["metric"]), mode, h.window(r))
	if err != nil {
		writeError(w, analyticsStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Summary aggregates status counts, all standard metrics, and insights.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.Summary(r.Context(), mux.Vars(r)["id"], h.window(r))
	if err != nil {
		writeError(w, analyticsStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Predictions returns completion and allocation forecasts for one horizon.
func (h *AnalyticsHandler) Predictions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	horizon := analytics.Horizon(vars["horizon"])

	completions, err := h.engine.PredictCompletions(r.Context(), vars["id"], horizon)
	if err != nil {
		writeError(w, analyticsStatus(err), err)
		return
	}
	allocation, err := h.engine.PredictAllocation(r.Context(), vars["id"], horizon)
	if err != nil {
		writeError(w, analyticsStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*analytics.Prediction{
		"completions": completions,
		"allocation":  allocation,
	})
}
