package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/taskstream/taskstream/internal/analytics"
	"github.com/taskstream/taskstream/internal/integration"
	"github.com/taskstream/taskstream/internal/nlp"
	"github.com/taskstream/taskstream/internal/service"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Deps carries everything the router needs.
type Deps struct {
	Projects      service.ProjectService
	Tasks         service.TaskService
	Activity      service.ActivityService
	Notifications service.NotificationService
	Hub           *integration.SyncManager
	Analytics     *analytics.Engine

	// AnalyticsWindowDays is the reporting window used when a request does
	// not pass ?days=. Zero means 30.
	AnalyticsWindowDays int

	Extractor nlp.Extractor
	Logger        *zap.Logger
	Metrics       *Metrics

	// RatePerSecond/Burst bound accepted requests across all clients.
	RatePerSecond float64
	Burst         int

	// Limiter, when set, is used instead of RatePerSecond/Burst. Callers
	// keep the handle to retune limits at runtime.
	Limiter *rate.Limiter
}

// NewRouter builds the full API route tree with the middleware stack.
func NewRouter(d Deps) *mux.Router {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}
	if d.RatePerSecond <= 0 {
		d.RatePerSecond = 100
	}
	if d.Burst <= 0 {
		d.Burst = 200
	}
	if d.Limiter == nil {
		d.Limiter = rate.NewLimiter(rate.Limit(d.RatePerSecond), d.Burst)
	}

	r := mux.NewRouter().StrictSlash(true)
	r.Use(
		recovery(d.Logger),
		securityHeaders,
		requestLogging(d.Logger),
		instrument(d.Metrics),
		rateLimit(d.Limiter),
	)

	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()

	projects := NewProjectHandler(d.Projects, d.Activity)
	v1.HandleFunc("/projects", projects.Create).Methods(http.MethodPost)
	v1.HandleFunc("/projects", projects.List).Methods(http.MethodGet)
	v1.HandleFunc("/projects/{id}", projects.Get).Methods(http.MethodGet)
	v1.HandleFunc("/projects/{id}", projects.Update).Methods(http.MethodPut)
	v1.HandleFunc("/projects/{id}", projects.Delete).Methods(http.MethodDelete)
	v1.HandleFunc("/projects/{id}/archive", projects.Archive).Methods(http.MethodPost)
	v1.HandleFunc("/projects/{id}/unarchive", projects.Unarchive).Methods(http.MethodPost)
	v1.HandleFunc("/projects/{id}/activity", projects.Activity).Methods(http.MethodGet)

	tasks := NewTaskHandler(d.Tasks)
	v1.HandleFunc("/tasks", tasks.Create).Methods(http.MethodPost)
	v1.HandleFunc("/tasks", tasks.List).Methods(http.MethodGet)
	v1.HandleFunc("/tasks/{id}", tasks.Get).Methods(http.MethodGet)
	v1.HandleFunc("/tasks/{id}", tasks.Update).Methods(http.MethodPut)
	v1.HandleFunc("/tasks/{id}", tasks.Delete).Methods(http.MethodDelete)
	v1.HandleFunc("/tasks/{id}/transition", tasks.Transition).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/{id}/assign", tasks.Assign).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/{id}/time", tasks.LogTime).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/{id}/archive", tasks.Archive).Methods(http.MethodPost)

	activity := NewActivityHandler(d.Activity)
	v1.HandleFunc("/activity", activity.Recent).Methods(http.MethodGet)
	v1.HandleFunc("/activity", activity.Record).Methods(http.MethodPost)

	if d.Hub != nil {
		integrations := NewIntegrationHandler(d.Hub, d.Notifications)
		v1.HandleFunc("/integrations/status", integrations.Status).Methods(http.MethodGet)
		v1.HandleFunc("/integrations/sync", integrations.Sync).Methods(http.MethodPost)
		v1.HandleFunc("/integrations/{name}/send", integrations.Send).Methods(http.MethodPost)
		v1.HandleFunc("/notifications", integrations.Queue).Methods(http.MethodPost)
	}

	if d.Analytics != nil {
		an := NewAnalyticsHandler(d.Analytics, d.AnalyticsWindowDays)
		v1.HandleFunc("/analytics/projects/{id}/summary", an.Summary).Methods(http.MethodGet)
		v1.HandleFunc("/analytics/projects/{id}/metrics/{metric}", an.Metric).Methods(http.MethodGet)
		v1.HandleFunc("/analytics/projects/{id}/predictions/{horizon}", an.Predictions).Methods(http.MethodGet)
	}

	if d.Extractor != nil {
		nlpHandler := NewNLPHandler(d.Extractor)
		v1.HandleFunc("/nlp/extract", nlpHandler.Extract).Methods(http.MethodPost)
		v1.HandleFunc("/nlp/extract/batch", nlpHandler.ExtractBatch).Methods(http.MethodPost)
		v1.HandleFunc("/nlp/classify", nlpHandler.Classify).Methods(http.MethodPost)
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
