package analytics

import (
	"errors"
	"time"

	"github.com/taskstream/taskstream/internal/domain"
)

// MetricType identifies a metric the engine can calculate.
type MetricType string

const (
	// MetricVelocity is completed tasks per week.
	MetricVelocity MetricType = "velocity"
	// MetricUtilization is logged effort over available capacity.
	MetricUtilization MetricType = "utilization"
	// MetricProductivity is completed tasks per assignee per week.
	MetricProductivity MetricType = "productivity"
	// MetricEfficiency is estimated effort over logged effort.
	MetricEfficiency MetricType = "efficiency"
)

// Mode selects how a metric is computed over the window.
type Mode string

const (
	// ModeStandard computes one value over the whole window.
	ModeStandard Mode = "standard"
	// ModeRolling averages trailing seven-day windows across the period.
	ModeRolling Mode = "rolling"
	// ModeCumulative accumulates daily values across the period.
	ModeCumulative Mode = "cumulative"
)

// Horizon selects how far ahead predictions look.
type Horizon string

const (
	HorizonShort  Horizon = "short_term"  // 7 days
	HorizonMedium Horizon = "medium_term" // 30 days
	HorizonLong   Horizon = "long_term"   // 90 days
)

var (
	ErrNoData         = errors.New("no data points in window")
	ErrUnknownMetric  = errors.New("unknown metric type")
	ErrUnknownMode    = errors.New("unknown calculation mode")
	ErrUnknownHorizon = errors.New("unknown prediction horizon")
)

// HorizonDays maps horizons to their length in days.
var HorizonDays = map[Horizon]int{
	HorizonShort:  7,
	HorizonMedium: 30,
	HorizonLong:   90,
}

// Window bounds a metric calculation in time. To is exclusive.
type Window struct {
	From time.Time
	To   time.Time
}

// LastDays returns a window covering the n days ending at now.
func LastDays(now time.Time, n int) Window {
	return Window{From: now.AddDate(0, 0, -n), To: now}
}

// Days returns the whole number of days the window spans, at least 1.
func (w Window) Days() int {
	d := int(w.To.Sub(w.From).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// Metric is one calculated metric value with its confidence interval.
type Metric struct {
	Type       MetricType `json:"type"`
	Mode       Mode       `json:"mode"`
	Value      float64    `json:"value"`
	CILower    float64    `json:"ci_lower"`
	CIUpper    float64    `json:"ci_upper"`
	DataPoints int        `json:"data_points"`
}

// Prediction is a forward-looking estimate derived from a linear trend.
type Prediction struct {
	Horizon    Horizon   `json:"horizon"`
	Value      float64   `json:"value"`
	Confidence float64   `json:"confidence"`
	Basis      int       `json:"basis"` // data points the trend was fitted on
	Until      time.Time `json:"until"`
}

// InsightSeverity ranks how urgently an insight needs attention.
type InsightSeverity string

const (
	SeverityInfo     InsightSeverity = "info"
	SeverityWarning  InsightSeverity = "warning"
	SeverityCritical InsightSeverity = "critical"
)

// Insight is a generated observation about project health.
type Insight struct {
	Severity InsightSeverity `json:"severity"`
	Category string          `json:"category"`
	Message  string          `json:"message"`
	Value    float64         `json:"value"`
}

// ProjectSummary aggregates metrics, task counts, and insights for one project.
type ProjectSummary struct {
	ProjectID    string                    `json:"project_id"`
	Window       Window                    `json:"-"`
	StatusCounts map[domain.TaskStatus]int `json:"status_counts"`
	Metrics      []Metric                  `json:"metrics"`
	Insights     []Insight                 `json:"insights"`
}
