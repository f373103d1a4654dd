package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/repository"
)

// workdayMinutes is the default daily capacity per assignee.
const workdayMinutes = 8 * 60

// rollingWindowDays is the default trailing window for ModeRolling.
const rollingWindowDays = 7

// CompletionSource is the slice of the task repository the engine reads.
type CompletionSource interface {
	CountByStatus(ctx context.Context, projectID string) (map[domain.TaskStatus]int, error)
	ListCompletedBetween(ctx context.Context, projectID string, from, to time.Time) ([]repository.CompletionSample, error)
}

// Engine calculates project metrics, predictions, and insights from
// completed-task data.
type Engine struct {
	tasks       CompletionSource
	now         func() time.Time
	capacityMin int
	rollingDays int
}

// Option adjusts engine tunables.
type Option func(*Engine)

// WithCapacityMinutes sets the assumed daily capacity per assignee, used by
// the utilization metric.
func WithCapacityMinutes(minutes int) Option {
	return func(e *Engine) {
		if minutes > 0 {
			e.capacityMin = minutes
		}
	}
}

// WithRollingWindow sets the trailing window, in days, for rolling-mode
// metrics.
func WithRollingWindow(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.rollingDays = days
		}
	}
}

// NewEngine creates a metrics engine over the task repository.
func NewEngine(tasks CompletionSource, opts ...Option) *Engine {
	e := &Engine{
		tasks:       tasks,
		now:         time.Now,
		capacityMin: workdayMinutes,
		rollingDays: rollingWindowDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate computes one metric for a project over the window. An empty
// projectID computes across all projects.
func (e *Engine) Calculate(ctx context.Context, projectID string, metric MetricType, mode Mode, w Window) (*Metric, error) {
	switch mode {
	case ModeStandard, ModeRolling, ModeCumulative:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	samples, err := e.tasks.ListCompletedBetween(ctx, projectID, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("loading completion samples: %w", err)
	}
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	buckets := bucketByDay(samples, w)
	assignees := distinctAssignees(samples)
	if assignees == 0 {
		assignees = 1
	}

	var daily []float64
	var scale float64 // converts a daily mean into the metric's unit

	switch metric {
	case MetricVelocity:
		daily = dailyValues(buckets, func(b dayBucket) float64 { return float64(b.completed) })
		scale = 7 // tasks per week

	case MetricProductivity:
		daily = dailyValues(buckets, func(b dayBucket) float64 {
			return float64(b.completed) / float64(assignees)
		})
		scale = 7 // tasks per assignee per week

	case MetricUtilization:
		capacity := float64(e.capacityMin * assignees)
		daily = dailyValues(buckets, func(b dayBucket) float64 {
			return float64(b.loggedMin) / capacity
		})
		scale = 1

	case MetricEfficiency:
		return e.efficiency(samples, buckets, mode)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	m := &Metric{Type: metric, Mode: mode, DataPoints: len(samples)}

	switch mode {
	case ModeStandard:
		m.Value = mean(daily) * scale
		m.CILower, m.CIUpper = scaledCI(m.Value, daily, scale)
	case ModeRolling:
		ma := movingAverage(daily, e.rollingDays)
		m.Value = mean(ma) * scale
		m.CILower, m.CIUpper = scaledCI(m.Value, ma, scale)
	case ModeCumulative:
		var total float64
		for _, v := range daily {
			total += v
		}
		m.Value = total
		m.CILower, m.CIUpper = m.Value*0.95, m.Value*1.05
	}

	return m, nil
}

// efficiency is estimated minutes over logged minutes. A value above 1
// means work finished under estimate.
func (e *Engine) efficiency(samples []repository.CompletionSample, buckets []dayBucket, mode Mode) (*Metric, error) {
	var estimate, logged int
	for _, s := range samples {
		estimate += s.EstimateMin
		logged += s.LoggedMin
	}
	if logged == 0 {
		return nil, ErrNoData
	}

	overall := float64(estimate) / float64(logged)
	m := &Metric{Type: MetricEfficiency, Mode: mode, DataPoints: len(samples)}

	// Daily ratios only exist on days with logged work.
	var ratios []float64
	for _, b := range buckets {
		if b.loggedMin > 0 {
			ratios = append(ratios, float64(b.estimateMin)/float64(b.loggedMin))
		}
	}

	switch mode {
	case ModeRolling:
		ma := movingAverage(ratios, e.rollingDays)
		m.Value = mean(ma)
		m.CILower, m.CIUpper = seriesCI(m.Value, ma)
	default:
		// Cumulative efficiency at the end of the window is the
		// overall ratio, so standard and cumulative coincide.
		m.Value = overall
		m.CILower, m.CIUpper = seriesCI(overall, ratios)
	}

	return m, nil
}

// Summary calculates all metrics, status counts, and insights for a project.
func (e *Engine) Summary(ctx context.Context, projectID string, w Window) (*ProjectSummary, error) {
	counts, err := e.tasks.CountByStatus(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting tasks: %w", err)
	}

	summary := &ProjectSummary{
		ProjectID:    projectID,
		Window:       w,
		StatusCounts: counts,
	}

	for _, mt := range []MetricType{MetricVelocity, MetricUtilization, MetricProductivity, MetricEfficiency} {
		m, err := e.Calculate(ctx, projectID, mt, ModeStandard, w)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		summary.Metrics = append(summary.Metrics, *m)
	}

	summary.Insights = generateInsights(summary)
	return summary, nil
}

func dailyValues(buckets []dayBucket, f func(dayBucket) float64) []float64 {
	ys := make([]float64, len(buckets))
	for i, b := range buckets {
		ys[i] = f(b)
	}
	return ys
}

// movingAverage returns trailing-window means. Early positions average
// whatever prefix is available.
func movingAverage(xs []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

func scaledCI(value float64, series []float64, scale float64) (lo, hi float64) {
	lo, hi = seriesCI(value/scale, series)
	return lo * scale, hi * scale
}
