package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/repository"
)

var testNow = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

// fakeSource serves canned completion samples and status counts.
type fakeSource struct {
	samples []repository.CompletionSample
	counts  map[domain.TaskStatus]int
}

func (f *fakeSource) CountByStatus(_ context.Context, _ string) (map[domain.TaskStatus]int, error) {
	return f.counts, nil
}

func (f *fakeSource) ListCompletedBetween(_ context.Context, _ string, from, to time.Time) ([]repository.CompletionSample, error) {
	var out []repository.CompletionSample
	for _, s := range f.samples {
		if !s.CompletedAt.Before(from) && s.CompletedAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func testEngine(src *fakeSource) *Engine {
	e := NewEngine(src)
	e.now = func() time.Time { return testNow }
	return e
}

// sample builds a completion late in the day daysAgo days before testNow.
func sample(daysAgo, estimate, logged int, assignee string) repository.CompletionSample {
	return repository.CompletionSample{
		TaskID:      "t",
		ProjectID:   "p1",
		Assignee:    assignee,
		EstimateMin: estimate,
		LoggedMin:   logged,
		CompletedAt: testNow.AddDate(0, 0, -daysAgo).Add(-time.Hour),
	}
}

func TestCalculate_VelocityStandard(t *testing.T) {
	// 14 completions over a 14 day window is 7 per week.
	src := &fakeSource{}
	for i := 0; i < 14; i++ {
		src.samples = append(src.samples, sample(i, 60, 60, "alice"))
	}

	e := testEngine(src)
	m, err := e.Calculate(context.Background(), "p1", MetricVelocity, ModeStandard, LastDays(testNow, 14))

	require.NoError(t, err)
	assert.InDelta(t, 7.0, m.Value, 0.01)
	assert.Equal(t, 14, m.DataPoints)
	assert.LessOrEqual(t, m.CILower, m.Value)
	assert.GreaterOrEqual(t, m.CIUpper, m.Value)
}

func TestCalculate_VelocityCumulative(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 10; i++ {
		src.samples = append(src.samples, sample(i, 60, 60, "alice"))
	}

	e := testEngine(src)
	m, err := e.Calculate(context.Background(), "p1", MetricVelocity, ModeCumulative, LastDays(testNow, 14))

	require.NoError(t, err)
	assert.InDelta(t, 10.0, m.Value, 0.01)
	assert.InDelta(t, 9.5, m.CILower, 0.01)
	assert.InDelta(t, 10.5, m.CIUpper, 0.01)
}

func TestCalculate_UtilizationStandard(t *testing.T) {
	// One assignee logging 240 of a 480 minute day, every day for a week.
	src := &fakeSource{}
	for i := 0; i < 7; i++ {
		src.samples = append(src.samples, sample(i, 240, 240, "alice"))
	}

	e := testEngine(src)
	m, err := e.Calculate(context.Background(), "p1", MetricUtilization, ModeStandard, LastDays(testNow, 7))

	require.NoError(t, err)
	assert.InDelta(t, 0.5, m.Value, 0.01)
}

func TestCalculate_UtilizationHonorsConfiguredCapacity(t *testing.T) {
	// The same 240 logged minutes fill a 4 hour workday completely.
	src := &fakeSource{}
	for i := 0; i < 7; i++ {
		src.samples = append(src.samples, sample(i, 240, 240, "alice"))
	}

	e := NewEngine(src, WithCapacityMinutes(4*60), WithRollingWindow(3))
	e.now = func() time.Time { return testNow }
	m, err := e.Calculate(context.Background(), "p1", MetricUtilization, ModeStandard, LastDays(testNow, 7))

	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.Value, 0.01)
}

func TestCalculate_ProductivityDividesByAssignees(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 7; i++ {
		src.samples = append(src.samples, sample(i, 60, 60, "alice"))
		src.samples = append(src.samples, sample(i, 60, 60, "bob"))
	}

	e := testEngine(src)

	velocity, err := e.Calculate(context.Background(), "p1", MetricVelocity, ModeStandard, LastDays(testNow, 7))
	require.NoError(t, err)
	productivity, err := e.Calculate(context.Background(), "p1", MetricProductivity, ModeStandard, LastDays(testNow, 7))
	require.NoError(t, err)

	assert.InDelta(t, 14.0, velocity.Value, 0.01)
	assert.InDelta(t, 7.0, productivity.Value, 0.01)
}

func TestCalculate_EfficiencyOverall(t *testing.T) {
	src := &fakeSource{samples: []repository.CompletionSample{
		sample(1, 120, 100, "alice"),
		sample(2, 120, 140, "alice"),
	}}

	e := testEngine(src)
	m, err := e.Calculate(context.Background(), "p1", MetricEfficiency, ModeStandard, LastDays(testNow, 7))

	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.Value, 0.01) // 240 estimated over 240 logged
}

func TestCalculate_EfficiencyNoLoggedTime(t *testing.T) {
	src := &fakeSource{samples: []repository.CompletionSample{
		sample(1, 120, 0, "alice"),
	}}

	e := testEngine(src)
	_, err := e.Calculate(context.Background(), "p1", MetricEfficiency, ModeStandard, LastDays(testNow, 7))

	assert.ErrorIs(t, err, ErrNoData)
}

func TestCalculate_RollingSmoothsSpikes(t *testing.T) {
	// A single spike day; rolling mean should sit below the spike value.
	src := &fakeSource{}
	for i := 0; i < 5; i++ {
		src.samples = append(src.samples, sample(3, 60, 60, "alice"))
	}

	e := testEngine(src)
	standard, err := e.Calculate(context.Background(), "p1", MetricVelocity, ModeStandard, LastDays(testNow, 14))
	require.NoError(t, err)
	rolling, err := e.Calculate(context.Background(), "p1", MetricVelocity, ModeRolling, LastDays(testNow, 14))
	require.NoError(t, err)

	assert.Greater(t, rolling.Value, 0.0)
	assert.InDelta(t, standard.Value, rolling.Value, standard.Value) // same order of magnitude
}

func TestCalculate_EmptyWindow(t *testing.T) {
	e := testEngine(&fakeSource{})
	_, err := e.Calculate(context.Background(), "p1", MetricVelocity, ModeStandard, LastDays(testNow, 7))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCalculate_UnknownMetric(t *testing.T) {
	src := &fakeSource{samples: []repository.CompletionSample{sample(1, 60, 60, "alice")}}
	e := testEngine(src)
	_, err := e.Calculate(context.Background(), "p1", MetricType("latency"), ModeStandard, LastDays(testNow, 7))
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestCalculate_UnknownMode(t *testing.T) {
	e := testEngine(&fakeSource{})
	_, err := e.Calculate(context.Background(), "p1", MetricVelocity, Mode("exponential"), LastDays(testNow, 7))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestSummary_CollectsMetricsAndCounts(t *testing.T) {
	src := &fakeSource{
		counts: map[domain.TaskStatus]int{
			domain.TaskTodo:       4,
			domain.TaskInProgress: 2,
			domain.TaskDone:       6,
		},
	}
	for i := 0; i < 7; i++ {
		src.samples = append(src.samples, sample(i, 60, 60, "alice"))
	}

	e := testEngine(src)
	s, err := e.Summary(context.Background(), "p1", LastDays(testNow, 7))

	require.NoError(t, err)
	assert.Equal(t, "p1", s.ProjectID)
	assert.Equal(t, 4, s.StatusCounts[domain.TaskTodo])
	assert.Len(t, s.Metrics, 4)
}

func TestSummary_NoCompletions(t *testing.T) {
	src := &fakeSource{counts: map[domain.TaskStatus]int{domain.TaskTodo: 3}}

	e := testEngine(src)
	s, err := e.Summary(context.Background(), "p1", LastDays(testNow, 7))

	require.NoError(t, err)
	assert.Empty(t, s.Metrics)
	assert.Equal(t, 3, s.StatusCounts[domain.TaskTodo])
}
