package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskstream/taskstream/internal/repository"
)

func TestBucketByDay_FillsEmptyDays(t *testing.T) {
	w := LastDays(testNow, 5)
	samples := []repository.CompletionSample{
		{Assignee: "alice", LoggedMin: 60, EstimateMin: 60, CompletedAt: testNow.AddDate(0, 0, -1).Add(-time.Hour)},
		{Assignee: "bob", LoggedMin: 30, EstimateMin: 30, CompletedAt: testNow.AddDate(0, 0, -1).Add(-2 * time.Hour)},
	}

	buckets := bucketByDay(samples, w)

	require.Len(t, buckets, 5)
	assert.Equal(t, 0, buckets[0].completed)
	assert.Equal(t, 2, buckets[3].completed)
	assert.Equal(t, 90, buckets[3].loggedMin)
	assert.Len(t, buckets[3].assignees, 2)
}

func TestBucketByDay_IgnoresOutOfWindowSamples(t *testing.T) {
	w := LastDays(testNow, 3)
	samples := []repository.CompletionSample{
		{CompletedAt: testNow.AddDate(0, 0, -10)},
	}

	buckets := bucketByDay(samples, w)
	for _, b := range buckets {
		assert.Equal(t, 0, b.completed)
	}
}

func TestLinearTrend_PerfectLine(t *testing.T) {
	slope, intercept, r2 := linearTrend([]float64{1, 2, 3, 4, 5})
	assert.InDelta(t, 1.0, slope, 1e-9)
	assert.InDelta(t, 1.0, intercept, 1e-9)
	assert.InDelta(t, 1.0, r2, 1e-9)
}

func TestLinearTrend_FlatSeries(t *testing.T) {
	slope, intercept, r2 := linearTrend([]float64{3, 3, 3, 3})
	assert.InDelta(t, 0.0, slope, 1e-9)
	assert.InDelta(t, 3.0, intercept, 1e-9)
	assert.Equal(t, 0.0, r2)
}

func TestLinearTrend_DegenerateInputs(t *testing.T) {
	slope, intercept, _ := linearTrend(nil)
	assert.Equal(t, 0.0, slope)
	assert.Equal(t, 0.0, intercept)

	slope, intercept, _ = linearTrend([]float64{7})
	assert.Equal(t, 0.0, slope)
	assert.Equal(t, 7.0, intercept)
}

func TestMovingAverage_TrailingWindow(t *testing.T) {
	out := movingAverage([]float64{2, 4, 6, 8}, 2)
	assert.InDelta(t, 2.0, out[0], 1e-9)
	assert.InDelta(t, 3.0, out[1], 1e-9)
	assert.InDelta(t, 5.0, out[2], 1e-9)
	assert.InDelta(t, 7.0, out[3], 1e-9)
}

func TestSeriesCI_FallbackBand(t *testing.T) {
	lo, hi := seriesCI(10, []float64{10})
	assert.InDelta(t, 9.5, lo, 1e-9)
	assert.InDelta(t, 10.5, hi, 1e-9)
}

func TestSeriesCI_NarrowsWithConsistentData(t *testing.T) {
	tight := []float64{5, 5.1, 4.9, 5, 5.05}
	loose := []float64{1, 9, 2, 8, 5}

	tLo, tHi := seriesCI(5, tight)
	lLo, lHi := seriesCI(5, loose)

	assert.Less(t, tHi-tLo, lHi-lLo)
}

func TestSampleStddev(t *testing.T) {
	assert.Equal(t, 0.0, sampleStddev([]float64{4}))
	assert.InDelta(t, 1.0, sampleStddev([]float64{1, 2, 3}), 1e-9)
}
