package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictCompletions_SteadyRate(t *testing.T) {
	// Two completions every day for thirty days predicts two per day ahead.
	src := &fakeSource{}
	for i := 0; i < 30; i++ {
		src.samples = append(src.samples, sample(i, 60, 60, "alice"))
		src.samples = append(src.samples, sample(i, 60, 60, "bob"))
	}

	e := testEngine(src)
	p, err := e.PredictCompletions(context.Background(), "p1", HorizonShort)

	require.NoError(t, err)
	assert.InDelta(t, 14.0, p.Value, 0.5)
	assert.Equal(t, 60, p.Basis)
	assert.Equal(t, testNow.AddDate(0, 0, 7), p.Until)
}

func TestPredictCompletions_HorizonScales(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 30; i++ {
		src.samples = append(src.samples, sample(i, 60, 60, "alice"))
	}

	e := testEngine(src)
	short, err := e.PredictCompletions(context.Background(), "p1", HorizonShort)
	require.NoError(t, err)
	long, err := e.PredictCompletions(context.Background(), "p1", HorizonLong)
	require.NoError(t, err)

	assert.Greater(t, long.Value, short.Value)
}

func TestPredictCompletions_NeverNegative(t *testing.T) {
	// Uneven activity must never produce a negative forecast.
	src := &fakeSource{}
	for i := 0; i < 10; i++ {
		for j := 0; j < 10-i; j++ {
			src.samples = append(src.samples, sample(i, 60, 60, "alice"))
		}
	}

	e := testEngine(src)
	p, err := e.PredictCompletions(context.Background(), "p1", HorizonLong)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Value, 0.0)
}

func TestPredictCompletions_NoHistory(t *testing.T) {
	e := testEngine(&fakeSource{})
	_, err := e.PredictCompletions(context.Background(), "p1", HorizonShort)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPredictCompletions_UnknownHorizon(t *testing.T) {
	e := testEngine(&fakeSource{})
	_, err := e.PredictCompletions(context.Background(), "p1", Horizon("decade"))
	assert.ErrorIs(t, err, ErrUnknownHorizon)
}

func TestPredictAllocation_SteadyRate(t *testing.T) {
	// 240 logged minutes per day predicts roughly 240*7 over a week.
	src := &fakeSource{}
	for i := 0; i < 30; i++ {
		src.samples = append(src.samples, sample(i, 240, 240, "alice"))
	}

	e := testEngine(src)
	p, err := e.PredictAllocation(context.Background(), "p1", HorizonShort)

	require.NoError(t, err)
	assert.InDelta(t, 240.0*7, p.Value, 60.0)
}
