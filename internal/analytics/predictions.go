package analytics

import (
	"context"
	"fmt"
)

// trendBasisDays is how much history the trend models are fitted on.
const trendBasisDays = 30

// PredictCompletions forecasts how many tasks will be completed over the
// horizon, based on a linear trend fitted to the last thirty days.
func (e *Engine) PredictCompletions(ctx context.Context, projectID string, horizon Horizon) (*Prediction, error) {
	days, ok := HorizonDays[horizon]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHorizon, horizon)
	}

	daily, basis, err := e.trendSeries(ctx, projectID, func(b dayBucket) float64 {
		return float64(b.completed)
	})
	if err != nil {
		return nil, err
	}

	slope, intercept, r2 := linearTrend(daily)

	// Sum the fitted line over the forecast days.
	var total float64
	for i := 0; i < days; i++ {
		v := slope*float64(len(daily)+i) + intercept
		if v < 0 {
			v = 0
		}
		total += v
	}

	now := e.now()
	return &Prediction{
		Horizon:    horizon,
		Value:      total,
		Confidence: r2,
		Basis:      basis,
		Until:      now.AddDate(0, 0, days),
	}, nil
}

// PredictAllocation forecasts logged minutes over the horizon, a proxy for
// how much capacity the project will consume.
func (e *Engine) PredictAllocation(ctx context.Context, projectID string, horizon Horizon) (*Prediction, error) {
	days, ok := HorizonDays[horizon]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHorizon, horizon)
	}

	daily, basis, err := e.trendSeries(ctx, projectID, func(b dayBucket) float64 {
		return float64(b.loggedMin)
	})
	if err != nil {
		return nil, err
	}

	slope, intercept, r2 := linearTrend(daily)

	var total float64
	for i := 0; i < days; i++ {
		v := slope*float64(len(daily)+i) + intercept
		if v < 0 {
			v = 0
		}
		total += v
	}

	now := e.now()
	return &Prediction{
		Horizon:    horizon,
		Value:      total,
		Confidence: r2,
		Basis:      basis,
		Until:      now.AddDate(0, 0, days),
	}, nil
}

func (e *Engine) trendSeries(ctx context.Context, projectID string, f func(dayBucket) float64) ([]float64, int, error) {
	w := LastDays(e.now(), trendBasisDays)

	samples, err := e.tasks.ListCompletedBetween(ctx, projectID, w.From, w.To)
	if err != nil {
		return nil, 0, fmt.Errorf("loading completion samples: %w", err)
	}
	if len(samples) == 0 {
		return nil, 0, ErrNoData
	}

	return dailyValues(bucketByDay(samples, w), f), len(samples), nil
}
