package analytics

import (
	"math"
	"time"

	"github.com/taskstream/taskstream/internal/repository"
)

// dayBucket accumulates completion data for one calendar day (UTC).
type dayBucket struct {
	day         time.Time
	completed   int
	estimateMin int
	loggedMin   int
	assignees   map[string]bool
}

// bucketByDay groups samples into one bucket per day across the window,
// including empty days so series math sees real zeroes.
func bucketByDay(samples []repository.CompletionSample, w Window) []dayBucket {
	start := w.From.UTC().Truncate(24 * time.Hour)
	days := int(math.Ceil(w.To.UTC().Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}

	buckets := make([]dayBucket, days)
	for i := range buckets {
		buckets[i] = dayBucket{
			day:       start.AddDate(0, 0, i),
			assignees: make(map[string]bool),
		}
	}

	for _, s := range samples {
		i := int(s.CompletedAt.UTC().Sub(start).Hours() / 24)
		if i < 0 || i >= days {
			continue
		}
		b := &buckets[i]
		b.completed++
		b.estimateMin += s.EstimateMin
		b.loggedMin += s.LoggedMin
		if s.Assignee != "" {
			b.assignees[s.Assignee] = true
		}
	}

	return buckets
}

func distinctAssignees(samples []repository.CompletionSample) int {
	seen := make(map[string]bool)
	for _, s := range samples {
		if s.Assignee != "" {
			seen[s.Assignee] = true
		}
	}
	return len(seen)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// seriesCI returns a 95% confidence interval around the series mean.
// With fewer than two points it falls back to a flat five percent band.
func seriesCI(value float64, xs []float64) (lo, hi float64) {
	if len(xs) < 2 {
		return value * 0.95, value * 1.05
	}
	se := sampleStddev(xs) / math.Sqrt(float64(len(xs)))
	margin := 1.96 * se
	return value - margin, value + margin
}

// linearTrend fits y = slope*x + intercept by least squares over equally
// spaced points. Returns r squared as a goodness-of-fit signal.
func linearTrend(ys []float64) (slope, intercept, r2 float64) {
	n := float64(len(ys))
	if n == 0 {
		return 0, 0, 0
	}
	if n == 1 {
		return 0, ys[0], 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, mean(ys), 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	// r^2 against the mean model
	yMean := sumY / n
	var ssRes, ssTot float64
	for i, y := range ys {
		fit := slope*float64(i) + intercept
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - yMean) * (y - yMean)
	}
	if ssTot == 0 {
		return slope, intercept, 0
	}
	return slope, intercept, 1 - ssRes/ssTot
}
