package analytics

import (
	"fmt"

	"github.com/taskstream/taskstream/internal/domain"
)

const (
	// overAllocationThreshold flags teams running too close to capacity.
	overAllocationThreshold = 0.85
	// underUtilizationThreshold flags teams with idle capacity.
	underUtilizationThreshold = 0.30
	// overrunThreshold flags work that consistently exceeds estimates.
	overrunThreshold = 0.80
	// reviewPileupRatio flags review queues outgrowing active work.
	reviewPileupRatio = 1.5
)

// generateInsights derives health observations from a project summary.
func generateInsights(s *ProjectSummary) []Insight {
	var insights []Insight

	for _, m := range s.Metrics {
		switch m.Type {
		case MetricUtilization:
			if m.Value > overAllocationThreshold {
				insights = append(insights, Insight{
					Severity: SeverityCritical,
					Category: "resource",
					Message:  fmt.Sprintf("utilization at %.0f%% indicates over-allocation risk", m.Value*100),
					Value:    m.Value,
				})
			} else if m.Value < underUtilizationThreshold {
				insights = append(insights, Insight{
					Severity: SeverityInfo,
					Category: "resource",
					Message:  fmt.Sprintf("utilization at %.0f%% leaves capacity for more work", m.Value*100),
					Value:    m.Value,
				})
			}

		case MetricEfficiency:
			if m.Value < overrunThreshold {
				insights = append(insights, Insight{
					Severity: SeverityWarning,
					Category: "estimation",
					Message:  fmt.Sprintf("completed work ran %.0f%% over estimate", (1/m.Value-1)*100),
					Value:    m.Value,
				})
			}

		case MetricVelocity:
			if m.Value == 0 {
				insights = append(insights, Insight{
					Severity: SeverityWarning,
					Category: "delivery",
					Message:  "no tasks completed in the reporting window",
					Value:    0,
				})
			}
		}
	}

	inReview := s.StatusCounts[domain.TaskInReview]
	inProgress := s.StatusCounts[domain.TaskInProgress]
	if inReview > 0 && float64(inReview) > float64(inProgress)*reviewPileupRatio {
		insights = append(insights, Insight{
			Severity: SeverityWarning,
			Category: "flow",
			Message:  fmt.Sprintf("%d tasks waiting in review against %d in progress", inReview, inProgress),
			Value:    float64(inReview),
		})
	}

	return insights
}
