package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taskstream/taskstream/internal/integration"
)

// FormatStatuses renders the adapter health table shown by "taskstream status".
func FormatStatuses(statuses map[string]integration.Status) string {
	if len(statuses) == 0 {
		return StyleDim.Render("no integrations configured") + "\n"
	}

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(StyleHeader.Render("Integrations") + "\n\n")
	for _, name := range names {
		s := statuses[name]
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			StyleBold.Render(padRight(name, 10)),
			StyleDim.Render(padRight(s.Kind, 14)),
			ConnIndicator(s.Connected)))
		b.WriteString(fmt.Sprintf("  breaker %s   success %s   errors %d\n",
			BreakerIndicator(s.BreakerState),
			successStyle(s.SuccessRate).Render(fmt.Sprintf("%.0f%%", s.SuccessRate*100)),
			s.ErrorCount))
		if !s.LastSync.IsZero() {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  last sync %s ago", time.Since(s.LastSync).Round(time.Second))) + "\n")
		}
		if s.LastError != "" {
			b.WriteString(StyleRed.Render("  last error: "+s.LastError) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func successStyle(rate float64) interface{ Render(...string) string } {
	switch {
	case rate >= 0.9:
		return StyleGreen
	case rate >= 0.5:
		return StyleYellow
	default:
		return StyleRed
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
