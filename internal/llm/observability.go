package llm

import (
	"fmt"
	"io"
	"time"
)

// CallEvent describes one completed model call, successful or not.
type CallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer is notified after every model call. Implementations must be
// safe for concurrent use; batch extraction calls from multiple goroutines.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes one line per call to w, for debugging with
// TASKSTREAM_LLM_LOG_CALLS.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	fmt.Fprintf(o.w, "[%s] llm_call task=%s model=%s latency_ms=%d status=%s\n",
		ts, event.Task, event.Model, event.LatencyMs, status)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
