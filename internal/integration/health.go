package integration

import (
	"sync"
	"time"
)

// health tracks per-adapter delivery statistics behind a mutex.
type health struct {
	mu          sync.Mutex
	total       int
	failed      int
	lastSync    time.Time
	lastErrorAt time.Time
	lastErrMsg  string
}

func (h *health) recordSuccess(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total++
	h.lastSync = now
}

func (h *health) recordFailure(now time.Time, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total++
	h.failed++
	h.lastErrorAt = now
	if err != nil {
		h.lastErrMsg = err.Error()
	}
}

// fill copies the counters into a status report. With no calls recorded the
// success rate reads 1.0.
func (h *health) fill(s *Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s.ErrorCount = h.failed
	s.LastSync = h.lastSync
	s.LastErrorAt = h.lastErrorAt
	s.LastError = h.lastErrMsg
	if h.total == 0 {
		s.SuccessRate = 1.0
		return
	}
	s.SuccessRate = float64(h.total-h.failed) / float64(h.total)
}
