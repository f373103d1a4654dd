package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskstream/taskstream/internal/config"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/repository"
	"go.uber.org/zap"
)

var (
	// ErrAdapterRegistered is returned when registering a duplicate name.
	ErrAdapterRegistered = errors.New("adapter already registered")

	// ErrAdapterNotFound is returned when sending through an unknown adapter.
	ErrAdapterNotFound = errors.New("adapter not registered")
)

// pendingBatchSize bounds how many queued notifications one sync pass drains.
const pendingBatchSize = 100

// initialBackoff is the first retry delay inside a sync pass.
const initialBackoff = time.Second

// SyncManager owns the registered adapters and the background loop that
// drains queued notifications through them.
type SyncManager struct {
	mu       sync.RWMutex
	adapters map[string]Adapter

	cfg           config.SyncConfig
	notifications repository.NotificationRepo
	runs          repository.SyncRunRepo
	log           *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time

	// reload carries interval changes to a running loop.
	reload chan time.Duration
}

// NewSyncManager creates a manager over the notification queue.
func NewSyncManager(cfg config.SyncConfig, notifications repository.NotificationRepo, runs repository.SyncRunRepo, log *zap.Logger) *SyncManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncManager{
		adapters:      make(map[string]Adapter),
		cfg:           cfg,
		notifications: notifications,
		runs:          runs,
		log:           log,
		now:           time.Now,
		reload:        make(chan time.Duration, 1),
	}
}

// SetInterval changes how often the background loop runs. A running loop
// picks the new interval up immediately; non-positive values are ignored.
func (m *SyncManager) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.cfg.Interval = config.Duration(d)
	m.mu.Unlock()

	select {
	case m.reload <- d:
	default:
		// A pending change is already queued; the loop reads the latest
		// interval from cfg when it drains the channel.
	}
}

func (m *SyncManager) interval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Interval.Std()
}

// Register adds an adapter under its name. Duplicate names are rejected.
func (m *SyncManager) Register(a Adapter) error {
	if a == nil || a.Name() == "" {
		return errors.New("invalid adapter registration")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.adapters[a.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrAdapterRegistered, a.Name())
	}
	m.adapters[a.Name()] = a
	return nil
}

// Start launches the background sync loop. It returns immediately; Stop
// cancels the loop and waits for it to drain.
func (m *SyncManager) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.loop(ctx)
	}()
}

// Stop cancels the loop and blocks until the current pass finishes.
func (m *SyncManager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *SyncManager) loop(ctx context.Context) {
	ticker := time.NewTicker(m.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.reload:
			ticker.Reset(m.interval())
		case <-ticker.C:
			m.SyncOnce(ctx)
		}
	}
}

// SyncOnce drains pending notifications through every registered adapter
// and records one sync run per adapter.
func (m *SyncManager) SyncOnce(ctx context.Context) {
	pending, err := m.notifications.ListPending(ctx, pendingBatchSize)
	if err != nil {
		m.log.Error("listing pending notifications", zap.Error(err))
		return
	}

	byChannel := make(map[string][]*domain.Notification)
	for _, n := range pending {
		byChannel[string(n.Channel)] = append(byChannel[string(n.Channel)], n)
	}

	m.mu.RLock()
	adapters := make([]Adapter, 0, len(m.adapters))
	for _, a := range m.adapters {
		adapters = append(adapters, a)
	}
	m.mu.RUnlock()

	for _, a := range adapters {
		if ctx.Err() != nil {
			return
		}
		m.syncAdapter(ctx, a, byChannel[a.Name()])
	}
}

func (m *SyncManager) syncAdapter(ctx context.Context, a Adapter, queue []*domain.Notification) {
	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		Adapter:   a.Name(),
		StartedAt: m.now(),
	}
	if err := m.runs.Create(ctx, run); err != nil {
		m.log.Error("recording sync run", zap.String("adapter", a.Name()), zap.Error(err))
		return
	}

	var lastErr error
	for _, n := range queue {
		err := m.retryWithBackoff(ctx, func() error {
			return a.Send(ctx, FromNotification(n))
		})
		now := m.now()
		if err != nil {
			lastErr = err
			n.MarkFailed(err, now)
			m.log.Warn("notification delivery failed",
				zap.String("adapter", a.Name()),
				zap.String("notification", n.ID),
				zap.Error(err))
		} else {
			n.MarkSent(now)
			run.SentCount++
		}
		if updateErr := m.notifications.Update(ctx, n); updateErr != nil {
			m.log.Error("updating notification", zap.String("notification", n.ID), zap.Error(updateErr))
		}
	}

	finished := m.now()
	run.FinishedAt = &finished
	run.Success = lastErr == nil
	if lastErr != nil {
		run.Error = lastErr.Error()
	}
	if err := m.runs.Finish(ctx, run); err != nil {
		m.log.Error("finishing sync run", zap.String("adapter", a.Name()), zap.Error(err))
	}

	m.log.Info("sync pass complete",
		zap.String("adapter", a.Name()),
		zap.Int("sent", run.SentCount),
		zap.Bool("success", run.Success))
}

// retryWithBackoff runs op with exponential backoff until it succeeds, the
// configured attempts run out, or the context is cancelled.
func (m *SyncManager) retryWithBackoff(ctx context.Context, op func() error) error {
	attempts := m.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := initialBackoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err = op(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= time.Duration(m.cfg.BackoffFactor)
		if limit := m.cfg.MaxBackoff.Std(); limit > 0 && backoff > limit {
			backoff = limit
		}
	}
	return err
}

// Send delivers one message through a named adapter immediately, outside
// the background loop.
func (m *SyncManager) Send(ctx context.Context, name string, msg Message) error {
	m.mu.RLock()
	a, ok := m.adapters[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrAdapterNotFound, name)
	}
	return a.Send(ctx, msg)
}

// Statuses reports the health of every registered adapter.
func (m *SyncManager) Statuses(ctx context.Context) map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Status, len(m.adapters))
	for name, a := range m.adapters {
		out[name] = a.Status(ctx)
	}
	return out
}
