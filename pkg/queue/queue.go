// Package queue runs background jobs with retry.
//
// A job is any JSON-serialisable type with a Handle method. Its dependencies
// are attached by the factory passed to Register, so only the payload
// travels through the driver:
//
//	queue.Register(queue.TypeName(&RecomputeRatingJob{}), func() queue.Job {
//	    return &RecomputeRatingJob{ratings: svc}
//	})
//	queue.Dispatch(ctx, &RecomputeRatingJob{ProductID: id})
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/metrics"
	"github.com/nomfood/storefront/pkg/workerpool"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	Handle(ctx context.Context) error
}

// Driver is the queue storage backend. Pop returns (nil, nil) when it timed
// out without a job.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// DelayedDriver can hold a job until its run time.
type DelayedDriver interface {
	PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error
}

// runner is implemented by drivers with background housekeeping.
type runner interface {
	Run(ctx context.Context)
}

// FailedJob is a job that exhausted its retries.
type FailedJob struct {
	Type     string    `bson:"jobType"  json:"jobType"`
	Payload  string    `bson:"payload"  json:"payload"`
	Error    string    `bson:"error"    json:"error"`
	Attempts int       `bson:"attempts" json:"attempts"`
	FailedAt time.Time `bson:"failedAt" json:"failedAt"`
}

// FailedStore persists jobs that exhausted their retries.
type FailedStore interface {
	Save(ctx context.Context, f FailedJob) error
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns a driver, the job registry and the retry policy.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	store    FailedStore
	failed   []FailedJob
	maxRetry int
	backoff  func(attempt int) time.Duration
}

// NewManager returns a manager with three attempts and linear backoff.
func NewManager(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
}

var defaultManager = NewManager(NewMemoryDriver())

// Default returns the process-wide manager.
func Default() *Manager { return defaultManager }

// TypeName is the registry key for job.
func TypeName(job Job) string { return fmt.Sprintf("%T", job) }

func SetDriver(d Driver) { defaultManager.SetDriver(d) }
func SetMaxRetry(n int) { defaultManager.SetMaxRetry(n) }
func UseFailedStore(s FailedStore) { defaultManager.UseFailedStore(s) }
func Register(name string, factory func() Job) { defaultManager.Register(name, factory) }
func Dispatch(ctx context.Context, job Job) error { return defaultManager.Dispatch(ctx, job) }
func Work(ctx context.Context, workers int) { defaultManager.Work(ctx, workers) }
func FailedJobs() []FailedJob { return defaultManager.FailedJobs() }
func DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	return defaultManager.DispatchAfter(ctx, job, delay)
}

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	m.driver = d
	m.mu.Unlock()
}

func (m *Manager) SetMaxRetry(n int) {
	m.mu.Lock()
	m.maxRetry = n
	m.mu.Unlock()
}

// SetBackoff replaces the wait between attempts.
func (m *Manager) SetBackoff(f func(attempt int) time.Duration) {
	m.mu.Lock()
	m.backoff = f
	m.mu.Unlock()
}

func (m *Manager) UseFailedStore(s FailedStore) {
	m.mu.Lock()
	m.store = s
	m.mu.Unlock()
}

// Register makes a job type available for decoding by name.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

func encode(job Job) ([]byte, error) {
	typeName := TypeName(job)
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", typeName, err)
	}
	env, err := json.Marshal(envelope{Type: typeName, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

// Dispatch pushes job onto the queue.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	raw, err := encode(job)
	if err != nil {
		return err
	}
	return m.currentDriver().Push(ctx, raw)
}

// DispatchAfter holds job for delay. Drivers without delayed support get a
// timer goroutine, which does not survive a restart.
func (m *Manager) DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	raw, err := encode(job)
	if err != nil {
		return err
	}
	d := m.currentDriver()
	if dd, ok := d.(DelayedDriver); ok {
		return dd.PushDelayed(ctx, raw, delay)
	}
	time.AfterFunc(delay, func() {
		if err := d.Push(context.Background(), raw); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
	})
	return nil
}

// Work pops jobs and runs them on a pool of workers until ctx is done, then
// waits for running jobs to finish.
func (m *Manager) Work(ctx context.Context, workers int) {
	pool := workerpool.New("queue", workers)
	defer pool.Shutdown()

	d := m.currentDriver()
	if r, ok := d.(runner); ok {
		go r.Run(ctx)
	}
	logger.Info("queue: workers started", "count", workers)

	for {
		raw, err := d.Pop(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		if err := pool.SubmitCtx(ctx, func() { m.process(ctx, raw) }); err != nil {
			// not started: put it back for the next worker process
			if perr := d.Push(context.Background(), raw); perr != nil {
				logger.Error("queue: requeue failed", "error", perr)
			}
			return
		}
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}
	m.runWithRetry(ctx, job, env)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, env envelope) {
	m.mu.RLock()
	maxRetry, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.Debug("queue: job processed", "type", env.Type, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < maxRetry && !sleep(ctx, backoff(attempt)) {
			break
		}
	}

	metrics.RecordQueueJob(env.Type, "failed", start)
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
	if lastErr == nil {
		lastErr = errors.New("not attempted")
	}
	m.persistFailed(FailedJob{
		Type:     env.Type,
		Payload:  string(env.Payload),
		Error:    lastErr.Error(),
		Attempts: maxRetry,
		FailedAt: time.Now(),
	})
}

// FailedJobs returns the failures seen by this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}

// sleep waits d or until ctx is done. Reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
