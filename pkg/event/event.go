// Package event is an in-process publish/subscribe hub.
//
// Services fire domain events after a write has been committed; listeners
// registered at boot handle side effects that must never fail the request
// (cache invalidation, metrics, audit logging).
package event

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/nomfood/storefront/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

// Bus dispatches named events to listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus { return &Bus{handlers: map[string][]Handler{}} }

var defaultBus = NewBus()

// Default returns the process-wide bus.
func Default() *Bus { return defaultBus }

// Listen registers handler for name on the default bus.
func Listen(name string, handler Handler) { defaultBus.Listen(name, handler) }

// Fire dispatches synchronously on the default bus.
func Fire(ctx context.Context, name string, payload interface{}) { defaultBus.Fire(ctx, name, payload) }

// Flush removes all listeners from the default bus.
func Flush() { defaultBus.Flush() }

func (b *Bus) Listen(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Fire calls every listener of name in registration order. A panicking
// listener is logged and skipped.
func (b *Bus) Fire(ctx context.Context, name string, payload interface{}) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[name]))
	copy(hs, b.handlers[name])
	b.mu.RUnlock()

	for _, h := range hs {
		b.call(ctx, name, h, payload)
	}
}

func (b *Bus) call(ctx context.Context, name string, h Handler, payload interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", name, "panic", rec, "stack", string(debug.Stack()))
		}
	}()
	h(ctx, payload)
}

func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}
