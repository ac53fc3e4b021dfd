package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Event is anything published on the bus. Name must be stable for a type.
type Event interface {
	EventName() string
}

type Handler func(ctx context.Context, event Event) error

type subscription struct {
	handler Handler
	async   bool
}

// Bus dispatches typed in-process events. Synchronous handlers run in the
// publisher's goroutine, in subscription order, and their errors are returned
// from Publish. Asynchronous handlers run on their own goroutine and only log.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]subscription
	wg          sync.WaitGroup
	logger      *slog.Logger
}

func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]subscription),
		logger:      logger,
	}
}

// Subscribe registers a synchronous handler for events of type E.
func Subscribe[E Event](b *Bus, fn func(ctx context.Context, event E) error) {
	b.add(nameOf[E](), wrap(fn), false)
}

// SubscribeAsync registers a fire-and-forget handler for events of type E.
func SubscribeAsync[E Event](b *Bus, fn func(ctx context.Context, event E) error) {
	b.add(nameOf[E](), wrap(fn), true)
}

func (b *Bus) add(name string, h Handler, async bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[name] = append(b.subscribers[name], subscription{handler: h, async: async})
}

// Publish delivers event to every subscriber of its name.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subscribers[event.EventName()]...)
	b.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if sub.async {
			b.wg.Add(1)
			go b.runAsync(context.WithoutCancel(ctx), sub.handler, event)
			continue
		}
		if err := sub.handler(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler: %w", event.EventName(), err))
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) runAsync(ctx context.Context, h Handler, event Event) {
	defer b.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			b.logger.Error("async event handler panicked",
				slog.String("event", event.EventName()),
				slog.Any("panic", p),
			)
		}
	}()

	if err := h(ctx, event); err != nil {
		b.logger.Warn("async event handler failed",
			slog.String("event", event.EventName()),
			slog.Any("error", err),
		)
	}
}

// Wait blocks until all in-flight asynchronous handlers return.
func (b *Bus) Wait() {
	b.wg.Wait()
}

// SubscriberCount returns how many handlers are registered for name.
func (b *Bus) SubscriberCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[name])
}

func nameOf[E Event]() string {
	var zero E
	return zero.EventName()
}

func wrap[E Event](fn func(ctx context.Context, event E) error) Handler {
	return func(ctx context.Context, event Event) error {
		typed, ok := event.(E)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", event, event.EventName())
		}
		return fn(ctx, typed)
	}
}
