// File: /events/bus.go
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler reacts to an event inside the caller's transaction.
type Handler func(ctx context.Context, tx *gorm.DB, e Event) error

// Publisher fans committed events out of the process.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Bus struct {
	mu        sync.RWMutex
	handlers  map[string][]Handler
	publisher Publisher
	log       logrus.FieldLogger
}

func NewBus(publisher Publisher, log logrus.FieldLogger) *Bus {
	return &Bus{
		handlers:  make(map[string][]Handler),
		publisher: publisher,
		log:       log,
	}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Dispatch runs every handler for e in subscription order and stops at the
// first failure, so the surrounding transaction rolls back.
func (b *Bus) Dispatch(ctx context.Context, tx *gorm.DB, e Event) error {
	b.mu.RLock()
	handlers := b.handlers[e.Name()]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, tx, e); err != nil {
			return fmt.Errorf("handle %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Publish forwards a committed event. Failures are logged, never returned.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, e); err != nil {
		b.log.WithError(err).WithField("event", e.Name()).Warn("Failed to publish event")
	}
}

func (b *Bus) Close() error {
	if b.publisher == nil {
		return nil
	}
	return b.publisher.Close()
}

// LogPublisher writes events to the log; used when no broker is configured.
type LogPublisher struct {
	Log logrus.FieldLogger
}

func (p LogPublisher) Publish(_ context.Context, e Event) error {
	p.Log.WithField("event", e.Name()).Debugf("%+v", e)
	return nil
}

func (p LogPublisher) Close() error { return nil }
