package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/memo-backend/internal/platform/logger"
)

// inprocBus fans events out to forwarders in the same process. Used when no
// redis is configured and in tests.
type inprocBus struct {
	log *logger.Logger

	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
	buffer int
}

func NewInProcBus(log *logger.Logger, buffer int) Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &inprocBus{
		log:    log.With("service", "InProcEventBus"),
		subs:   map[int]chan Event{},
		buffer: buffer,
	}
}

func (b *inprocBus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus closed")
	}
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		case <-ctx.Done():
			return ctx.Err()
		default:
			b.log.Warn("dropping event for slow forwarder", "forwarder", id, "kind", ev.Kind)
		}
	}
	return nil
}

func (b *inprocBus) StartForwarder(ctx context.Context, onEvent func(ev Event)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("event bus closed")
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.unsubscribe(id)
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *inprocBus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *inprocBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}
