// Package realtime fans row change events out to dashboard views.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/samims/stillup/internal/metrics"
	"github.com/samims/stillup/internal/model"
)

// Filter selects the events a subscription receives. An empty Event or
// model.EventAll matches every event type on Table.
type Filter struct {
	Table string
	Event model.EventType
}

func (f Filter) matches(evt model.ChangeEvent) bool {
	if f.Table != evt.Table {
		return false
	}
	return f.Event == "" || f.Event == model.EventAll || f.Event == evt.Type
}

// Subscriber is the subscription side of the hub.
type Subscriber interface {
	Subscribe(ctx context.Context, f Filter) (<-chan model.ChangeEvent, func())
}

type subscription struct {
	filter Filter
	ch     chan model.ChangeEvent
}

type Hub struct {
	mu         sync.RWMutex
	subs       map[string]*subscription
	bufferSize int
	logger     *slog.Logger
}

func NewHub(bufferSize int, logger *slog.Logger) *Hub {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Hub{
		subs:       make(map[string]*subscription),
		bufferSize: bufferSize,
		logger:     logger.With("layer", "realtime", "component", "hub"),
	}
}

// Subscribe registers a buffered subscription. The returned func releases it
// and closes the channel; it is safe to call more than once and is called
// automatically when ctx ends.
func (h *Hub) Subscribe(ctx context.Context, f Filter) (<-chan model.ChangeEvent, func()) {
	id := uuid.NewString()
	sub := &subscription{filter: f, ch: make(chan model.ChangeEvent, h.bufferSize)}

	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()
	h.logger.Debug("subscription added", slog.String("id", id), slog.String("table", f.Table), slog.String("event", string(f.Event)))

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			close(sub.ch)
			h.mu.Unlock()
			h.logger.Debug("subscription removed", slog.String("id", id))
		})
	}
	stop := context.AfterFunc(ctx, unsubscribe)
	return sub.ch, func() {
		stop()
		unsubscribe()
	}
}

// Publish delivers evt to every matching subscription without blocking. A
// subscriber with a full buffer misses the event.
func (h *Hub) Publish(evt model.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, sub := range h.subs {
		if !sub.filter.matches(evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			metrics.DroppedEvents.Inc()
			h.logger.Warn("subscriber buffer full, dropping event",
				slog.String("id", id),
				slog.String("type", string(evt.Type)))
		}
	}
}

// Len reports the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
