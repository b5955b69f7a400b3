// Package progress fans pipeline events out to connected observers.
package progress

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

// subscriberBuffer is the per-observer channel capacity. An observer that
// falls further behind than this loses events rather than slowing the run.
const subscriberBuffer = 64

// Broadcaster is a fire-and-forget fan-out of serialized progress events.
// There is no buffering or replay: an observer that connects mid-run only
// sees events from the point of connection onward.
type Broadcaster struct {
	logger *slog.Logger

	mu   sync.Mutex
	next int
	subs map[int]chan []byte
}

var _ ports.ProgressSink = (*Broadcaster)(nil)

// NewBroadcaster builds an empty hub.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{logger: logger, subs: map[int]chan []byte{}}
}

// Subscribe registers an observer and returns its id plus the event stream.
func (b *Broadcaster) Subscribe() (int, <-chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan []byte, subscriberBuffer)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes the observer and closes its stream.
func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish serializes the event and pushes it to every open observer.
// Sends never block: a full observer channel drops the event with a log
// line and the pipeline moves on.
func (b *Broadcaster) Publish(event domain.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal progress event", "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- payload:
		default:
			b.logger.Warn("dropping progress event for slow observer",
				"observer", id, "stage", event.Stage, "state", event.State)
		}
	}
}

// SubscriberCount reports how many observers are connected.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// NopSink discards every event. Used when progress reporting is disabled,
// e.g. for historical backfill runs.
type NopSink struct{}

var _ ports.ProgressSink = NopSink{}

// Publish drops the event.
func (NopSink) Publish(domain.ProgressEvent) {}
