package progress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
)

func TestBroadcasterDeliversToAllSubscribers(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(nil)
	_, first := b.Subscribe()
	_, second := b.Subscribe()

	b.Publish(domain.ProgressEvent{Stage: domain.StageKeyword, State: domain.StateStarted, Keyword: "acme"})

	for _, ch := range []<-chan []byte{first, second} {
		select {
		case payload := <-ch:
			var event domain.ProgressEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if event.Keyword != "acme" || event.Stage != domain.StageKeyword {
				t.Fatalf("unexpected event: %+v", event)
			}
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestBroadcasterNeverBlocksOnSlowObserver(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(nil)
	b.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*3; i++ {
			b.Publish(domain.ProgressEvent{Stage: domain.StageRun, State: domain.StateStarted})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow observer")
	}
}

func TestBroadcasterUnsubscribeClosesStream(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(nil)
	id, ch := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	b.Unsubscribe(id)
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", b.SubscriberCount())
	}

	if _, open := <-ch; open {
		t.Fatal("channel should be closed after unsubscribe")
	}

	// Publishing after the last observer left is a no-op.
	b.Publish(domain.ProgressEvent{Stage: domain.StageRun, State: domain.StateCompleted})
}

func TestNopSink(t *testing.T) {
	t.Parallel()
	NopSink{}.Publish(domain.ProgressEvent{Stage: domain.StageRun})
}
