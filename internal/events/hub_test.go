package events

import (
	"context"
	"testing"
	"time"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub(nil)

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	hub.Publish(context.Background(), TopicCategoriesChanged)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case event := <-ch:
			if event.Topic != TopicCategoriesChanged {
				t.Errorf("subscriber %d got topic %q", i, event.Topic)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d got no event", i)
		}
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub(nil)

	ch, cancel := hub.Subscribe()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}

	// Publishing after cancel must not panic.
	hub.Publish(context.Background(), TopicContractsChanged)

	// Cancel is idempotent.
	cancel()
}

func TestHubDropsEventsForSlowSubscribers(t *testing.T) {
	hub := NewHub(nil)

	_, cancel := hub.Subscribe()
	defer cancel()

	// Nobody reads; the buffer fills and publishers still return.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Publish(context.Background(), TopicContractsChanged)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
