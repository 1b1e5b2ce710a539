package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TopicCategoriesChanged = "categories.changed"
	TopicContractsChanged  = "contracts.changed"

	redisChannel = "contractdesk:events"
)

// Event is a lightweight change notification. Consumers are expected to
// re-fetch the data they care about; the event carries no entity payload.
type Event struct {
	Topic string    `json:"topic"`
	At    time.Time `json:"at"`
}

// Hub distributes entity-change events to in-process subscribers (report
// cache invalidation, websocket sessions). With Redis configured, events
// travel through a pub/sub channel so every instance sees them; without it
// the hub degrades to process-local delivery.
type Hub struct {
	mu          sync.RWMutex
	subs        map[int]chan Event
	nextID      int
	redisClient *redis.Client
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		subs:        make(map[int]chan Event),
		redisClient: redisClient,
	}

	if redisClient != nil {
		go h.relay(context.Background())
	}

	return h
}

// Publish emits an event on the given topic. With Redis configured, delivery
// to local subscribers happens through the relay so that events from other
// instances and our own take the same path.
func (h *Hub) Publish(ctx context.Context, topic string) {
	event := Event{Topic: topic, At: time.Now()}

	if h.redisClient != nil {
		payload, err := json.Marshal(event)
		if err == nil {
			if err := h.redisClient.Publish(ctx, redisChannel, payload).Err(); err == nil {
				return
			}
			log.Printf("events: redis publish failed, falling back to local delivery")
		}
	}

	h.deliver(event)
}

// Subscribe registers a local listener. The returned cancel function must be
// called when the listener goes away.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan Event, 8)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}

func (h *Hub) deliver(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
			// Slow subscriber; drop rather than block publishers.
		}
	}
}

func (h *Hub) relay(ctx context.Context) {
	pubsub := h.redisClient.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("events: dropping malformed event payload: %v", err)
			continue
		}
		h.deliver(event)
	}
}
