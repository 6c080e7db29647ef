package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans navigation progress updates out to websocket watchers. With a
// redis client it also bridges updates across instances, so a watcher can
// follow a session ticked elsewhere.
type Hub struct {
	redis    *redis.Client
	watchers map[string]map[*Watcher]struct{}
	mu       sync.RWMutex
}

type Watcher struct {
	SessionID string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:    redisClient,
		watchers: map[string]map[*Watcher]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(sessionID string) *Watcher {
	w := &Watcher{
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watchers[sessionID] == nil {
		h.watchers[sessionID] = map[*Watcher]struct{}{}
	}
	h.watchers[sessionID][w] = struct{}{}
	return w
}

func (h *Hub) Unregister(w *Watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessionWatchers, ok := h.watchers[w.SessionID]; ok {
		delete(sessionWatchers, w)
		if len(sessionWatchers) == 0 {
			delete(h.watchers, w.SessionID)
		}
	}
	close(w.Send)
}

// Broadcast delivers one progress payload to local watchers and publishes
// it for other instances. Slow watchers drop updates rather than block.
func (h *Hub) Broadcast(sessionID string, payload []byte) {
	h.mu.RLock()
	for w := range h.watchers[sessionID] {
		select {
		case w.Send <- payload:
		default:
		}
	}
	h.mu.RUnlock()

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(sessionID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "nav:*:progress")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		sessionID := sessionIDFromChannel(msg.Channel)
		h.mu.RLock()
		for w := range h.watchers[sessionID] {
			select {
			case w.Send <- []byte(msg.Payload):
			default:
			}
		}
		h.mu.RUnlock()
	}
}

func redisChannel(sessionID string) string {
	return "nav:" + sessionID + ":progress"
}

func sessionIDFromChannel(ch string) string {
	// nav:{session}:progress
	const prefix = "nav:"
	const suffix = ":progress"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
