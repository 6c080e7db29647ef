package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	w := hub.Register("session-1")
	defer hub.Unregister(w)

	payload := []byte(`{"traveled_mi":1.2}`)
	hub.Broadcast("session-1", payload)

	select {
	case msg := <-w.Send:
		if string(msg) != string(payload) {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubBroadcastWrongSession(t *testing.T) {
	hub := NewHub(nil)
	w := hub.Register("session-1")
	defer hub.Unregister(w)

	hub.Broadcast("session-2", []byte("x"))
	select {
	case <-w.Send:
		t.Fatalf("watcher received a foreign session's update")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sub := client.PSubscribe(context.Background(), "nav:*:progress")
	defer sub.Close()
	if _, err := sub.Receive(context.Background()); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	hub := NewHub(client)
	hub.Broadcast("session-9", []byte("progress"))

	select {
	case msg := <-sub.Channel():
		if msg.Channel != "nav:session-9:progress" || msg.Payload != "progress" {
			t.Fatalf("unexpected redis message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for redis publish")
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if sessionIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected session id")
	}
	if sessionIDFromChannel("bad") != "" {
		t.Fatalf("expected empty session id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	w := hub.Register("session-2")
	hub.Unregister(w)
	if _, ok := <-w.Send; ok {
		t.Fatalf("expected channel closed")
	}
}
