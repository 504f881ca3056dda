package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitForConnections(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ConnectionCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("connection count = %d, want %d", hub.ConnectionCount(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPublishReachesLocalConnections(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{
		OperatorID: uuid.New(),
		Send:       make(chan []byte, 4),
	}
	hub.Register(conn)
	waitForConnections(t, hub, 1)

	hub.Publish(context.Background(), "booking_created", map[string]string{
		"contact": "Jamie Lee",
	})

	select {
	case raw := <-conn.Send:
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != "booking_created" {
			t.Errorf("type = %q, want booking_created", ev.Type)
		}
		payload, ok := ev.Payload.(map[string]interface{})
		if !ok || payload["contact"] != "Jamie Lee" {
			t.Errorf("payload = %#v", ev.Payload)
		}
		if ev.At.IsZero() {
			t.Error("event timestamp not set")
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestPublishSkipsFullBuffers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	full := &Connection{OperatorID: uuid.New(), Send: make(chan []byte)}
	open := &Connection{OperatorID: uuid.New(), Send: make(chan []byte, 1)}
	hub.Register(full)
	hub.Register(open)
	waitForConnections(t, hub, 2)

	// Must not block on the unbuffered connection
	done := make(chan struct{})
	go func() {
		hub.Publish(context.Background(), "quote_sent", nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow client")
	}

	select {
	case <-open.Send:
	case <-time.After(time.Second):
		t.Fatal("healthy client did not receive event")
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{OperatorID: uuid.New(), Send: make(chan []byte, 1)}
	hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	if n := hub.ConnectionCount(); n != 0 {
		t.Errorf("connection count = %d, want 0", n)
	}
}
