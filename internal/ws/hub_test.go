package ws

import (
	"encoding/json"
	"testing"
)

func testClient(userID int64, hub *Hub, buf int) *Client {
	return &Client{UserID: userID, hub: hub, send: make(chan []byte, buf)}
}

func TestHubPushReachesAllUserConnections(t *testing.T) {
	hub := NewHub()
	a := testClient(1, hub, 4)
	b := testClient(1, hub, 4)
	other := testClient(2, hub, 4)
	hub.register(a)
	hub.register(b)
	hub.register(other)

	hub.Push(1, "gold.credited", map[string]string{"amount": "50"})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			var ev Event
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if ev.Event != "gold.credited" {
				t.Fatalf("unexpected event %q", ev.Event)
			}
		default:
			t.Fatal("expected event on every connection of user 1")
		}
	}

	select {
	case <-other.send:
		t.Fatal("user 2 must not receive user 1 events")
	default:
	}
}

func TestHubPushDropsWhenClientFull(t *testing.T) {
	hub := NewHub()
	c := testClient(7, hub, 1)
	hub.register(c)

	hub.Push(7, "a", nil)
	hub.Push(7, "b", nil) // buffer full, must not block
	if got := len(c.send); got != 1 {
		t.Fatalf("expected 1 buffered event, got %d", got)
	}
}

func TestHubUnregisterRemovesConnection(t *testing.T) {
	hub := NewHub()
	c := testClient(3, hub, 1)
	hub.register(c)
	if hub.ConnectionCount() != 1 {
		t.Fatalf("expected 1 connection, got %d", hub.ConnectionCount())
	}
	hub.unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", hub.ConnectionCount())
	}
	hub.Push(3, "x", nil)
	select {
	case <-c.send:
		t.Fatal("unregistered client must not receive events")
	default:
	}
}
