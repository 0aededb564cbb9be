package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyThatUser(t *testing.T) {
	hub := NewHub()
	alice, stopAlice := hub.Subscribe("alice")
	defer stopAlice()
	bob, stopBob := hub.Subscribe("bob")
	defer stopBob()

	hub.Publish("alice", Event{UserID: "alice", Event: "status", Data: "checked_in"})

	select {
	case e := <-alice:
		assert.Equal(t, "status", e.Event)
		assert.Equal(t, "checked_in", e.Data)
	default:
		t.Fatal("expected event for alice")
	}
	assert.Empty(t, bob)
}

func TestHub_SlowSubscriberKeepsNewest(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("u1")
	defer cleanup()

	for i := 0; i < subscriberBuffer+3; i++ {
		hub.Publish("u1", Event{Event: "status", Data: i})
	}

	require.Len(t, ch, subscriberBuffer)
	var last Event
	for len(ch) > 0 {
		last = <-ch
	}
	assert.Equal(t, subscriberBuffer+2, last.Data)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("u1")
	assert.Equal(t, 1, hub.SubscriberCount("u1"))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("u1"))
	_, ok := <-ch
	assert.False(t, ok)
}

func TestHub_PublishToMany(t *testing.T) {
	hub := NewHub()
	a, stopA := hub.Subscribe("a")
	defer stopA()
	b, stopB := hub.Subscribe("b")
	defer stopB()

	hub.PublishToMany([]string{"a", "b", "nobody"}, Event{Event: "open_shifts", Data: 2})

	assert.Equal(t, "a", (<-a).UserID)
	assert.Equal(t, "b", (<-b).UserID)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("u1")

	hub.Close()
	_, ok := <-ch
	assert.False(t, ok)
	cleanup()

	late, _ := hub.Subscribe("u2")
	_, ok = <-late
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount("u2"))
}
