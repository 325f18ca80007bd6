package brackets

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastToRoom(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	watcher := &Client{Hub: hub, Send: make(chan []byte, 1), Room: EventRoom(3)}
	other := &Client{Hub: hub, Send: make(chan []byte, 1), Room: EventRoom(4)}
	hub.Register <- watcher
	hub.Register <- other
	require.Eventually(t, func() bool { return hub.RoomSize(EventRoom(3)) == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastToRoom(EventRoom(3), WebSocketMessage{Type: MessageStandingsUpdated, Payload: map[string]int{"group_id": 9}})

	select {
	case raw := <-watcher.Send:
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]int `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MessageStandingsUpdated, msg.Type)
		assert.Equal(t, 9, msg.Payload["group_id"])
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
	assert.Empty(t, other.Send)

	// A full buffer drops the message instead of blocking.
	hub.BroadcastToRoom(EventRoom(3), WebSocketMessage{Type: MessageStandingsUpdated})
	hub.BroadcastToRoom(EventRoom(3), WebSocketMessage{Type: MessageStandingsUpdated})
	assert.Len(t, watcher.Send, 1)

	hub.Unregister <- watcher
	require.Eventually(t, func() bool { return hub.RoomSize(EventRoom(3)) == 0 }, time.Second, 5*time.Millisecond)
	watcher.Mu.Lock()
	assert.True(t, watcher.IsClosed)
	watcher.Mu.Unlock()
}

func TestEventRoom(t *testing.T) {
	assert.Equal(t, "league_event_12", EventRoom(12))
}
