package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegisterReplaces(t *testing.T) {
	h := NewHub()
	uid := uuid.New()

	first := NewClient(uid, nil)
	require.Nil(t, h.Register(first))

	second := NewClient(uid, nil)
	require.Same(t, first, h.Register(second))

	got, ok := h.Lookup(uid)
	require.True(t, ok)
	require.Same(t, second, got)
	require.Equal(t, 1, h.Count())
}

func TestRemoveStaleKeepsNewer(t *testing.T) {
	h := NewHub()
	uid := uuid.New()

	first := NewClient(uid, nil)
	second := NewClient(uid, nil)
	h.Register(first)
	h.Register(second)

	require.False(t, h.Remove(first))

	got, ok := h.Lookup(uid)
	require.True(t, ok)
	require.Same(t, second, got)

	require.True(t, h.Remove(second))
	_, ok = h.Lookup(uid)
	require.False(t, ok)
	require.Equal(t, 0, h.Count())
}

func TestRemoveClosesSendOnce(t *testing.T) {
	h := NewHub()
	c := NewClient(uuid.New(), nil)
	h.Register(c)

	h.Remove(c)
	h.Remove(c)

	_, open := <-c.Send
	require.False(t, open)
	require.False(t, c.Deliver([]byte("late")))
}

func TestSendToUser(t *testing.T) {
	h := NewHub()
	uid := uuid.New()

	require.False(t, h.SendToUser(uid, map[string]string{"type": "chat"}))

	c := NewClient(uid, nil)
	h.Register(c)
	require.True(t, h.SendToUser(uid, map[string]string{"type": "chat"}))

	var frame map[string]string
	require.NoError(t, json.Unmarshal(<-c.Send, &frame))
	require.Equal(t, "chat", frame["type"])
}

func TestSendToUserDropsWhenFull(t *testing.T) {
	h := NewHub()
	uid := uuid.New()
	c := NewClient(uid, nil)
	h.Register(c)

	for i := 0; i < sendBuffer; i++ {
		require.True(t, h.SendToUser(uid, i))
	}
	require.False(t, h.SendToUser(uid, "overflow"))
}

func TestSendToConversationSameUserOnce(t *testing.T) {
	h := NewHub()
	uid := uuid.New()
	c := NewClient(uid, nil)
	h.Register(c)

	h.SendToConversation(uid, uid, "hi")
	require.Len(t, c.Send, 1)
}

func TestConcurrentAccess(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := NewClient(uuid.New(), nil)
			h.Register(c)
			h.SendToUser(c.UserID, "ping")
			h.Remove(c)
		}()
	}
	wg.Wait()
	require.Equal(t, 0, h.Count())
}
