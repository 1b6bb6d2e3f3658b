package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/event"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	h.Start()
	t.Cleanup(h.Stop)
	return h
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev, ok := <-c.EventChannel:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHubBroadcastFilters(t *testing.T) {
	h := startHub(t)
	all := h.Register(nil)
	onlyStops := h.Register([]string{string(event.ReelsStopped)})
	waitForClients(t, h, 2)

	h.Broadcast(string(event.RoundStarted), "a")
	h.Broadcast(string(event.ReelsStopped), "b")

	assert.Equal(t, "a", receive(t, all).Payload)
	assert.Equal(t, "b", receive(t, all).Payload)
	got := receive(t, onlyStops)
	assert.Equal(t, string(event.ReelsStopped), got.Type)
	assert.NotEmpty(t, got.ID)
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	h := startHub(t)
	c := h.Register(nil)
	waitForClients(t, h, 1)

	h.Unregister(c.ID)
	waitForClients(t, h, 0)
	_, ok := <-c.EventChannel
	assert.False(t, ok)
}

func TestHubStop(t *testing.T) {
	h := NewHub()
	h.Start()
	c := h.Register(nil)
	waitForClients(t, h, 1)

	h.Stop()
	h.Stop()

	_, ok := <-c.EventChannel
	assert.False(t, ok)

	late := h.Register(nil)
	_, ok = <-late.EventChannel
	assert.False(t, ok, "registering after stop yields a closed channel")
	h.Unregister(late.ID)
}

func TestHubRegisterAfterStopAlwaysClosed(t *testing.T) {
	h := NewHub()
	h.Start()
	h.Stop()

	for i := 0; i < 50; i++ {
		c := h.Register([]string{"ui.popup"})
		select {
		case _, ok := <-c.EventChannel:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatalf("client %d registered after stop was never closed", i)
		}
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestHubRegisterStopRace(t *testing.T) {
	h := NewHub()
	h.Start()

	clients := make(chan *Client, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clients <- h.Register(nil)
		}()
	}
	h.Stop()
	wg.Wait()
	close(clients)

	for c := range clients {
		select {
		case _, ok := <-c.EventChannel:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("client left open after stop")
		}
	}
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "1", Type: "ui.popup", Timestamp: 5, Payload: map[string]int{"x": 1}})
	require.NoError(t, err)
	assert.Equal(t, "id: 1\nevent: ui.popup\ndata: {\"id\":\"1\",\"type\":\"ui.popup\",\"timestamp\":5,\"payload\":{\"x\":1}}\n\n", string(msg))
}

func TestSubscriberForwardsBusEvents(t *testing.T) {
	h := startHub(t)
	bus := event.NewMemoryBus()
	NewSubscriber(h, bus).Subscribe()
	c := h.Register(nil)
	waitForClients(t, h, 1)

	require.NoError(t, bus.Publish(context.Background(), event.NewForceStoppedEvent("r7", true).WithSessionID("s1")))

	got := receive(t, c)
	assert.Equal(t, string(event.ForceStopped), got.Type)
	payload, ok := got.Payload.(BusEventPayload)
	require.True(t, ok)
	assert.Equal(t, "s1", payload.SessionID)
	assert.Equal(t, "r7", payload.RoundID)
	assert.Equal(t, event.ForceStoppedPayloadV1{RoundID: "r7", AfterStopData: true}, payload.Data)
}

func TestHandlerStreams(t *testing.T) {
	h := startHub(t)
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?types=ui.popup", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	next := func() Event {
		t.Helper()
		var data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			if line == "" && data != "" {
				var ev Event
				require.NoError(t, json.Unmarshal([]byte(data), &ev))
				return ev
			}
			if v, ok := strings.CutPrefix(line, "data: "); ok {
				data = v
			}
		}
	}

	connected := next()
	assert.Equal(t, EventTypeConnected, connected.Type)

	waitForClients(t, h, 1)
	h.Broadcast("ui.win", "skipped by filter")
	h.Broadcast("ui.popup", "shown")

	got := next()
	assert.Equal(t, "ui.popup", got.Type)
	assert.Equal(t, "shown", got.Payload)

	cancel()
	waitForClients(t, h, 0)
}
