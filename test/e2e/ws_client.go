package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
)

// WSEvent is one message received over the dashboard WebSocket, kept
// both raw and parsed for assertions.
type WSEvent struct {
	Type     string
	Parsed   map[string]interface{}
	Received time.Time
}

// Str returns a string field from the flat event envelope.
func (e WSEvent) Str(key string) string {
	s, _ := e.Parsed[key].(string)
	return s
}

// WSClient is a test WebSocket client that records every event it
// receives. All reads happen on a background goroutine so slow
// assertions never block the server's write path.
type WSClient struct {
	t      *testing.T
	conn   *websocket.Conn
	cancel context.CancelFunc

	mu     sync.Mutex
	events []WSEvent

	closeOnce sync.Once
}

// WSConnect dials the daemon's WebSocket endpoint and starts recording.
// The connection is closed via t.Cleanup.
func WSConnect(t *testing.T, wsURL string) *WSClient {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	dialCtx, dialCancel := context.WithTimeout(ctx, 5*time.Second)
	defer dialCancel()

	conn, _, err := websocket.Dial(dialCtx, wsURL, nil)
	require.NoError(t, err, "websocket dial failed")
	// Collected event history can exceed the default 32KB limit.
	conn.SetReadLimit(1 << 20)

	c := &WSClient{t: t, conn: conn, cancel: cancel}
	go c.readLoop(ctx)
	t.Cleanup(c.Close)

	// The server greets every connection before accepting commands.
	c.WaitForEvent("connection.established", 5*time.Second)
	return c
}

func (c *WSClient) readLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal(data, &parsed); err != nil {
			continue
		}
		typ, _ := parsed["type"].(string)
		c.mu.Lock()
		c.events = append(c.events, WSEvent{Type: typ, Parsed: parsed, Received: time.Now()})
		c.mu.Unlock()
	}
}

// Subscribe joins a channel and blocks until the server confirms it.
// The server follows the confirmation with a catch-up replay of every
// event already persisted for the channel, so subscribing late does
// not lose history.
func (c *WSClient) Subscribe(channel string) {
	c.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg, err := json.Marshal(map[string]string{"action": "subscribe", "channel": channel})
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.Write(ctx, websocket.MessageText, msg))

	c.WaitForMatch(fmt.Sprintf("subscription.confirmed for %s", channel), 5*time.Second, func(e WSEvent) bool {
		return e.Type == "subscription.confirmed" && e.Str("channel") == channel
	})
}

// Events returns a snapshot of everything received so far.
func (c *WSClient) Events() []WSEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]WSEvent, len(c.events))
	copy(out, c.events)
	return out
}

// EventsByType filters the recorded events.
func (c *WSClient) EventsByType(typ string) []WSEvent {
	var out []WSEvent
	for _, e := range c.Events() {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// WaitForEvent blocks until an event of the given type has arrived and
// returns the first one. Fails the test on timeout.
func (c *WSClient) WaitForEvent(typ string, timeout time.Duration) WSEvent {
	c.t.Helper()
	return c.WaitForMatch(typ, timeout, func(e WSEvent) bool { return e.Type == typ })
}

// WaitForMatch blocks until an event satisfying the predicate has
// arrived and returns the first match. Fails the test on timeout.
func (c *WSClient) WaitForMatch(desc string, timeout time.Duration, match func(WSEvent) bool) WSEvent {
	c.t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, e := range c.Events() {
			if match(e) {
				return e
			}
		}
		time.Sleep(25 * time.Millisecond)
	}

	c.t.Fatalf("timed out after %v waiting for %s; received types: %v", timeout, desc, c.receivedTypes())
	return WSEvent{}
}

func (c *WSClient) receivedTypes() []string {
	var types []string
	for _, e := range c.Events() {
		types = append(types, e.Type)
	}
	return types
}

// Close tears the connection down. Safe to call more than once.
func (c *WSClient) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close(websocket.StatusNormalClosure, "test done")
	})
}
