package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// catchupLimit caps one replay burst. A client further behind than this
// gets a catchup.overflow frame and is expected to reload the session
// timeline over REST instead of paginating the outbox.
const catchupLimit = 200

// listenTimeout bounds how long a LISTEN command may block when a
// channel gains its first subscriber. Without it, a stalled listener
// connection would wedge the subscribing client's read loop.
const listenTimeout = 10 * time.Second

// CatchupEvent is one events-outbox row returned by the replay query.
type CatchupEvent struct {
	ID      int
	Payload map[string]any
}

// CatchupQuerier reads the events outbox for replay after a subscribe
// or an explicit catchup request. Implemented by services.EventService.
type CatchupQuerier interface {
	GetCatchupEvents(ctx context.Context, channel string, sinceID, limit int) ([]CatchupEvent, error)
}

// serverFrame is a control-plane message sent to a dashboard client.
// Event payloads never pass through it: those are forwarded as the raw
// envelope bytes the SessionBus published.
type serverFrame struct {
	Type         string `json:"type"`
	Channel      string `json:"channel,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
	Message      string `json:"message,omitempty"`
	HasMore      bool   `json:"has_more,omitempty"`
}

// ConnectionManager owns every dashboard WebSocket connection and the
// channel → subscriber fan-out that Broadcast walks. The daemon holds a
// single instance; the NotifyListener feeds it NOTIFY payloads.
type ConnectionManager struct {
	conns map[string]*wsClient
	mu    sync.RWMutex

	// subscribers: channel → set of connection IDs.
	subscribers map[string]map[string]bool
	subMu       sync.RWMutex

	querier CatchupQuerier

	// listener is set once during startup, after both halves exist.
	listener   *NotifyListener
	listenerMu sync.RWMutex

	writeTimeout time.Duration
}

// wsClient is one connected dashboard.
//
// channels and delivered are touched without a lock: every access
// happens on the single goroutine that owns the connection
// (HandleConnection's read loop and its deferred cleanup). Mutating a
// wsClient from anywhere else requires adding a mutex first.
type wsClient struct {
	id   string
	sock *websocket.Conn

	// channels this client is subscribed to.
	channels map[string]bool

	// delivered tracks the highest outbox row ID replayed per channel,
	// so the auto-replay on subscribe and a later explicit catchup never
	// hand the client the same event twice.
	delivered map[string]int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewConnectionManager creates the manager. querier backs catch-up
// replay; writeTimeout bounds each send to a client.
func NewConnectionManager(querier CatchupQuerier, writeTimeout time.Duration) *ConnectionManager {
	return &ConnectionManager{
		conns:        make(map[string]*wsClient),
		subscribers:  make(map[string]map[string]bool),
		querier:      querier,
		writeTimeout: writeTimeout,
	}
}

// SetListener wires the NotifyListener for dynamic LISTEN/UNLISTEN.
// Called once during startup.
func (m *ConnectionManager) SetListener(l *NotifyListener) {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	m.listener = l
}

// validChannel restricts subscriptions to kiln's channel namespace: the
// global session-list channel and per-session channels.
func validChannel(channel string) bool {
	if channel == GlobalSessionsChannel {
		return true
	}
	return strings.HasPrefix(channel, sessionChannelPrefix) && len(channel) > len(sessionChannelPrefix)
}

// HandleConnection runs one WebSocket connection to completion. Called
// by the upgrade handler; blocks until the client disconnects.
func (m *ConnectionManager) HandleConnection(parentCtx context.Context, sock *websocket.Conn) {
	ctx, cancel := context.WithCancel(parentCtx)
	c := &wsClient{
		id:        uuid.New().String(),
		sock:      sock,
		channels:  make(map[string]bool),
		delivered: make(map[string]int),
		ctx:       ctx,
		cancel:    cancel,
	}

	m.register(c)
	defer m.unregister(c)

	m.sendFrame(c, serverFrame{Type: "connection.established", ConnectionID: c.id})

	for {
		_, data, err := sock.Read(ctx)
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("Invalid WebSocket message", "connection_id", c.id, "error", err)
			continue
		}
		m.handleClientMessage(ctx, c, &msg)
	}
}

// Broadcast forwards one published envelope to every subscriber of the
// channel. Envelope bytes pass through untouched.
func (m *ConnectionManager) Broadcast(channel string, envelope []byte) {
	m.subMu.RLock()
	ids := make([]string, 0, len(m.subscribers[channel]))
	for id := range m.subscribers[channel] {
		ids = append(ids, id)
	}
	m.subMu.RUnlock()
	if len(ids) == 0 {
		return
	}

	// Snapshot the clients before sending: a send can take up to
	// writeTimeout, and register/unregister must not wait that long.
	m.mu.RLock()
	targets := make([]*wsClient, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.conns[id]; ok {
			targets = append(targets, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range targets {
		if err := m.send(c, envelope); err != nil {
			slog.Warn("Failed to send to WebSocket client", "connection_id", c.id, "error", err)
		}
	}
}

// ActiveConnections returns the number of connected dashboards.
func (m *ConnectionManager) ActiveConnections() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// subscriberCount is polled by tests instead of sleeping.
func (m *ConnectionManager) subscriberCount(channel string) int {
	m.subMu.RLock()
	defer m.subMu.RUnlock()
	return len(m.subscribers[channel])
}

func (m *ConnectionManager) handleClientMessage(ctx context.Context, c *wsClient, msg *ClientMessage) {
	switch msg.Action {
	case "subscribe":
		if msg.Channel == "" {
			m.sendFrame(c, serverFrame{Type: "error", Message: "channel is required for subscribe"})
			return
		}
		if !validChannel(msg.Channel) {
			m.sendFrame(c, serverFrame{Type: "error", Channel: msg.Channel, Message: "unknown channel; expected \"sessions\" or \"session:<id>\""})
			return
		}
		if err := m.subscribe(c, msg.Channel); err != nil {
			m.sendFrame(c, serverFrame{
				Type:    "subscription.error",
				Channel: msg.Channel,
				Message: "failed to subscribe to channel",
			})
			return
		}
		m.sendFrame(c, serverFrame{Type: "subscription.confirmed", Channel: msg.Channel})
		// Replay everything already persisted so a late subscriber sees
		// the full session, not just what streams from now on.
		m.replay(ctx, c, msg.Channel, 0)

	case "unsubscribe":
		if msg.Channel == "" {
			m.sendFrame(c, serverFrame{Type: "error", Message: "channel is required for unsubscribe"})
			return
		}
		m.unsubscribe(c, msg.Channel)

	case "catchup":
		if msg.Channel == "" {
			m.sendFrame(c, serverFrame{Type: "error", Message: "channel is required for catchup"})
			return
		}
		if msg.LastEventID != nil {
			m.replay(ctx, c, msg.Channel, *msg.LastEventID)
		}

	case "ping":
		m.sendFrame(c, serverFrame{Type: "pong"})
	}
}

// subscribe adds the client to a channel and issues LISTEN when the
// channel gains its first subscriber. LISTEN completes before subscribe
// returns, so the replay that follows runs with the live feed already
// flowing — an event published between the two cannot be lost.
//
// A LISTEN failure is returned so the caller reports it instead of
// sending a false subscription.confirmed.
func (m *ConnectionManager) subscribe(c *wsClient, channel string) error {
	m.subMu.Lock()
	first := false
	if _, ok := m.subscribers[channel]; !ok {
		m.subscribers[channel] = make(map[string]bool)
		first = true
	}
	m.subscribers[channel][c.id] = true
	m.subMu.Unlock()

	if first {
		m.listenerMu.RLock()
		l := m.listener
		m.listenerMu.RUnlock()
		if l != nil {
			listenCtx, cancel := context.WithTimeout(context.Background(), listenTimeout)
			defer cancel()
			if err := l.Subscribe(listenCtx, channel); err != nil {
				slog.Error("Failed to LISTEN on channel", "channel", channel, "error", err)
				m.dropFailedChannel(c, channel)
				return fmt.Errorf("LISTEN on channel %s: %w", channel, err)
			}
		}
	}

	c.channels[channel] = true
	return nil
}

// dropFailedChannel tears a channel down after a LISTEN failure and
// tells every affected client (other than the triggering one, which
// gets the returned error).
//
// Between releasing subMu and LISTEN completing, other clients may have
// subscribed to the same channel; they saw it already registered,
// skipped LISTEN, and were confirmed. Those subscriptions are now
// backed by nothing, so each gets subscription.error and must treat it
// as authoritative: drop any replayed events for the channel and either
// re-subscribe with back-off or fall back to REST polling.
//
// An affected client may keep a stale channels entry. Harmless:
// Broadcast walks m.subscribers (just deleted), and unsubscribe /
// unregister tolerate a missing channel.
func (m *ConnectionManager) dropFailedChannel(triggering *wsClient, channel string) {
	m.subMu.Lock()
	affected := make([]string, 0, len(m.subscribers[channel]))
	for id := range m.subscribers[channel] {
		if id != triggering.id {
			affected = append(affected, id)
		}
	}
	delete(m.subscribers, channel)
	m.subMu.Unlock()

	if len(affected) == 0 {
		return
	}

	m.mu.RLock()
	targets := make([]*wsClient, 0, len(affected))
	for _, id := range affected {
		if c, ok := m.conns[id]; ok {
			targets = append(targets, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range targets {
		slog.Warn("Removing orphaned subscriber after LISTEN failure",
			"connection_id", c.id, "channel", channel)
		m.sendFrame(c, serverFrame{
			Type:    "subscription.error",
			Channel: channel,
			Message: "channel listen failed; subscription removed",
		})
	}
}

// unsubscribe removes the client from a channel and issues UNLISTEN
// when the last subscriber leaves. The replay watermark is dropped too:
// an explicit re-subscribe starts the history over.
func (m *ConnectionManager) unsubscribe(c *wsClient, channel string) {
	m.subMu.Lock()
	if subs, ok := m.subscribers[channel]; ok {
		delete(subs, c.id)
		if len(subs) == 0 {
			delete(m.subscribers, channel)
			// The goroutine re-checks before issuing UNLISTEN so a rapid
			// unsubscribe/resubscribe cycle (React StrictMode mounts the
			// dashboard twice) cannot drop an active LISTEN.
			m.listenerMu.RLock()
			l := m.listener
			m.listenerMu.RUnlock()
			if l != nil {
				go func() {
					m.subMu.RLock()
					_, resubscribed := m.subscribers[channel]
					m.subMu.RUnlock()
					if resubscribed {
						return
					}
					if err := l.Unsubscribe(context.Background(), channel); err != nil {
						slog.Error("Failed to UNLISTEN channel", "channel", channel, "error", err)
					}
				}()
			}
		}
	}
	m.subMu.Unlock()

	delete(c.channels, channel)
	delete(c.delivered, channel)
}

// replay sends persisted events after sinceID to the client, in order,
// skipping rows already delivered on this connection. The subscribe
// auto-replay and a later explicit catchup therefore compose without
// duplicates: whichever runs second starts past the other's watermark.
func (m *ConnectionManager) replay(ctx context.Context, c *wsClient, channel string, sinceID int) {
	if m.querier == nil {
		return
	}
	if mark := c.delivered[channel]; mark > sinceID {
		sinceID = mark
	}

	// One extra row detects overflow.
	rows, err := m.querier.GetCatchupEvents(ctx, channel, sinceID, catchupLimit+1)
	if err != nil {
		slog.Error("Catchup query failed", "channel", channel, "error", err)
		return
	}
	hasMore := len(rows) > catchupLimit
	if hasMore {
		rows = rows[:catchupLimit]
	}

	sent := 0
	for _, row := range rows {
		// The querier filters by sinceID; this guard also holds against
		// one that returns the full channel.
		if row.ID <= sinceID {
			continue
		}
		// The stored payload has no db_event_id (that is injected into
		// the NOTIFY copy at publish time); add it from the row ID so
		// the client can track its position.
		row.Payload["db_event_id"] = row.ID
		payload, err := json.Marshal(row.Payload)
		if err != nil {
			continue
		}
		if err := m.send(c, payload); err != nil {
			slog.Warn("Failed to send catchup event", "connection_id", c.id, "error", err)
			return
		}
		if row.ID > c.delivered[channel] {
			c.delivered[channel] = row.ID
		}
		sent++
	}
	if sent > 0 {
		slog.Debug("Replayed persisted events", "connection_id", c.id, "channel", channel, "count", sent)
	}

	if hasMore {
		m.sendFrame(c, serverFrame{Type: "catchup.overflow", Channel: channel, HasMore: true})
	}
}

func (m *ConnectionManager) register(c *wsClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.id] = c
}

func (m *ConnectionManager) unregister(c *wsClient) {
	for ch := range c.channels {
		m.unsubscribe(c, ch)
	}

	m.mu.Lock()
	delete(m.conns, c.id)
	m.mu.Unlock()

	c.cancel()
	_ = c.sock.Close(websocket.StatusNormalClosure, "")
}

func (m *ConnectionManager) sendFrame(c *wsClient, frame serverFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Warn("Failed to marshal WebSocket frame", "connection_id", c.id, "error", err)
		return
	}
	if err := m.send(c, data); err != nil {
		slog.Warn("Failed to send WebSocket frame", "connection_id", c.id, "error", err)
	}
}

func (m *ConnectionManager) send(c *wsClient, data []byte) error {
	writeCtx, cancel := context.WithTimeout(c.ctx, m.writeTimeout)
	defer cancel()
	return c.sock.Write(writeCtx, websocket.MessageText, data)
}
