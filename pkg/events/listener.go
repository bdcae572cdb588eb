package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
)

// notifyWait is how long one WaitForNotification call blocks before the
// loop returns to drain pending LISTEN/UNLISTEN requests.
const notifyWait = 100 * time.Millisecond

// redialMaxBackoff caps the reconnect backoff after a lost connection.
const redialMaxBackoff = 30 * time.Second

// channelOp is a LISTEN or UNLISTEN statement queued for the receive
// loop, which is the only goroutine allowed to touch the pgx
// connection. Running them anywhere else races WaitForNotification
// ("conn busy").
type channelOp struct {
	stmt string
	done chan error
}

// NotifyListener holds the daemon's one dedicated LISTEN connection and
// hands incoming NOTIFY payloads to the ConnectionManager for fan-out
// to subscribed dashboards. Channels come and go with dashboard
// subscriptions; the set survives reconnects.
type NotifyListener struct {
	connString string
	manager    *ConnectionManager

	conn   *pgx.Conn
	connMu sync.Mutex

	// channels currently LISTENed on, re-established after a redial.
	channels   map[string]bool
	channelsMu sync.RWMutex

	ops     chan channelOp
	running atomic.Bool

	cancelLoop context.CancelFunc
	loopDone   chan struct{}
}

// NewNotifyListener creates the listener. Start must be called before
// Subscribe.
func NewNotifyListener(connString string, manager *ConnectionManager) *NotifyListener {
	return &NotifyListener{
		connString: connString,
		manager:    manager,
		channels:   make(map[string]bool),
		ops:        make(chan channelOp, 16),
	}
}

// Start opens the dedicated connection and launches the receive loop.
func (l *NotifyListener) Start(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return fmt.Errorf("failed to connect for LISTEN: %w", err)
	}

	l.connMu.Lock()
	l.conn = conn
	l.connMu.Unlock()
	l.running.Store(true)

	loopCtx, cancel := context.WithCancel(ctx)
	l.cancelLoop = cancel
	l.loopDone = make(chan struct{})
	go func() {
		defer close(l.loopDone)
		l.run(loopCtx)
	}()

	slog.Info("NotifyListener started")
	return nil
}

// Subscribe issues LISTEN for a channel. Idempotent.
func (l *NotifyListener) Subscribe(ctx context.Context, channel string) error {
	l.channelsMu.RLock()
	active := l.channels[channel]
	l.channelsMu.RUnlock()
	if active {
		return nil
	}
	if !l.running.Load() {
		return errors.New("LISTEN connection not established")
	}

	sanitized := pgx.Identifier{channel}.Sanitize()
	if err := l.exec(ctx, "LISTEN "+sanitized); err != nil {
		return fmt.Errorf("LISTEN %s failed: %w", sanitized, err)
	}

	l.channelsMu.Lock()
	l.channels[channel] = true
	l.channelsMu.Unlock()
	slog.Debug("Subscribed to NOTIFY channel", "channel", channel)
	return nil
}

// Unsubscribe issues UNLISTEN for a channel. A channel that was never
// subscribed, or a listener that never started, is a no-op.
func (l *NotifyListener) Unsubscribe(ctx context.Context, channel string) error {
	l.channelsMu.RLock()
	active := l.channels[channel]
	l.channelsMu.RUnlock()
	if !active || !l.running.Load() {
		return nil
	}

	sanitized := pgx.Identifier{channel}.Sanitize()
	if err := l.exec(ctx, "UNLISTEN "+sanitized); err != nil {
		return fmt.Errorf("UNLISTEN %s failed: %w", sanitized, err)
	}

	l.channelsMu.Lock()
	delete(l.channels, channel)
	l.channelsMu.Unlock()
	return nil
}

// exec queues one statement for the receive loop and waits for its
// result.
func (l *NotifyListener) exec(ctx context.Context, stmt string) error {
	op := channelOp{stmt: stmt, done: make(chan error, 1)}
	select {
	case l.ops <- op:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-op.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the receive loop: drain queued channel ops, wait briefly for a
// notification, dispatch it, repeat. Sole user of the pgx connection.
func (l *NotifyListener) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l.drainOps(ctx)

		l.connMu.Lock()
		conn := l.conn
		l.connMu.Unlock()
		if conn == nil {
			l.redial(ctx)
			continue
		}

		waitCtx, cancel := context.WithTimeout(ctx, notifyWait)
		notification, err := conn.WaitForNotification(waitCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if waitCtx.Err() != nil {
				// Timeout — loop back for pending ops.
				continue
			}
			slog.Error("NOTIFY receive error", "error", err)
			l.redial(ctx)
			continue
		}

		l.manager.Broadcast(notification.Channel, []byte(notification.Payload))
	}
}

// drainOps executes every queued LISTEN/UNLISTEN statement.
func (l *NotifyListener) drainOps(ctx context.Context) {
	for {
		select {
		case op := <-l.ops:
			l.connMu.Lock()
			conn := l.conn
			l.connMu.Unlock()
			if conn == nil {
				op.done <- errors.New("LISTEN connection not established")
				continue
			}
			_, err := conn.Exec(ctx, op.stmt)
			op.done <- err
		default:
			return
		}
	}
}

// redial re-establishes the connection with exponential backoff and
// re-LISTENs every active channel.
func (l *NotifyListener) redial(ctx context.Context) {
	l.connMu.Lock()
	defer l.connMu.Unlock()

	if l.conn != nil {
		_ = l.conn.Close(ctx)
		l.conn = nil
	}

	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		conn, err := pgx.Connect(ctx, l.connString)
		if err != nil {
			slog.Error("LISTEN reconnect failed", "error", err, "backoff", backoff)
			backoff = min(backoff*2, redialMaxBackoff)
			continue
		}
		l.conn = conn

		l.channelsMu.RLock()
		for ch := range l.channels {
			if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
				slog.Error("Re-LISTEN failed", "channel", ch, "error", err)
			}
		}
		l.channelsMu.RUnlock()

		slog.Info("NotifyListener reconnected")
		return
	}
}

// Stop ends the receive loop, waits for it, then closes the connection.
// Waiting first prevents a close racing WaitForNotification.
func (l *NotifyListener) Stop(ctx context.Context) {
	l.running.Store(false)

	if l.cancelLoop != nil {
		l.cancelLoop()
	}
	if l.loopDone != nil {
		<-l.loopDone
	}

	l.connMu.Lock()
	defer l.connMu.Unlock()
	if l.conn != nil {
		_ = l.conn.Close(ctx)
		l.conn = nil
	}
}
