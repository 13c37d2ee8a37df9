package ws

import (
	"LiveInbox/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/oauth2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
)

var ErrClosed = errors.New("realtime channel closed")

type Options struct {
	URL    string
	UserID string
	Token  string
	// TokenSource, when set, is asked for a token on every dial and takes
	// precedence over Token.
	TokenSource    oauth2.TokenSource
	ReconnectDelay time.Duration
}

// Manager owns the single realtime connection of a session and fans inbound
// events out to subscribers by kind. Screens subscribe to it instead of
// opening connections of their own.
//
// After a dropped connection the manager redials and announces the user
// again. Nothing missed while disconnected is requested; the next snapshot
// reload recovers it.
type Manager struct {
	opts   Options
	dialer *websocket.Dialer

	mu     sync.RWMutex
	subs   map[EventKind]map[uint64]Handler
	nextID uint64
	conn   *websocket.Conn

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	log       *slog.Logger
}

func NewManager(opts Options, log *slog.Logger) *Manager {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 3 * time.Second
	}
	if opts.TokenSource == nil && opts.Token != "" {
		opts.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
	}
	return &Manager{
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: writeWait,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
		subs: make(map[EventKind]map[uint64]Handler),
		done: make(chan struct{}),
		log:  log.With(sl.Module("ws.manager")),
	}
}

// Subscribe registers h for events of kind. The returned function removes
// the subscription; once it returns no new delivery to h is started.
func (m *Manager) Subscribe(kind EventKind, h Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	if m.subs[kind] == nil {
		m.subs[kind] = make(map[uint64]Handler)
	}
	m.subs[kind][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[kind], id)
			m.mu.Unlock()
		})
	}
}

// Start runs the connect loop until ctx is done or Close is called.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(ctx)
	}()
}

// Close tears the connection down and drops every subscriber.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)

		m.mu.Lock()
		conn := m.conn
		m.subs = make(map[EventKind]map[uint64]Handler)
		m.mu.Unlock()

		if conn != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			_ = conn.Close()
		}
		m.wg.Wait()
		m.log.Debug("realtime channel closed")
	})
}

func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn != nil
}

func (m *Manager) closed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *Manager) run(ctx context.Context) {
	for {
		if m.closed() || ctx.Err() != nil {
			return
		}

		if err := m.serve(ctx); err != nil && !m.closed() {
			m.log.With(
				sl.Err(err),
				slog.Duration("retry_in", m.opts.ReconnectDelay),
			).Warn("realtime connection lost")
		}

		select {
		case <-m.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(m.opts.ReconnectDelay):
		}
	}
}

// serve dials once, announces the user and reads until the connection
// fails.
func (m *Manager) serve(ctx context.Context) error {
	header, err := m.authHeader()
	if err != nil {
		return err
	}

	conn, _, err := m.dialer.DialContext(ctx, m.opts.URL, header)
	if err != nil {
		return err
	}

	connID := uuid.NewString()
	log := m.log.With(slog.String("conn_id", connID))

	m.mu.Lock()
	if m.closed() {
		m.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	m.conn = conn
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.conn = nil
		m.mu.Unlock()
		_ = conn.Close()
	}()

	setup, err := encodeFrame(typeSetup, m.opts.UserID)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err = conn.WriteMessage(websocket.TextMessage, setup); err != nil {
		return err
	}
	log.With(slog.String("user_id", m.opts.UserID)).Info("realtime connected")

	stop := make(chan struct{})
	defer close(stop)
	go m.writePump(ctx, conn, stop)

	return m.readPump(conn, log)
}

// authHeader asks the token source for a fresh token, so a refreshed token
// is used on redial.
func (m *Manager) authHeader() (http.Header, error) {
	if m.opts.TokenSource == nil {
		return nil, nil
	}
	tok, err := m.opts.TokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("realtime token: %w", err)
	}
	req := &http.Request{Header: http.Header{}}
	tok.SetAuthHeader(req)
	return req.Header, nil
}

// readPump delivers inbound events in the order they arrive.
func (m *Manager) readPump(conn *websocket.Conn, log *slog.Logger) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		ev, ok := decodeFrame(raw)
		if !ok {
			log.Debug("skipped realtime frame", slog.Int("size", len(raw)))
			continue
		}
		m.dispatch(ev)
	}
}

// writePump only sends keepalive pings; the setup frame is the single data
// frame the client writes. Canceling ctx closes the connection, which ends
// the read pump.
func (m *Manager) writePump(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (m *Manager) dispatch(ev Event) {
	m.mu.RLock()
	handlers := make([]Handler, 0, len(m.subs[ev.Kind]))
	for _, h := range m.subs[ev.Kind] {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	for _, h := range handlers {
		if m.closed() {
			return
		}
		h(ev)
	}
}
