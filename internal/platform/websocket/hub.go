// Package websocket pushes user notices to browsers connected over
// WebSocket. Each connection belongs to one session and only receives that
// session's notices.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/telconova/portal/internal/shared/notify"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// sendBuffer is how many notices may queue for one socket before it is
	// treated as stalled and dropped.
	sendBuffer = 16
)

var errStalled = errors.New("websocket client send buffer full")

type client struct {
	sessionID string
	conn      *ws.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writeLoop owns every write on the connection: queued notices and pings.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
				c.close()
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.close()
				_ = c.conn.Close()
				return
			}
		}
	}
}

// Option configures a Hub.
type Option func(*Hub)

// WithAllowedOrigins lists the browser origins, as scheme://host[:port],
// that may open a socket besides the API's own host. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Hub) {
		for _, origin := range origins {
			origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
			if origin != "" {
				h.origins[origin] = struct{}{}
			}
		}
	}
}

// Hub tracks connections by session and implements notify.Notifier.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*client]struct{}
	origins  map[string]struct{}
	logger   *slog.Logger
	upgrader ws.Upgrader
}

func NewHub(logger *slog.Logger, opts ...Option) *Hub {
	h := &Hub{
		sessions: make(map[string]map[*client]struct{}),
		origins:  make(map[string]struct{}),
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.upgrader = ws.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin accepts requests without an Origin header (non-browser
// clients), same-host origins, and the configured allow-list.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	if _, ok := h.origins["*"]; ok {
		return true
	}
	_, ok := h.origins[strings.ToLower(u.Scheme+"://"+u.Host)]
	return ok
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[c.sessionID]
	if !ok {
		set = make(map[*client]struct{})
		h.sessions[c.sessionID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if set, ok := h.sessions[c.sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.sessions, c.sessionID)
		}
	}
	h.mu.Unlock()
	c.close()
}

// Connections reports how many sockets are open for sessionID.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Notify queues notice on every socket of its session and returns without
// waiting for the writes. A socket whose queue is full is dropped.
func (h *Hub) Notify(ctx context.Context, notice notify.Notice) {
	data, err := json.Marshal(notice)
	if err != nil {
		h.warn(ctx, "marshal notice", err)
		return
	}
	h.mu.RLock()
	targets := make([]*client, 0, len(h.sessions[notice.SessionID]))
	for c := range h.sessions[notice.SessionID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		case <-c.done:
		default:
			h.warn(ctx, "drop websocket client", errStalled)
			h.unregister(c)
		}
	}
}

// Serve upgrades the request and blocks until the socket closes. Incoming
// messages are read and discarded.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.warn(r.Context(), "websocket upgrade failed", err)
		return
	}
	c := &client{
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
	h.register(c)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writeLoop()
	}()

	// A dropped client closes done; the expired deadline ends the read loop.
	go func() {
		<-c.done
		_ = conn.SetReadDeadline(time.Now())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
	wg.Wait()
	_ = conn.Close()
}

func (h *Hub) warn(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.LogAttrs(ctx, slog.LevelWarn, msg, slog.String("error", err.Error()))
}

var _ notify.Notifier = (*Hub)(nil)
