package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/telconova/portal/internal/shared/notify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dial(t *testing.T, hub *Hub, srv *httptest.Server, sessionID string) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?session=" + sessionID
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connections(sessionID) > 0 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_DeliversOnlyToOwnSession(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, r.URL.Query().Get("session"))
	}))
	defer srv.Close()

	mine := dial(t, hub, srv, "s1")
	other := dial(t, hub, srv, "s2")

	hub.Notify(context.Background(), notify.NewNotice("s1", notify.LevelSuccess, "Cliente creado exitosamente"))

	var got notify.Notice
	require.NoError(t, mine.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, mine.ReadJSON(&got))
	require.Equal(t, "Cliente creado exitosamente", got.Message)
	require.Equal(t, notify.LevelSuccess, got.Level)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	require.Error(t, err)

	require.NoError(t, mine.Close())
	require.NoError(t, other.Close())
	require.Eventually(t, func() bool {
		return hub.Connections("s1") == 0 && hub.Connections("s2") == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHub_NotifyWithoutConnectionsIsNoop(t *testing.T) {
	hub := NewHub(nil)
	hub.Notify(context.Background(), notify.NewNotice("nobody", notify.LevelInfo, "hola"))
	require.Zero(t, hub.Connections("nobody"))
}

func TestHub_RejectsForeignOrigins(t *testing.T) {
	hub := NewHub(nil, WithAllowedOrigins(" https://Portal.Telconova.co/ "))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "s1")
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := ws.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.ErrorIs(t, err, ws.ErrBadHandshake)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Zero(t, hub.Connections("s1"))

	for _, origin := range []string{"https://portal.telconova.co", srv.URL} {
		conn, _, err := ws.DefaultDialer.Dial(url, http.Header{"Origin": {origin}})
		require.NoError(t, err, origin)
		require.NoError(t, conn.Close())
	}
	require.Eventually(t, func() bool { return hub.Connections("s1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_QueuesNoticesInOrder(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, r.URL.Query().Get("session"))
	}))
	defer srv.Close()

	conn := dial(t, hub, srv, "s1")
	messages := []string{"uno", "dos", "tres"}
	for _, msg := range messages {
		hub.Notify(context.Background(), notify.NewNotice("s1", notify.LevelInfo, msg))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	for _, want := range messages {
		var got notify.Notice
		require.NoError(t, conn.ReadJSON(&got))
		require.Equal(t, want, got.Message)
	}

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Connections("s1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_DropsStalledClient(t *testing.T) {
	hub := NewHub(nil)
	c := &client{sessionID: "s1", send: make(chan []byte, 1), done: make(chan struct{})}
	hub.register(c)

	hub.Notify(context.Background(), notify.NewNotice("s1", notify.LevelInfo, "uno"))
	require.Equal(t, 1, hub.Connections("s1"))
	hub.Notify(context.Background(), notify.NewNotice("s1", notify.LevelInfo, "dos"))
	require.Zero(t, hub.Connections("s1"))

	select {
	case <-c.done:
	default:
		t.Fatal("stalled client was not closed")
	}
}
