package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lushtech/eldercare-web/pkg/domain"
	"github.com/lushtech/eldercare-web/pkg/webapp"
)

// dialWS connects to the websocket endpoint and waits until the server registered the client
func dialWS(t *testing.T, srv *Server, ts *httptest.Server, path string, want int) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return srv.notifier.Clients() == want }, time.Second, 10*time.Millisecond)
	return conn
}

func TestServer_wsFrames(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{BaseURL: "/app/eldercare"})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	first := dialWS(t, srv, ts, "/app/eldercare/rest/example/ws", 1)
	second := dialWS(t, srv, ts, "/app/eldercare/rest/example/ws", 2)

	require.NoError(t, srv.SetImage(testImage()))

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		msgType, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.BinaryMessage, msgType)
		require.Greater(t, len(data), 2)
		assert.Equal(t, []byte{0xFF, 0xD8}, data[:2], "jpeg start of image")
	}
}

func TestServer_wsSettingsUpdate(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	conn := dialWS(t, srv, ts, "/rest/example/ws", 1)

	resp, err := http.Post(ts.URL+"/rest/example/settings", "application/json", strings.NewReader(`{"confidence":0.87}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)
	assert.JSONEq(t, `{"type":"settings","settings":{"confidence":0.87}}`, string(data))
}

func TestServer_wsDisconnect(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	conn := dialWS(t, srv, ts, "/rest/example/ws", 1)
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))
	require.Eventually(t, func() bool { return srv.notifier.Clients() == 0 }, time.Second, 10*time.Millisecond)

	// broadcasting without clients is a no-op
	srv.notifier.SendString("nobody listens")
}

func TestServer_wsNotUpgraded(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{})
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/rest/example/ws", http.NoBody))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, srv.notifier.Clients())
}

func TestNotifier_Close(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	conn := dialWS(t, srv, ts, "/rest/example/ws", 1)
	srv.notifier.Close()
	assert.Equal(t, 0, srv.notifier.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestServer_RunClosesWebsockets(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()
	conn := dialWS(t, srv, ts, "/rest/example/ws", 1)

	// Run with a cancelled context shuts down right away and drops the websocket clients
	srv.config = testConfig("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, srv.Run(ctx))
	require.Eventually(t, func() bool { return srv.notifier.Clients() == 0 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}
