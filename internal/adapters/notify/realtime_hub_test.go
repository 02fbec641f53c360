package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

func startHubServer(t *testing.T, hub *RealtimeHub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(NewClient(r.URL.Query().Get("user"), conn))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRealtimeHub(t *testing.T) {
	ctx := context.Background()
	hub := NewRealtimeHub()
	srv := startHubServer(t, hub)

	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")
	require.Eventually(t, func() bool {
		return hub.Connected("alice") == 1 && hub.Connected("bob") == 1
	}, time.Second, 10*time.Millisecond)

	t.Run("Success: only the addressed user receives", func(t *testing.T) {
		n := testNotification()
		n.UserID = "alice"
		n.Analysis = &domain.DailyAnalysis{Date: "2024-03-10", OverallStatus: domain.StatusExcellent}

		require.NoError(t, hub.Notify(ctx, n))

		_ = alice.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := alice.ReadMessage()
		require.NoError(t, err)

		var got domain.Notification
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "alice", got.UserID)
		assert.Equal(t, "2024-03-10", got.Analysis.Date)

		_ = bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		_, _, err = bob.ReadMessage()
		assert.Error(t, err, "bob should not receive alice's notification")
	})

	t.Run("Offline users are not an error", func(t *testing.T) {
		n := testNotification()
		n.UserID = "nobody"
		assert.NoError(t, hub.Notify(ctx, n))
	})

	t.Run("Unregister drops the socket", func(t *testing.T) {
		hub.mu.RLock()
		var client *Client
		for c := range hub.clients["alice"] {
			client = c
		}
		hub.mu.RUnlock()
		require.NotNil(t, client)

		hub.Unregister(client)
		assert.Equal(t, 0, hub.Connected("alice"))
	})
}
