package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Broadcasting to one user from several goroutines at once must not
// trip gorilla's single-writer rule on the shared connection.
func TestBroadcastToUserConcurrentWriters(t *testing.T) {
	hub := NewRealtimeHub()
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(&WSClient{UserID: 7, Conn: conn})
		close(registered)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	<-registered

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			hub.BroadcastToUser(7, UploadEvent{Kind: "upload.state", State: StateAnalyzing})
		}(i)
	}

	for i := 0; i < n; i++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(msg), string(StateAnalyzing))
	}
	wg.Wait()
}

func TestUnregisterDropsEmptyUserSet(t *testing.T) {
	hub := NewRealtimeHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
		conn, err := up.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := &WSClient{UserID: 3, Conn: conn}
		hub.Register(client)
		hub.Unregister(client)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Broadcast after unregister is a no-op, not a write to a closed conn.
	hub.BroadcastToUser(3, UploadEvent{Kind: "upload.state", State: StateComplete})
}
