package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econtab/internal/pipeline"
	"econtab/internal/shared/testutil"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients (have %d)", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsEvents(t *testing.T) {
	logger, _ := testutil.NewCaptureLogger(t)
	hub := NewHub(logger)
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	sent := pipeline.Event{
		RunID:  "run-1",
		Stage:  pipeline.StageParse,
		Status: pipeline.StageStatusCompleted,
		Rows:   42,
		At:     time.Now(),
	}
	hub.Publish(sent)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got pipeline.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, pipeline.StageParse, got.Stage)
	assert.Equal(t, pipeline.StageStatusCompleted, got.Status)
	assert.Equal(t, 42, got.Rows)
}

func TestHubMultipleClients(t *testing.T) {
	logger, _ := testutil.NewCaptureLogger(t)
	hub := NewHub(logger)
	defer hub.Close()

	a := dialHub(t, hub)
	b := dialHub(t, hub)
	waitForClients(t, hub, 2)

	hub.Publish(pipeline.Event{RunID: "run-2", Stage: pipeline.StageFetch, Status: pipeline.StageStatusActive})

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(data), "run-2")
	}
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	logger, _ := testutil.NewCaptureLogger(t)
	hub := NewHub(logger)
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// publishing to an empty hub is a no-op
	hub.Publish(pipeline.Event{RunID: "run-3"})
}

func TestHubCloseRejectsNewClients(t *testing.T) {
	logger, _ := testutil.NewCaptureLogger(t)
	hub := NewHub(logger)

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.Close()
	assert.Zero(t, hub.ClientCount())

	// the peer sees the connection closed
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
