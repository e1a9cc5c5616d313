package server_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/feedback/pkg/feedback"
)

func dialWS(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsFrame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var f wsFrame
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

func TestWebSocketStreamsAddedEvent(t *testing.T) {
	ts, mgr := newTestServer(t, feedback.DefaultConfig())
	conn := dialWS(t, ts.URL)

	id := mgr.Add(feedback.TypeToast, feedback.Options{Message: "hello"})
	require.NotEmpty(t, id)

	f := readFrame(t, conn)
	assert.Equal(t, string(feedback.EventAdded), f.Event)

	var item feedback.Item
	require.NoError(t, json.Unmarshal(f.Payload, &item))
	assert.Equal(t, id, item.ID)
	assert.Equal(t, "hello", item.Options.Message)
}

func TestWebSocketStreamsRemovalSequence(t *testing.T) {
	cfg := feedback.DefaultConfig()
	cfg.ExitAnimationDuration = 10 * time.Millisecond
	ts, mgr := newTestServer(t, cfg)
	conn := dialWS(t, ts.URL)

	id := mgr.Add(feedback.TypeToast, feedback.Options{})
	mgr.Remove(id)

	var events []string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f := readFrame(t, conn)
		events = append(events, f.Event)
		if f.Event == string(feedback.EventRemoved) {
			break
		}
	}

	assert.Contains(t, events, string(feedback.EventAdded))
	assert.Contains(t, events, string(feedback.EventRemoved))
}

func TestWebSocketMultipleClientsReceiveBroadcast(t *testing.T) {
	ts, mgr := newTestServer(t, feedback.DefaultConfig())
	a := dialWS(t, ts.URL)
	b := dialWS(t, ts.URL)

	mgr.Add(feedback.TypeBanner, feedback.Options{Message: "both"})

	fa := readFrame(t, a)
	fb := readFrame(t, b)
	assert.Equal(t, string(feedback.EventAdded), fa.Event)
	assert.Equal(t, string(feedback.EventAdded), fb.Event)
}
