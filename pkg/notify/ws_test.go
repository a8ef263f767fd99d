package notify

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
)

type fakeSource struct {
	mu      sync.Mutex
	records *bridge.UserRecords
	calls   []string
}

func (f *fakeSource) GetUserRecords(_ context.Context, identity string) (*bridge.UserRecords, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, identity)
	return f.records, nil
}

func (f *fakeSource) set(r *bridge.UserRecords) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = r
}

func startWS(t *testing.T, source StatusSource) (*Hub, *websocket.Conn) {
	t.Helper()

	hub := NewHub(zap.NewNop())
	r := chi.NewRouter()
	r.Handle("/ws/{identity}", NewWSHandler(hub, source, 16, time.Second, zap.NewNop()))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + testIdentityLower
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWS_InitialStatusPingAndRefresh(t *testing.T) {
	source := &fakeSource{records: &bridge.UserRecords{Deposits: []*bridge.DepositIntent{testDeposit()}}}
	_, conn := startWS(t, source)

	msg := readMessage(t, conn)
	assert.Equal(t, "deposit_update", msg["type"])
	assert.Equal(t, "dep-1", msg["data"].(map[string]any)["id"])

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", readMessage(t, conn)["type"])

	updated := testDeposit()
	updated.Status = bridge.StatusConfirmed
	source.set(&bridge.UserRecords{Deposits: []*bridge.DepositIntent{updated}})

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "request_status_update"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "deposit_update", msg["type"])
	assert.Equal(t, "confirmed", msg["data"].(map[string]any)["status"])

	source.mu.Lock()
	defer source.mu.Unlock()
	require.Len(t, source.calls, 2)
	assert.Equal(t, testIdentity, source.calls[0])
}

func TestWS_InvalidJSON(t *testing.T) {
	_, conn := startWS(t, &fakeSource{records: &bridge.UserRecords{}})

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "Invalid JSON", msg["message"])
}

func TestWS_PublishedUpdateIsDelivered(t *testing.T) {
	hub, conn := startWS(t, &fakeSource{records: &bridge.UserRecords{}})

	require.Eventually(t, func() bool { return hub.ClientCount(testIdentity) == 1 }, 5*time.Second, 10*time.Millisecond)

	ret := &bridge.ReturnIntent{ID: "ret-9", SourceAddress: testIdentity, Status: bridge.StatusDepositDetected}
	require.NoError(t, hub.Publish(context.Background(), ReturnIntentUpdate(ret)))

	msg := readMessage(t, conn)
	assert.Equal(t, "return_intent_update", msg["type"])
	assert.Equal(t, "ret-9", msg["data"].(map[string]any)["id"])
}

func TestWS_CloseUnregisters(t *testing.T) {
	hub, conn := startWS(t, &fakeSource{records: &bridge.UserRecords{}})
	require.Eventually(t, func() bool { return hub.ClientCount(testIdentity) == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount(testIdentity) == 0 }, 5*time.Second, 10*time.Millisecond)
}
