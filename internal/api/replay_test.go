package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicsort/internal/engine"
	"musicsort/internal/grid"
)

func dialReplay(t *testing.T, baseURL, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(baseURL, "http") + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestReplayStreamsEveryStep(t *testing.T) {
	sut := startSystemUnderTest(t, Options{MinReplayInterval: time.Millisecond})
	defer sut.Close()

	conn := dialReplay(t, sut.BaseURL, "/v1/sorts/selection/replay?intervalMs=1")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	want := grid.New().SelectionSort()
	for i := range want {
		var msg ReplayMessage
		require.NoError(t, conn.ReadJSON(&msg))
		require.NotNil(t, msg.Step, "message %d", i)
		assert.Equal(t, i, msg.Index)
		assert.Equal(t, len(want), msg.Total)
		assert.Equal(t, want[i], FromWire([]WireStep{*msg.Step})[0])
	}

	var done ReplayMessage
	require.NoError(t, conn.ReadJSON(&done))
	assert.True(t, done.Done)
	assert.Nil(t, done.Step)
}

func TestReplayStop(t *testing.T) {
	sut := startSystemUnderTest(t, Options{})
	defer sut.Close()

	// Default pace is one step per second, so the stop lands after the first step.
	conn := dialReplay(t, sut.BaseURL, "/v1/sorts/insertion/replay")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first ReplayMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, 0, first.Index)

	require.NoError(t, conn.WriteJSON(ReplayControl{Action: "stop"}))

	var msg ReplayMessage
	err := conn.ReadJSON(&msg)
	assert.Error(t, err, "server should close the connection after stop")
}

func TestReplayRejectsFastInterval(t *testing.T) {
	sut := startSystemUnderTest(t, Options{MinReplayInterval: 100 * time.Millisecond})
	defer sut.Close()

	resp, err := http.Get(sut.BaseURL + "/v1/sorts/bubble/replay?intervalMs=5")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReplayRejectsBadAlgorithm(t *testing.T) {
	sut := startSystemUnderTest(t, Options{})
	defer sut.Close()

	_, resp, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(sut.BaseURL, "http")+"/v1/sorts/shell/replay", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReplayRequiresWebSocket(t *testing.T) {
	sut := startSystemUnderTest(t, Options{})
	defer sut.Close()

	resp, err := http.Get(sut.BaseURL + "/v1/sorts/" + engine.Bubble.String() + "/replay")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
