package device

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
	"github.com/wise-toddler/minesweper-solver/internal/config"
	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

func TestDecodeCell(t *testing.T) {
	obs, err := decodeCell("c")
	require.NoError(t, err)
	assert.Equal(t, grid.Observation{State: grid.Covered}, obs)

	obs, err = decodeCell("f")
	require.NoError(t, err)
	assert.Equal(t, grid.Observation{State: grid.Flagged}, obs)

	obs, err = decodeCell("m")
	require.NoError(t, err)
	assert.Equal(t, grid.Observation{State: grid.Mine}, obs)

	obs, err = decodeCell("u")
	require.NoError(t, err)
	assert.Equal(t, grid.Observation{State: grid.Unknown}, obs)

	for v := 0; v <= 8; v++ {
		obs, err = decodeCell(string(rune('0' + v)))
		require.NoError(t, err)
		assert.Equal(t, grid.Observation{State: grid.Revealed, Value: v}, obs)
	}

	_, err = decodeCell("9")
	assert.Error(t, err)
	_, err = decodeCell("x")
	assert.Error(t, err)
	_, err = decodeCell("")
	assert.Error(t, err)
}

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// fakeAgent answers scan commands with a canned frame and collects every
// other command it receives.
func fakeAgent(t *testing.T, frame frameMessage, commands chan<- command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		defer conn.Close()
		for {
			var cmd command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			if cmd.Type == "scan" {
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
				continue
			}
			commands <- cmd
		}
	}
}

func dialTestAgent(t *testing.T, handler http.Handler) (*Agent, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	agent, err := Dial(context.Background(), &config.Device{AgentURL: url, DialTimeout: 5})
	require.NoError(t, err)
	return agent, func() {
		agent.Close()
		server.Close()
	}
}

func TestAgentScan(t *testing.T) {
	frame := frameMessage{
		Type:  "frame",
		Info:  grid.Info{CellSize: 100, OffsetY: 200, Rows: 1, Cols: 3},
		Cells: []string{"c", "1", "u"},
	}
	commands := make(chan command, 8)
	agent, teardown := dialTestAgent(t, fakeAgent(t, frame, commands))
	defer teardown()

	got, err := agent.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, frame.Info, got.Info)
	assert.Equal(t, []grid.Observation{
		{State: grid.Covered},
		{State: grid.Revealed, Value: 1},
		{State: grid.Unknown},
	}, got.Cells)
}

func TestAgentScanRejectsShortFrame(t *testing.T) {
	frame := frameMessage{
		Type:  "frame",
		Info:  grid.Info{CellSize: 100, Rows: 2, Cols: 2},
		Cells: []string{"c", "c"},
	}
	commands := make(chan command, 8)
	agent, teardown := dialTestAgent(t, fakeAgent(t, frame, commands))
	defer teardown()

	_, err := agent.Scan(context.Background())
	assert.Error(t, err)
}

func TestAgentScanReportsAgentError(t *testing.T) {
	frame := frameMessage{Type: "frame", Error: "screen capture denied"}
	commands := make(chan command, 8)
	agent, teardown := dialTestAgent(t, fakeAgent(t, frame, commands))
	defer teardown()

	_, err := agent.Scan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen capture denied")
}

func TestAgentCommands(t *testing.T) {
	commands := make(chan command, 8)
	agent, teardown := dialTestAgent(t, fakeAgent(t, frameMessage{}, commands))
	defer teardown()

	ctx := context.Background()
	require.NoError(t, agent.Tap(ctx, 150, 250))
	require.NoError(t, agent.LongPress(ctx, 50, 450))
	require.NoError(t, agent.Swipe(ctx, 540, 1500, 540, 900, 300*time.Millisecond))

	tap := <-commands
	assert.Equal(t, command{Type: "tap", X: 150, Y: 250}, tap)

	long := <-commands
	assert.Equal(t, command{Type: "longpress", X: 50, Y: 450}, long)

	swipe := <-commands
	assert.Equal(t, "swipe", swipe.Type)
	assert.Equal(t, 1500, swipe.Y)
	assert.Equal(t, 900, swipe.Y2)
	assert.Equal(t, 300, swipe.DurationMs)
}
