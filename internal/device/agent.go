package device

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/wise-toddler/minesweper-solver/internal/bot"
	"github.com/wise-toddler/minesweper-solver/internal/config"
	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

var log = logrus.New()

func SetLogger(l *logrus.Logger) { log = l }

// Agent is a websocket client to the on-device agent. It implements both
// bot.Observer and bot.Actuator over a single connection. The game loop
// is strictly sequential, so there is never more than one request in
// flight and the connection needs no locking.
type Agent struct {
	conn *websocket.Conn
}

func Dial(ctx context.Context, cfg *config.Device) (*Agent, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: time.Duration(cfg.DialTimeout) * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, cfg.AgentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial device agent at %s: %w", cfg.AgentURL, err)
	}
	log.WithField("url", cfg.AgentURL).Info("connected to device agent")
	return &Agent{conn: conn}, nil
}

func (a *Agent) Close() error {
	a.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	return a.conn.Close()
}

func (a *Agent) Scan(ctx context.Context) (*bot.Frame, error) {
	if err := a.send(ctx, command{Type: "scan"}); err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		a.conn.SetReadDeadline(deadline)
	}
	var msg frameMessage
	if err := a.conn.ReadJSON(&msg); err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	if msg.Type != "frame" {
		return nil, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	if msg.Error != "" {
		return nil, fmt.Errorf("agent scan failed: %s", msg.Error)
	}
	if want := msg.Info.Rows * msg.Info.Cols; len(msg.Cells) != want {
		return nil, fmt.Errorf("frame has %d cells, geometry says %d", len(msg.Cells), want)
	}
	frame := &bot.Frame{
		Info:  msg.Info,
		Cells: make([]grid.Observation, len(msg.Cells)),
	}
	for i, code := range msg.Cells {
		obs, err := decodeCell(code)
		if err != nil {
			// Unclassifiable cells are covered by policy.
			log.WithFields(logrus.Fields{"index": i, "code": code}).Warn("unclassifiable cell")
			obs = grid.Observation{State: grid.Covered}
		}
		frame.Cells[i] = obs
	}
	return frame, nil
}

func (a *Agent) Tap(ctx context.Context, x, y int) error {
	return a.send(ctx, command{Type: "tap", X: x, Y: y})
}

func (a *Agent) LongPress(ctx context.Context, x, y int) error {
	return a.send(ctx, command{Type: "longpress", X: x, Y: y})
}

func (a *Agent) Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error {
	return a.send(ctx, command{
		Type: "swipe",
		X:    x1, Y: y1, X2: x2, Y2: y2,
		DurationMs: int(duration / time.Millisecond),
	})
}

func (a *Agent) send(ctx context.Context, cmd command) error {
	if deadline, ok := ctx.Deadline(); ok {
		a.conn.SetWriteDeadline(deadline)
	}
	if err := a.conn.WriteJSON(cmd); err != nil {
		return fmt.Errorf("failed to send %s: %w", cmd.Type, err)
	}
	return nil
}
