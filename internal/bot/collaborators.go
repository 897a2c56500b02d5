package bot

import (
	"context"
	"time"

	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

// Frame is one scanned view of the visible board: the detected geometry
// plus a row-major classification for every cell. Cells the scanner
// could not classify arrive as Covered; that conservative default can
// mask a recognition failure and the loop recovers through progress
// detection rather than by second-guessing the scan.
type Frame struct {
	Info  grid.Info
	Cells []grid.Observation
}

// Observer produces frames. How the classifications are derived (pixel
// thresholds, digit recognition) is the collaborator's business.
type Observer interface {
	Scan(ctx context.Context) (*Frame, error)
}

// Actuator injects input events at pixel coordinates. Commands are
// fire-and-forget as far as the game goes: the only feedback is whatever
// the next scan shows.
type Actuator interface {
	Tap(ctx context.Context, x, y int) error
	LongPress(ctx context.Context, x, y int) error
	Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error
}
