package device

import (
	"fmt"
	"strconv"

	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

// Wire messages exchanged with the phone-side agent. The agent owns all
// pixel-level work (capture, color thresholds, digit recognition) and
// ships abstracted classifications; the bot ships input commands back.

type command struct {
	Type       string `json:"type"`
	X          int    `json:"x,omitempty"`
	Y          int    `json:"y,omitempty"`
	X2         int    `json:"x2,omitempty"`
	Y2         int    `json:"y2,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
}

type frameMessage struct {
	Type  string    `json:"type"`
	Error string    `json:"error,omitempty"`
	Info  grid.Info `json:"info"`
	// Cells is row-major, one code per cell: "c" covered, "f" flagged,
	// "m" revealed mine, "u" unclassifiable, "0".."8" revealed counts.
	Cells []string `json:"cells"`
}

func decodeCell(code string) (grid.Observation, error) {
	switch code {
	case "c":
		return grid.Observation{State: grid.Covered}, nil
	case "f":
		return grid.Observation{State: grid.Flagged}, nil
	case "m":
		return grid.Observation{State: grid.Mine}, nil
	case "u":
		return grid.Observation{State: grid.Unknown}, nil
	}
	v, err := strconv.Atoi(code)
	if err != nil || v < 0 || v > 8 {
		return grid.Observation{}, fmt.Errorf("bad cell code %q", code)
	}
	return grid.Observation{State: grid.Revealed, Value: v}, nil
}
