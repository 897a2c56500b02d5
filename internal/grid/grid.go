package grid

import "fmt"

type CellState int8

const (
	Unknown CellState = iota
	Covered
	Revealed
	Flagged
	Mine // revealed mine, only seen after a loss
)

func (s CellState) String() string {
	switch s {
	case Covered:
		return "covered"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	case Mine:
		return "mine"
	default:
		return "unknown"
	}
}

// Observation is one scanned classification for a single cell. Value is
// meaningful only when State is Revealed.
type Observation struct {
	State CellState
	Value int
}

var ErrBadObservation = fmt.Errorf("revealed observation requires a value in 0..8")

type Cell struct {
	State CellState
	// Value is the surrounding mine count, set iff State == Revealed.
	Value int
}

// Grid is the bot's knowledge of the visible viewport, row-major. It is
// rebuilt from scratch whenever the viewport scrolls, since every prior
// coordinate mapping becomes invalid.
type Grid struct {
	Info  Info
	cells []Cell
}

type Snapshot struct {
	Total    int `json:"total"`
	Covered  int `json:"covered"`
	Revealed int `json:"revealed"`
	Flagged  int `json:"flagged"`
	Unknown  int `json:"unknown"`
}

func New(info Info) *Grid {
	cells := make([]Cell, info.Rows*info.Cols)
	for i := range cells {
		cells[i] = Cell{State: Covered}
	}
	return &Grid{Info: info, cells: cells}
}

func (g *Grid) Rows() int { return g.Info.Rows }
func (g *Grid) Cols() int { return g.Info.Cols }

func (g *Grid) index(row, col int) int {
	return row*g.Info.Cols + col
}

func (g *Grid) inBounds(row, col int) bool {
	return 0 <= row && row < g.Info.Rows && 0 <= col && col < g.Info.Cols
}

// CellAt returns nil when (row, col) is out of bounds. Callers walking
// spatial neighborhoods at grid edges rely on this instead of bounds
// arithmetic of their own.
func (g *Grid) CellAt(row, col int) *Cell {
	if !g.inBounds(row, col) {
		return nil
	}
	return &g.cells[g.index(row, col)]
}

type Neighbor struct {
	Row, Col int
	Cell     *Cell
}

// Neighbors returns the in-bounds neighbors of (row, col) in row-major
// order, excluding the cell itself. Stable order keeps downstream
// tie-breaking deterministic.
func (g *Grid) Neighbors(row, col int) []Neighbor {
	neighbors := make([]Neighbor, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if g.inBounds(r, c) {
				neighbors = append(neighbors, Neighbor{r, c, &g.cells[g.index(r, c)]})
			}
		}
	}
	return neighbors
}

func (g *Grid) CountNeighbors(row, col int, state CellState) (count int) {
	for _, n := range g.Neighbors(row, col) {
		if n.Cell.State == state {
			count++
		}
	}
	return
}

// ApplyObservation overwrites a cell with a freshly scanned classification.
// A Revealed observation must carry a value in 0..8; any other state must
// not. Out-of-bounds coordinates are ignored.
func (g *Grid) ApplyObservation(row, col int, obs Observation) error {
	if !g.inBounds(row, col) {
		return nil
	}
	cell := &g.cells[g.index(row, col)]
	if obs.State == Revealed {
		if obs.Value < 0 || obs.Value > 8 {
			return ErrBadObservation
		}
		cell.State = Revealed
		cell.Value = obs.Value
		return nil
	}
	cell.State = obs.State
	cell.Value = 0
	return nil
}

func (g *Grid) Snapshot() Snapshot {
	s := Snapshot{Total: len(g.cells)}
	for i := range g.cells {
		switch g.cells[i].State {
		case Covered:
			s.Covered++
		case Revealed:
			s.Revealed++
		case Flagged:
			s.Flagged++
		default:
			s.Unknown++
		}
	}
	return s
}

// IsSolved reports whether no Covered cell remains in the viewport.
// Flags do not count against it: a fully flagged board is solved.
func (g *Grid) IsSolved() bool {
	for i := range g.cells {
		if g.cells[i].State == Covered {
			return false
		}
	}
	return true
}

// CoverageRatio is the fraction of cells already revealed, used to decide
// when the visible region is exhausted enough to scroll on.
func (g *Grid) CoverageRatio() float64 {
	if len(g.cells) == 0 {
		return 0
	}
	return float64(g.Snapshot().Revealed) / float64(len(g.cells))
}
