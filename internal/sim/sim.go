// Package sim hosts an in-process Minesweeper game that stands in for a
// real device: it implements both collaborator contracts, so the whole
// loop can run headless. Used by cmd/simulate and the integration tests.
package sim

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/wise-toddler/minesweper-solver/internal/bot"
	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

type Game struct {
	info      grid.Info
	mineCount int
	rnd       *rand.Rand

	planted bool
	mined   []bool
	counts  []int
	opened  []bool
	flagged []bool

	exploded bool
	scrolls  int
}

func NewGame(rows, cols, mineCount int, rnd *rand.Rand) *Game {
	g := &Game{
		info: grid.Info{
			CellSize: 100,
			OffsetX:  0,
			OffsetY:  200,
			Rows:     rows,
			Cols:     cols,
		},
		mineCount: mineCount,
		rnd:       rnd,
	}
	g.reset()
	return g
}

func (g *Game) reset() {
	n := g.info.Rows * g.info.Cols
	g.planted = false
	g.mined = make([]bool, n)
	g.counts = make([]int, n)
	g.opened = make([]bool, n)
	g.flagged = make([]bool, n)
	g.exploded = false
}

func (g *Game) Exploded() bool { return g.exploded }
func (g *Game) Scrolls() int   { return g.scrolls }

// Won reports whether every safe cell is open.
func (g *Game) Won() bool {
	if !g.planted {
		return false
	}
	for i := range g.opened {
		if !g.mined[i] && !g.opened[i] {
			return false
		}
	}
	return !g.exploded
}

// plant lays mines everywhere but the first opened cell, so the opening
// move is never fatal.
func (g *Game) plant(firstMove int) {
	n := g.info.Rows * g.info.Cols
	for placed := 0; placed < g.mineCount; {
		i := g.rnd.IntN(n)
		if i == firstMove || g.mined[i] {
			continue
		}
		g.mined[i] = true
		placed++
		for _, j := range g.neighbors(i) {
			g.counts[j]++
		}
	}
	g.planted = true
}

func (g *Game) neighbors(index int) (indices []int) {
	row, col := index/g.info.Cols, index%g.info.Cols
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if 0 <= r && r < g.info.Rows && 0 <= c && c < g.info.Cols {
				indices = append(indices, r*g.info.Cols+c)
			}
		}
	}
	return
}

func (g *Game) open(index int) {
	if g.opened[index] || g.flagged[index] {
		return
	}
	if !g.planted {
		g.plant(index)
	}
	if g.mined[index] {
		g.exploded = true
		return
	}
	g.opened[index] = true
	if g.counts[index] == 0 {
		for _, j := range g.neighbors(index) {
			if !g.opened[j] {
				g.open(j)
			}
		}
	}
}

func (g *Game) cellIndexAt(x, y int) (int, bool) {
	col := (x - g.info.OffsetX) / g.info.CellSize
	row := (y - g.info.OffsetY) / g.info.CellSize
	if row < 0 || row >= g.info.Rows || col < 0 || col >= g.info.Cols {
		return 0, false
	}
	return row*g.info.Cols + col, true
}

// Scan renders the player's knowledge the way a device agent would.
func (g *Game) Scan(ctx context.Context) (*bot.Frame, error) {
	cells := make([]grid.Observation, len(g.mined))
	for i := range cells {
		switch {
		case g.exploded && g.mined[i]:
			cells[i] = grid.Observation{State: grid.Mine}
		case g.flagged[i]:
			cells[i] = grid.Observation{State: grid.Flagged}
		case g.opened[i]:
			cells[i] = grid.Observation{State: grid.Revealed, Value: g.counts[i]}
		default:
			cells[i] = grid.Observation{State: grid.Covered}
		}
	}
	return &bot.Frame{Info: g.info, Cells: cells}, nil
}

func (g *Game) Tap(ctx context.Context, x, y int) error {
	if g.exploded {
		return nil
	}
	if i, ok := g.cellIndexAt(x, y); ok {
		g.open(i)
	}
	return nil
}

func (g *Game) LongPress(ctx context.Context, x, y int) error {
	if g.exploded {
		return nil
	}
	if i, ok := g.cellIndexAt(x, y); ok && !g.opened[i] {
		g.flagged[i] = !g.flagged[i]
	}
	return nil
}

// Swipe moves the viewport onto virgin territory: the infinite board is
// modeled as a fresh region per scroll.
func (g *Game) Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error {
	g.scrolls++
	g.reset()
	return nil
}

// String renders the true board, handy when a simulation goes sideways.
func (g *Game) String() string {
	var b []byte
	for row := 0; row < g.info.Rows; row++ {
		for col := 0; col < g.info.Cols; col++ {
			i := row*g.info.Cols + col
			switch {
			case g.mined[i]:
				b = append(b, '*')
			default:
				b = append(b, strconv.Itoa(g.counts[i])[0])
			}
			b = append(b, ' ')
		}
		b = append(b, '\n')
	}
	return string(b)
}
