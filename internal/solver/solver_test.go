package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

func newGrid(t *testing.T, rows, cols int) *grid.Grid {
	t.Helper()
	return grid.New(grid.Info{CellSize: 100, Rows: rows, Cols: cols})
}

func reveal(t *testing.T, g *grid.Grid, row, col, value int) {
	t.Helper()
	if err := g.ApplyObservation(row, col, grid.Observation{State: grid.Revealed, Value: value}); err != nil {
		t.Fatal(err)
	}
}

func flag(t *testing.T, g *grid.Grid, row, col int) {
	t.Helper()
	if err := g.ApplyObservation(row, col, grid.Observation{State: grid.Flagged}); err != nil {
		t.Fatal(err)
	}
}

func TestRuleAExhaustedCellRevealsNeighbors(t *testing.T) {
	// A revealed 2 with both its mines flagged and 3 covered neighbors
	// left: all 3 are provably safe.
	g := newGrid(t, 3, 3)
	reveal(t, g, 1, 1, 2)
	flag(t, g, 0, 0)
	flag(t, g, 0, 1)
	reveal(t, g, 0, 2, 1)
	reveal(t, g, 1, 0, 2)
	reveal(t, g, 1, 2, 1)
	// covered: (2,0) (2,1) (2,2)

	var moves []Move
	for _, m := range New().SafeMoves(g) {
		if m.Action == Reveal {
			moves = append(moves, m)
		}
	}
	assert.Len(t, moves, 3)
	targets := map[[2]int]bool{}
	for _, m := range moves {
		assert.Equal(t, 1.0, m.Confidence)
		targets[[2]int{m.Row, m.Col}] = true
	}
	assert.Equal(t, map[[2]int]bool{{2, 0}: true, {2, 1}: true, {2, 2}: true}, targets)
}

func TestRuleBSaturatedCellFlagsNeighbors(t *testing.T) {
	// A revealed 3 with 1 flag and exactly 2 covered neighbors: both
	// covered neighbors must be mines.
	g := newGrid(t, 2, 3)
	reveal(t, g, 0, 0, 0)
	reveal(t, g, 0, 1, 3)
	reveal(t, g, 0, 2, 1)
	flag(t, g, 1, 0)
	// covered: (1,1) (1,2)

	moves := New().SafeMoves(g)
	var flags []Move
	for _, m := range moves {
		if m.Action == Flag {
			flags = append(flags, m)
		}
	}
	assert.Len(t, flags, 2)
	for _, m := range flags {
		assert.Equal(t, 1.0, m.Confidence)
		assert.Equal(t, 1, m.Row)
	}
}

func TestNoMovesWithoutNumberedCells(t *testing.T) {
	g := newGrid(t, 3, 3)
	assert.Empty(t, New().SafeMoves(g))

	reveal(t, g, 1, 1, 0)
	assert.Empty(t, New().SafeMoves(g))
}

func TestMovesOnlyTargetCoveredCells(t *testing.T) {
	g := newGrid(t, 1, 3)
	reveal(t, g, 0, 0, 1)
	flag(t, g, 0, 1)
	reveal(t, g, 0, 2, 1)
	// No covered cell anywhere, so nothing can be proposed.
	assert.Empty(t, New().SafeMoves(g))
}

func TestDuplicateTargetsCollapse(t *testing.T) {
	// Both revealed 1s saturate on the same covered cell (0,1); the
	// output must carry exactly one flag move for it.
	g := newGrid(t, 1, 3)
	reveal(t, g, 0, 0, 1)
	reveal(t, g, 0, 2, 1)

	moves := New().SafeMoves(g)
	assert.Len(t, moves, 1)
	assert.Equal(t, Flag, moves[0].Action)
	assert.Equal(t, 0, moves[0].Row)
	assert.Equal(t, 1, moves[0].Col)
	// First-seen source wins the tie, and sources are scanned row-major.
	assert.Contains(t, moves[0].Reason, "(0,0)")
}

func TestContradictionResolvesByFirstSeen(t *testing.T) {
	// An inconsistent scan: the satisfied 1 at (0,0) proves (1,1) safe
	// while the 4 at (0,1) saturates on it. The solver does not detect
	// the conflict; the row-major earlier source simply wins.
	g := newGrid(t, 2, 3)
	reveal(t, g, 0, 0, 1)
	flag(t, g, 1, 0)
	reveal(t, g, 0, 1, 4) // inconsistent with the 1 next door, saturates
	// covered: (0,2) (1,1) (1,2)

	moves := New().SafeMoves(g)
	byTarget := map[[2]int]Action{}
	for _, m := range moves {
		byTarget[[2]int{m.Row, m.Col}] = m.Action
	}
	// (0,0) fires Rule A first (flag at (1,0) satisfies its 1) and
	// proposes Reveal (0,1)'s shared neighbor (1,1); (0,1) would flag
	// it. The earlier proposal survives.
	assert.Equal(t, Reveal, byTarget[[2]int{1, 1}])
}

func TestCenterOneWithFlaggedCornerRevealsRest(t *testing.T) {
	// 3x3, center revealed 1, corner (0,0) flagged: the flag satisfies
	// the 1, so all 7 remaining covered neighbors are safe.
	g := newGrid(t, 3, 3)
	reveal(t, g, 1, 1, 1)
	flag(t, g, 0, 0)

	moves := New().SafeMoves(g)
	assert.Len(t, moves, 7)
	for _, m := range moves {
		assert.Equal(t, Reveal, m.Action)
		assert.Equal(t, 1.0, m.Confidence)
		assert.False(t, m.Row == 0 && m.Col == 0)
		assert.False(t, m.Row == 1 && m.Col == 1)
	}
}
