package solver

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

func TestIsolatedCellGetsPrior(t *testing.T) {
	g := newGrid(t, 3, 3)
	e := NewEstimator()
	assert.Equal(t, 0.15, e.MineProbability(g, 1, 1))

	e.PriorDensity = 0.3
	assert.Equal(t, 0.3, e.MineProbability(g, 1, 1))
}

func TestCertainMineGetsProbabilityOne(t *testing.T) {
	// A revealed 1 whose only covered neighbor is (0,1): that neighbor
	// holds the mine with certainty.
	g := newGrid(t, 1, 3)
	reveal(t, g, 0, 0, 1)
	reveal(t, g, 0, 2, 1)

	e := NewEstimator()
	assert.Equal(t, 1.0, e.MineProbability(g, 0, 1))
}

func TestLocalDensityAveraging(t *testing.T) {
	// (1,0) neighbors a revealed 1 with 3 covered neighbors: density
	// 1/3 from a single source.
	g := newGrid(t, 2, 2)
	reveal(t, g, 0, 0, 1)

	e := NewEstimator()
	assert.InDelta(t, 1.0/3.0, e.MineProbability(g, 1, 0), 1e-9)
}

func TestFlagsReduceLocalDensity(t *testing.T) {
	g := newGrid(t, 2, 2)
	reveal(t, g, 0, 0, 1)
	flag(t, g, 0, 1)

	// One mine already flagged: remaining density (1-1)/2 = 0.
	e := NewEstimator()
	assert.Equal(t, 0.0, e.MineProbability(g, 1, 0))
}

func TestGuessPicksSafestCell(t *testing.T) {
	g := newGrid(t, 2, 2)
	reveal(t, g, 0, 0, 1)
	flag(t, g, 0, 1)
	// (1,0) and (1,1) both have density 0; row-major stable sort keeps
	// (1,0) first.
	e := NewEstimator()
	moves := e.Guess(g)
	require.Len(t, moves, 1)
	assert.Equal(t, Reveal, moves[0].Action)
	assert.Equal(t, 1, moves[0].Row)
	assert.Equal(t, 0, moves[0].Col)
	assert.Equal(t, 1.0, moves[0].Confidence)
}

func TestGuessRefusesRiskyCells(t *testing.T) {
	// Every covered cell is a certain mine; with a 20% risk budget the
	// estimator must report no acceptable guess.
	g := newGrid(t, 1, 3)
	reveal(t, g, 0, 0, 1)
	reveal(t, g, 0, 2, 1)

	e := NewEstimator()
	assert.Empty(t, e.Guess(g))
}

func TestGuessCandidateLimit(t *testing.T) {
	g := newGrid(t, 3, 3)
	e := NewEstimator()
	e.MaxRisk = 0.5 // the 0.15 prior qualifies everywhere
	e.Candidates = 3
	assert.Len(t, e.Guess(g), 3)
}

func TestGuessEmptyBoard(t *testing.T) {
	g := newGrid(t, 2, 2)
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			reveal(t, g, row, col, 0)
		}
	}
	assert.Empty(t, NewEstimator().Guess(g))
}

func TestRandomMove(t *testing.T) {
	g := newGrid(t, 2, 2)
	rnd := rand.New(rand.NewPCG(1, 2))

	m := RandomMove(g, rnd)
	require.NotNil(t, m)
	assert.Equal(t, Reveal, m.Action)
	assert.Equal(t, 0.5, m.Confidence)
	assert.Equal(t, grid.Covered, g.CellAt(m.Row, m.Col).State)
}

func TestRandomMoveNilWhenNothingCovered(t *testing.T) {
	g := newGrid(t, 1, 2)
	reveal(t, g, 0, 0, 0)
	flag(t, g, 0, 1)
	assert.Nil(t, RandomMove(g, rand.New(rand.NewPCG(1, 2))))
}
