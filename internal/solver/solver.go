package solver

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

var log = logrus.New()

// SetLogger replaces the package logger, so the binaries can point every
// package at one configured instance.
func SetLogger(l *logrus.Logger) { log = l }

// Solver derives zero-risk moves by single-constraint propagation over
// revealed numbered cells. It reads the grid and never writes it; the
// controller applies moves to the real game and the next scan reflects
// their effect.
//
// Deliberately not a full multi-constraint linear solver: one numbered
// cell at a time, the two classical rules. Full rescans every call are
// cheap next to the capture cost, so there is no dirty tracking.
type Solver struct{}

func New() *Solver { return &Solver{} }

// SafeMoves runs one full row-major pass and returns deduplicated moves,
// all confidence 1.0.
//
// Per revealed cell with value N, F flagged and U covered neighbors:
// when F == N every covered neighbor is safe to reveal; when F+U == N
// every covered neighbor is a mine to flag. Both guards require U > 0,
// which also makes the two rules disjoint for a single source cell.
// Contradicting proposals from different source cells only happen on an
// inconsistent scan; dedupe keeps whichever came first in row-major
// order rather than raising an error.
func (s *Solver) SafeMoves(g *grid.Grid) []Move {
	var moves []Move
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			cell := g.CellAt(row, col)
			if cell.State != grid.Revealed || cell.Value == 0 {
				continue
			}
			var (
				flagged = g.CountNeighbors(row, col, grid.Flagged)
				covered = g.CountNeighbors(row, col, grid.Covered)
			)
			if covered == 0 {
				continue
			}
			switch {
			case flagged == cell.Value:
				moves = append(moves, s.neighborMoves(g, row, col, Reveal)...)
			case flagged+covered == cell.Value:
				moves = append(moves, s.neighborMoves(g, row, col, Flag)...)
			}
		}
	}
	moves = dedupe(moves)
	if len(moves) > 0 {
		log.WithField("count", len(moves)).Debug("deduced safe moves")
	}
	return moves
}

func (s *Solver) neighborMoves(g *grid.Grid, row, col int, action Action) (moves []Move) {
	for _, n := range g.Neighbors(row, col) {
		if n.Cell.State != grid.Covered {
			continue
		}
		moves = append(moves, Move{
			Row:        n.Row,
			Col:        n.Col,
			Action:     action,
			Confidence: 1.0,
			Reason:     fmt.Sprintf("%s satisfied by (%d,%d)=%d", action, row, col, g.CellAt(row, col).Value),
		})
	}
	return
}
