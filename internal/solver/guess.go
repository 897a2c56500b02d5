package solver

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/wise-toddler/minesweper-solver/internal/grid"
)

// Estimator ranks covered cells by estimated mine probability when the
// deterministic pass comes up empty. It is a mean-field approximation:
// each covered cell averages the local mine density of its revealed
// numbered neighbors, and cells shared by several constraints are not
// treated as a coupled system.
type Estimator struct {
	// PriorDensity is assigned to covered cells with no revealed
	// numbered neighbor, an assumed board-wide mine density.
	PriorDensity float64
	// MaxRisk is the highest acceptable mine probability for a guess;
	// above it the estimator reports no acceptable guess.
	MaxRisk float64
	// Candidates caps how many ranked guesses are surfaced.
	Candidates int
}

func NewEstimator() *Estimator {
	return &Estimator{PriorDensity: 0.15, MaxRisk: 0.2, Candidates: 1}
}

// MineProbability estimates how likely the covered cell at (row, col)
// hides a mine. For each revealed numbered neighbor n the local density
// is (n.value - flagged neighbors of n) / covered neighbors of n; the
// estimate is their mean, clamped to [0,1].
func (e *Estimator) MineProbability(g *grid.Grid, row, col int) float64 {
	var (
		sum     float64
		sources int
	)
	for _, n := range g.Neighbors(row, col) {
		if n.Cell.State != grid.Revealed || n.Cell.Value == 0 {
			continue
		}
		covered := g.CountNeighbors(n.Row, n.Col, grid.Covered)
		if covered == 0 {
			continue
		}
		flagged := g.CountNeighbors(n.Row, n.Col, grid.Flagged)
		sum += float64(n.Cell.Value-flagged) / float64(covered)
		sources++
	}
	if sources == 0 {
		return e.PriorDensity
	}
	return clamp01(sum / float64(sources))
}

// Guess returns up to Candidates covered cells ranked safest-first, or
// nothing when even the best candidate is riskier than MaxRisk. The
// controller decides whether to fall back to a blind pick.
func (e *Estimator) Guess(g *grid.Grid) []Move {
	type scored struct {
		row, col int
		prob     float64
	}
	var cells []scored
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			if g.CellAt(row, col).State != grid.Covered {
				continue
			}
			cells = append(cells, scored{row, col, e.MineProbability(g, row, col)})
		}
	}
	if len(cells) == 0 {
		return nil
	}
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].prob < cells[j].prob })
	if cells[0].prob > e.MaxRisk {
		log.WithField("bestProb", cells[0].prob).Debug("no acceptable guess")
		return nil
	}
	limit := e.Candidates
	if limit <= 0 || limit > len(cells) {
		limit = len(cells)
	}
	moves := make([]Move, 0, limit)
	for _, c := range cells[:limit] {
		if c.prob > e.MaxRisk {
			break
		}
		moves = append(moves, Move{
			Row:        c.row,
			Col:        c.col,
			Action:     Reveal,
			Confidence: 1 - c.prob,
			Reason:     fmt.Sprintf("estimated mine probability %.2f", c.prob),
		})
	}
	return moves
}

// RandomMove picks an unweighted covered cell, the last resort when the
// estimator refuses every candidate. Explicitly marked as a blind guess.
func RandomMove(g *grid.Grid, r *rand.Rand) *Move {
	type point struct{ row, col int }
	var candidates []point
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			if g.CellAt(row, col).State == grid.Covered {
				candidates = append(candidates, point{row, col})
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	p := candidates[r.IntN(len(candidates))]
	return &Move{
		Row:        p.row,
		Col:        p.col,
		Action:     Reveal,
		Confidence: 0.5,
		Reason:     "blind guess",
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
