package solver

type Action int

const (
	Reveal Action = iota
	Flag
)

func (a Action) String() string {
	if a == Flag {
		return "flag"
	}
	return "reveal"
}

// Move is a proposed action against a single covered cell. Moves are
// produced fresh each solving cycle and never persisted.
type Move struct {
	Row, Col   int
	Action     Action
	Confidence float64
	Reason     string
}

// dedupe keys moves by target coordinate, keeping the highest-confidence
// entry and breaking ties by first-seen order. Source cells are visited
// in row-major order, so the tie-break is deterministic. A Reveal/Flag
// contradiction between two source cells (a mis-scanned frame) resolves
// the same way; see the tie-break note in solver.go.
func dedupe(moves []Move) []Move {
	type key struct{ row, col int }
	var (
		seen = make(map[key]int, len(moves))
		out  = make([]Move, 0, len(moves))
	)
	for _, m := range moves {
		k := key{m.Row, m.Col}
		if i, ok := seen[k]; ok {
			if m.Confidence > out[i].Confidence {
				out[i] = m
			}
			continue
		}
		seen[k] = len(out)
		out = append(out, m)
	}
	return out
}
