package bot

import (
	"sync"
	"time"
)

// Stats counts what the loop has done since it started. The loop itself
// is single-threaded; the mutex only exists so the status API can read
// a consistent snapshot while the loop runs.
type Stats struct {
	mu               sync.Mutex
	startedAt        time.Time
	moves            int
	reveals          int
	flags            int
	guesses          int
	scrolls          int
	iterations       int
	noProgressStreak int
}

type StatsSnapshot struct {
	Moves            int           `json:"moves"`
	Reveals          int           `json:"reveals"`
	Flags            int           `json:"flags"`
	Guesses          int           `json:"guesses"`
	Scrolls          int           `json:"scrolls"`
	Iterations       int           `json:"iterations"`
	NoProgressStreak int           `json:"no_progress_streak"`
	Elapsed          time.Duration `json:"elapsed"`
}

func newStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

// start restamps the clock so Elapsed measures the loop, not the
// dial-and-setup time between construction and the first iteration.
func (s *Stats) start() {
	s.mu.Lock()
	s.startedAt = time.Now()
	s.mu.Unlock()
}

func (s *Stats) countIteration() {
	s.mu.Lock()
	s.iterations++
	s.mu.Unlock()
}

func (s *Stats) countMove(flag, guess bool) {
	s.mu.Lock()
	s.moves++
	if flag {
		s.flags++
	} else {
		s.reveals++
	}
	if guess {
		s.guesses++
	}
	s.mu.Unlock()
}

func (s *Stats) countScroll() {
	s.mu.Lock()
	s.scrolls++
	s.mu.Unlock()
}

func (s *Stats) setStreak(streak int) {
	s.mu.Lock()
	s.noProgressStreak = streak
	s.mu.Unlock()
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Moves:            s.moves,
		Reveals:          s.reveals,
		Flags:            s.flags,
		Guesses:          s.guesses,
		Scrolls:          s.scrolls,
		Iterations:       s.iterations,
		NoProgressStreak: s.noProgressStreak,
		Elapsed:          time.Since(s.startedAt),
	}
}
