package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
	"github.com/wise-toddler/minesweper-solver/internal/config"
	"github.com/wise-toddler/minesweper-solver/internal/grid"
	"github.com/wise-toddler/minesweper-solver/internal/solver"
)

var log = logrus.New()

func SetLogger(l *logrus.Logger) { log = l }

type State int32

const (
	Initializing State = iota
	Running
	Recovering
	Scrolling
	Stopped
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Recovering:
		return "recovering"
	case Scrolling:
		return "scrolling"
	case Stopped:
		return "stopped"
	default:
		return "invalid"
	}
}

type Outcome string

const (
	OutcomeSolved    Outcome = "solved"
	OutcomeStuck     Outcome = "stuck"
	OutcomeCancelled Outcome = "cancelled"
)

// ErrStuck is the single unsuccessful way out of the loop: no safe move,
// no acceptable guess and no scroll left to try.
var ErrStuck = errors.New("no safe move, no acceptable guess, no scroll available")

// Controller drives capture -> solve -> act cycles against an unbounded
// board. Strictly sequential: an action's effect is only ever observed
// by the next scan, and cancellation is checked between iterations, not
// mid-iteration. The grid is owned and mutated here alone; the solving
// stack only reads it. gridMu covers the status API the same way the
// Stats mutex does: every write to the grid happens under it, so
// GridSnapshot can read from another goroutine.
type Controller struct {
	cfg       *config.Bot
	observer  Observer
	actuator  Actuator
	solver    *solver.Solver
	estimator *solver.Estimator
	rnd       *rand.Rand

	gridMu  sync.Mutex
	grid    *grid.Grid
	pending deque.Deque[solver.Move]
	stats   *Stats
	state   atomic.Int32
}

func New(cfg *config.Bot, obs Observer, act Actuator, rnd *rand.Rand) *Controller {
	est := solver.NewEstimator()
	est.PriorDensity = cfg.PriorDensity
	est.MaxRisk = cfg.MaxRisk()
	return &Controller{
		cfg:       cfg,
		observer:  obs,
		actuator:  act,
		solver:    solver.New(),
		estimator: est,
		rnd:       rnd,
		stats:     newStats(),
	}
}

func (c *Controller) State() State         { return State(c.state.Load()) }
func (c *Controller) Stats() StatsSnapshot { return c.stats.Snapshot() }
func (c *Controller) setState(s State)     { c.state.Store(int32(s)) }

// GridSnapshot is nil before the first scan completes.
func (c *Controller) GridSnapshot() *grid.Snapshot {
	c.gridMu.Lock()
	defer c.gridMu.Unlock()
	if c.grid == nil {
		return nil
	}
	s := c.grid.Snapshot()
	return &s
}

// Run loops until the board is solved (with scrolling disabled), the
// context is cancelled, or the loop is stuck. The returned outcome is
// always set; err is non-nil only for stuck and transport failures.
func (c *Controller) Run(ctx context.Context) (Outcome, error) {
	c.setState(Initializing)
	defer c.setState(Stopped)
	c.stats.start()

	var (
		lastRevealed = -1
		streak       = 0
	)

	for {
		select {
		case <-ctx.Done():
			return OutcomeCancelled, nil
		default:
		}

		frame, err := c.observer.Scan(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return OutcomeCancelled, nil
			}
			return OutcomeStuck, err
		}
		c.applyFrame(frame)
		c.stats.countIteration()
		c.setState(Running)

		snap := c.grid.Snapshot()
		log.WithFields(logrus.Fields{
			"revealed": snap.Revealed,
			"covered":  snap.Covered,
			"flagged":  snap.Flagged,
		}).Debug("scan applied")

		if snap.Revealed == lastRevealed {
			streak++
		} else {
			streak = 0
			lastRevealed = snap.Revealed
		}
		c.stats.setStreak(streak)

		if streak >= c.cfg.NoProgressLimit {
			if !c.cfg.ScrollEnabled {
				return OutcomeStuck, ErrStuck
			}
			c.setState(Recovering)
			log.WithField("streak", streak).Warn("no progress, scrolling to recover")
			if err := c.scroll(ctx); err != nil {
				return OutcomeStuck, err
			}
			lastRevealed, streak = -1, 0
			continue
		}

		moves, guess := c.acquireMoves()
		if len(moves) == 0 {
			if c.grid.IsSolved() {
				if !c.cfg.ScrollEnabled {
					return OutcomeSolved, nil
				}
				c.setState(Scrolling)
				if err := c.scroll(ctx); err != nil {
					return OutcomeStuck, err
				}
				lastRevealed, streak = -1, 0
				continue
			}
			if !c.cfg.ScrollEnabled {
				return OutcomeStuck, ErrStuck
			}
			c.setState(Recovering)
			if err := c.scroll(ctx); err != nil {
				return OutcomeStuck, err
			}
			lastRevealed, streak = -1, 0
			continue
		}

		if err := c.dispatch(ctx, moves, guess); err != nil {
			return OutcomeStuck, err
		}

		if c.cfg.ScrollEnabled && c.grid.CoverageRatio() >= c.cfg.ScrollCoverage {
			c.setState(Scrolling)
			log.WithField("coverage", c.grid.CoverageRatio()).Info("viewport exhausted, scrolling")
			if err := c.scroll(ctx); err != nil {
				return OutcomeStuck, err
			}
			lastRevealed, streak = -1, 0
		}
	}
}

// applyFrame rebuilds the grid whenever geometry changes (first scan, or
// the viewport moved under us) and overwrites cell knowledge otherwise.
func (c *Controller) applyFrame(frame *Frame) {
	c.gridMu.Lock()
	defer c.gridMu.Unlock()
	if c.grid == nil || c.grid.Info != frame.Info {
		c.grid = grid.New(frame.Info)
	}
	for i, obs := range frame.Cells {
		row, col := i/frame.Info.Cols, i%frame.Info.Cols
		if err := c.applyObservation(row, col, obs); err != nil {
			log.WithFields(logrus.Fields{
				"row": row, "col": col, "error": err,
			}).Warn("dropping malformed observation")
		}
	}
}

// Unclassifiable cells are treated as Covered by policy; the scanner
// reports them as Unknown and we do not let that poison the solver.
func (c *Controller) applyObservation(row, col int, obs grid.Observation) error {
	if obs.State == grid.Unknown {
		obs = grid.Observation{State: grid.Covered}
	}
	return c.grid.ApplyObservation(row, col, obs)
}

// acquireMoves picks this cycle's batch: deterministic deductions first,
// then a ranked guess, then a blind random cell. The second return is
// true when the batch is a guess rather than a deduction.
func (c *Controller) acquireMoves() ([]solver.Move, bool) {
	if moves := c.solver.SafeMoves(c.grid); len(moves) > 0 {
		return c.prioritize(moves), false
	}
	if c.cfg.UseAdvancedGuessing {
		if moves := c.estimator.Guess(c.grid); len(moves) > 0 {
			return moves, true
		}
	}
	if m := solver.RandomMove(c.grid, c.rnd); m != nil {
		log.WithFields(logrus.Fields{"row": m.Row, "col": m.Col}).Info("no acceptable guess, picking blind")
		return []solver.Move{*m}, true
	}
	return nil, false
}

// prioritize orders a deduced batch by the flag-first policy. Order is
// otherwise preserved, so the row-major tie-break survives.
func (c *Controller) prioritize(moves []solver.Move) []solver.Move {
	var first, rest []solver.Move
	want := solver.Flag
	if !c.cfg.FlagFirst {
		want = solver.Reveal
	}
	for _, m := range moves {
		if m.Action == want {
			first = append(first, m)
		} else {
			rest = append(rest, m)
		}
	}
	return append(first, rest...)
}

// dispatch applies up to MaxMovesPerCycle moves through the actuator.
// Remaining moves are dropped; they are recomputed from fresher state
// next cycle anyway. Actuator errors are fatal: the transport is gone.
func (c *Controller) dispatch(ctx context.Context, moves []solver.Move, guess bool) error {
	c.pending.Clear()
	for _, m := range moves {
		c.pending.PushBack(m)
	}
	limit := c.cfg.MaxMovesPerCycle
	if limit <= 0 {
		limit = 1
	}
	for n := 0; n < limit && c.pending.Len() > 0; n++ {
		m := c.pending.PopFront()
		x, y := c.grid.Info.CellCenter(m.Row, m.Col)
		log.WithFields(logrus.Fields{
			"action":     m.Action.String(),
			"row":        m.Row,
			"col":        m.Col,
			"confidence": m.Confidence,
			"reason":     m.Reason,
		}).Info("dispatching move")

		var err error
		if m.Action == solver.Flag {
			err = c.actuator.LongPress(ctx, x, y)
		} else {
			err = c.actuator.Tap(ctx, x, y)
		}
		if err != nil {
			return err
		}
		c.stats.countMove(m.Action == solver.Flag, guess)
		c.wait(ctx)
	}
	return nil
}

// scroll swipes the viewport forward and discards the grid, since every
// coordinate mapping it held is now meaningless.
func (c *Controller) scroll(ctx context.Context) error {
	info := c.grid.Info
	var (
		cx    = info.OffsetX + info.Cols*info.CellSize/2
		cy    = info.OffsetY + info.Rows*info.CellSize/2
		dist  = c.cfg.ScrollDistance
		fromY = cy + dist/2
		toY   = cy - dist/2
	)
	if err := c.actuator.Swipe(ctx, cx, fromY, cx, toY, 300*time.Millisecond); err != nil {
		return err
	}
	c.stats.countScroll()
	c.gridMu.Lock()
	c.grid = nil
	c.gridMu.Unlock()
	c.wait(ctx)
	return nil
}

// wait is the animation-latency pause between an action and the next
// observation. A scheduling courtesy to the game, not a correctness
// requirement; it still honors cancellation.
func (c *Controller) wait(ctx context.Context) {
	if c.cfg.MoveDelay <= 0 {
		return
	}
	t := time.NewTimer(c.cfg.MoveDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
