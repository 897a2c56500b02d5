// Command simulate plays batches of headless games against the built-in
// simulator, which is how solver changes get validated without a device.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/wise-toddler/minesweper-solver/internal/bot"
	"github.com/wise-toddler/minesweper-solver/internal/config"
	"github.com/wise-toddler/minesweper-solver/internal/logging"
	"github.com/wise-toddler/minesweper-solver/internal/sim"
	"github.com/wise-toddler/minesweper-solver/internal/solver"
)

var (
	rows  = flag.Int("rows", 12, "board rows")
	cols  = flag.Int("cols", 8, "board columns")
	mines = flag.Int("mines", 14, "mines per board")
	games = flag.Int("games", 100, "number of games to play")
	seed  = flag.Uint64("seed", 1, "rng seed")
)

func main() {
	flag.Parse()
	godotenv.Load()

	log, err := logging.Setup()
	if err != nil {
		panic(err)
	}
	// Per-move logging would swamp a batch run.
	if !config.Development() {
		log.SetLevel(logrus.WarnLevel)
	}
	bot.SetLogger(log)
	solver.SetLogger(log)

	cfg, err := config.NewBot()
	if err != nil {
		log.Fatal(err)
	}
	cfg.ScrollEnabled = false // finite boards, one per game
	cfg.MoveDelay = 0

	var (
		rnd              = rand.New(rand.NewPCG(*seed, *seed^0x9e3779b9))
		bar              = pb.StartNew(*games)
		won, lost, stuck int
		totalMoves       int
	)

	for range *games {
		game := sim.NewGame(*rows, *cols, *mines, rnd)
		controller := bot.New(cfg, game, game, rnd)

		outcome, err := controller.Run(context.Background())
		if err != nil && outcome != bot.OutcomeStuck {
			log.Fatal(err)
		}

		switch {
		case game.Won():
			won++
		case game.Exploded():
			lost++
		default:
			stuck++
		}
		totalMoves += controller.Stats().Moves
		bar.Increment()
	}
	bar.Finish()

	fmt.Printf("games:  %d (%dx%d, %d mines)\n", *games, *rows, *cols, *mines)
	fmt.Printf("won:    %d (%.1f%%)\n", won, 100*float64(won)/float64(*games))
	fmt.Printf("lost:   %d\n", lost)
	fmt.Printf("stuck:  %d\n", stuck)
	fmt.Printf("moves:  %.1f avg\n", float64(totalMoves)/float64(*games))

	if won == 0 {
		os.Exit(1)
	}
}
