// Command sweeper plays infinite Minesweeper through a phone-side agent:
// it scans the visible grid, deduces safe moves, taps them in and scrolls
// on once the viewport is exhausted. A small HTTP API exposes live state.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hash/maphash"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/wise-toddler/minesweper-solver/internal/app"
	"github.com/wise-toddler/minesweper-solver/internal/bot"
	"github.com/wise-toddler/minesweper-solver/internal/config"
	"github.com/wise-toddler/minesweper-solver/internal/device"
	"github.com/wise-toddler/minesweper-solver/internal/logging"
	"github.com/wise-toddler/minesweper-solver/internal/solver"
	"github.com/wise-toddler/minesweper-solver/internal/store"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func main() {
	godotenv.Load()

	log, err := logging.Setup()
	if err != nil {
		panic(err)
	}
	bot.SetLogger(log)
	solver.SetLogger(log)
	device.SetLogger(log)

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	botCfg, err := config.NewBot()
	if err != nil {
		log.Fatal(err)
	}
	deviceCfg, err := config.NewDevice()
	if err != nil {
		log.Fatal(err)
	}
	apiCfg, err := config.NewAPI()
	if err != nil {
		log.Fatal(err)
	}

	agent, err := device.Dial(ctx, deviceCfg)
	if err != nil {
		log.Fatal(err)
	}

	var runs *store.Store
	if path := config.DatabasePath(); path != "" {
		if runs, err = store.Open(path); err != nil {
			log.Fatal(err)
		}
	}

	var (
		runID      = uuid.NewString()
		controller = bot.New(botCfg, agent, agent, createRand())
		startedAt  = time.Now().UTC()
	)
	log.WithField("runId", runID).Info("starting run")

	server := &http.Server{
		Addr: apiCfg.Addr,
		Handler: (&app.Application{
			Log:        log,
			Controller: controller,
			Runs:       runs,
			RunID:      runID,
			Stop:       cancel,
		}).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		outcome, err := controller.Run(gCtx)
		cancel()

		record := store.RunRecord{
			RunID:     runID,
			StartedAt: startedAt,
			EndedAt:   time.Now().UTC(),
			Outcome:   outcome,
			Stats:     controller.Stats(),
		}
		if err != nil {
			record.FailReason = err.Error()
		}
		if runs != nil {
			if saveErr := runs.SaveRun(record); saveErr != nil {
				log.WithError(saveErr).Error("failed to save run record")
			}
		}
		log.WithFields(map[string]any{
			"outcome": outcome,
			"moves":   record.Stats.Moves,
			"reveals": record.Stats.Reveals,
			"flags":   record.Stats.Flags,
			"scrolls": record.Stats.Scrolls,
		}).Info("run finished")
		return err
	})

	g.Go(func() error {
		log.Infof("control api listening at http://localhost%s", apiCfg.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		sCtx, sCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer sCancel()
		return server.Shutdown(sCtx)
	})

	err = g.Wait()

	// os.Exit skips deferred calls, so close before deciding the exit code.
	if closeErr := agent.Close(); closeErr != nil {
		log.WithError(closeErr).Warn("failed to close agent connection")
	}
	if runs != nil {
		if closeErr := runs.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("failed to close run store")
		}
	}

	if err != nil {
		log.WithError(err).Error("run failed")
		os.Exit(1)
	}
}
