package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/milk9111/ghostwave/prefabs"
)

func main() {
	difficulty := flag.String("difficulty", "", "difficulty tier: easy, medium or hard (default from difficulty.yaml)")
	seconds := flag.Float64("seconds", 600, "simulated seconds before giving up")
	dt := flag.Float64("dt", 1.0/60, "fixed timestep in seconds")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	bossOnly := flag.Bool("boss", false, "skip the waves and start the witch encounter")
	watch := flag.Bool("watch", false, "run in real time and reload edited prefabs")
	verbose := flag.Bool("v", false, "log effects and gauges")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game, err := NewGame(Options{Difficulty: *difficulty, Seed: *seed, BossOnly: *bossOnly, Logger: logger})
	if err != nil {
		logger.Error("game: setup failed", "error", err)
		os.Exit(1)
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			logger.Warn("game: prefab watcher disabled", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	if err := run(ctx, game, watcher, *seconds, *dt, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("game: run failed", "error", err)
		os.Exit(1)
	}

	sum := game.Summary()
	logger.Info("game: over", "scene", sum.Scene, "elapsed", sum.Elapsed, "score", sum.Score, "kills", sum.Kills, "wave", sum.Wave, "boss", sum.Boss)
	fmt.Printf("scene=%q elapsed=%.2fs score=%d kills=%d\n", sum.Scene, sum.Elapsed, sum.Score, sum.Kills)
}

// run steps the game at a fixed dt until a scene transition ends it or the
// budget runs out. With a watcher it paces steps to wall-clock time and
// applies reloads between ticks.
func run(ctx context.Context, game *Game, watcher *prefabs.Watcher, seconds, dt float64, logger *slog.Logger) error {
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", dt)
	}
	steps := int(seconds / dt)

	if watcher == nil {
		for i := 0; i < steps && !game.Finished(); i++ {
			if i%1024 == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			game.Update(dt)
		}
		return nil
	}

	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()
	events, errs := watcher.Events, watcher.Errors
	for i := 0; i < steps && !game.Finished(); {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case name, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := game.Reload(name); err != nil {
				logger.Warn("game: reload failed", "file", name, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("game: watcher error", "error", err)
		case <-ticker.C:
			game.Update(dt)
			i++
		}
	}
	return nil
}
