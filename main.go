package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm-cable/genogrid/config"
	"github.com/pthm-cable/genogrid/evolve"
	"github.com/pthm-cable/genogrid/genome"
	"github.com/pthm-cable/genogrid/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	generations := flag.Int("generations", 0, "Generations to run (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, hall of fame and snapshots (overrides config)")
	resume := flag.String("resume", "", "Snapshot file to take the initial population from")
	snapshotEvery := flag.Int("snapshot-every", 0, "Write a population snapshot every N generations (0 = final only)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *generations > 0 {
		cfg.Population.Generations = *generations
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *resume, *snapshotEvery, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("run interrupted", "error", err)
			return
		}
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, resume string, snapshotEvery int, logger *slog.Logger) error {
	om, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	e := evolve.New(cfg, logger)

	var initial []genome.Chromosome
	if resume != "" {
		snap, err := telemetry.LoadSnapshot(resume)
		if err != nil {
			return err
		}
		initial = snap.Chromosomes()
		if len(initial) == 0 {
			return fmt.Errorf("resuming from %s: snapshot has no individuals", resume)
		}
		logger.Info("resuming", "snapshot", resume, "generation", snap.Generation, "population", len(initial))
	} else {
		initial = e.Seed()
	}

	logger.Info("starting evolution",
		"seed", cfg.Seed,
		"population", len(initial),
		"generations", cfg.Population.Generations,
		"elite", cfg.Population.Elite,
		"offspring", cfg.Derived.Offspring,
		"arena", cfg.Derived.Cells,
		"food", e.Arena().Food().Total(),
		"output_dir", om.Dir(),
	)

	lastGen := 0
	final, runErr := e.Run(ctx, initial, func(g evolve.Generation) error {
		lastGen = g.Index
		if err := om.WriteGeneration(g.Stats); err != nil {
			return err
		}
		if err := om.WritePerf(e.Perf().Stats(), g.Index); err != nil {
			return err
		}
		if snapshotEvery > 0 && g.Index > 0 && g.Index%snapshotEvery == 0 {
			if _, err := om.WriteSnapshot(snapshotOf(cfg, g.Index, g.Population)); err != nil {
				return err
			}
		}
		return nil
	})

	// Keep whatever the run produced, even when interrupted
	if err := om.WriteHallOfFame(e.HallOfFame()); err != nil {
		return err
	}
	if len(final) > 0 {
		path, err := om.WriteSnapshot(snapshotOf(cfg, lastGen, final))
		if err != nil {
			return err
		}
		if path != "" {
			logger.Info("snapshot saved", "path", path)
		}
	}
	if best, ok := e.HallOfFame().Best(); ok {
		logger.Info("best chromosome",
			"fitness", best.Fitness,
			"generation", best.Generation,
			"instructions", best.Chromosome.Instructions(),
			"hex", best.Chromosome.String(),
		)
	}
	return runErr
}

func snapshotOf(cfg *config.Config, generation int, pop evolve.Population) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        cfg.Seed,
		Generation:  generation,
		Individuals: make([]telemetry.IndividualState, len(pop)),
	}
	for i, ind := range pop {
		s.Individuals[i] = telemetry.IndividualState{
			Chromosome: ind.Chromosome,
			Fitness:    ind.Fitness,
			Valid:      ind.Valid,
		}
	}
	return s
}
