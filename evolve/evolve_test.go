package evolve

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pthm-cable/genogrid/config"
	"github.com/pthm-cable/genogrid/genome"
	"github.com/pthm-cable/genogrid/inspector"
	"github.com/pthm-cable/genogrid/telemetry"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Seed = 5
	cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.Steps = 16, 16, 30
	cfg.Population.Size = 12
	cfg.Population.Generations = 4
	cfg.Population.Elite = 2
	cfg.Population.Tournament = 3
	cfg.Seeding.ProgramLength = 12
	cfg.Telemetry.HallOfFameSize = 5
	cfg.Telemetry.LogInterval = 1
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return cfg
}

func TestSeedIsDeterministic(t *testing.T) {
	cfg := smallConfig(t)
	a := New(cfg, quietLogger).Seed()
	b := New(cfg, quietLogger).Seed()

	if len(a) != cfg.Population.Size {
		t.Fatalf("Seed() returned %d chromosomes, want %d", len(a), cfg.Population.Size)
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("chromosome %d differs between identically seeded evolvers", i)
		}
		if !a[i].Valid() {
			t.Errorf("seed chromosome %d does not decode", i)
		}
	}
}

func TestSeedFactoriesOnly(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Seeding.RandomFraction = 0
	seeds := New(cfg, quietLogger).Seed()

	if !seeds[3].Equal(genome.Stationary()) || !seeds[2].Equal(genome.RandomWalker()) {
		t.Error("factory seeds should cycle homing, drifter, random walker, stationary")
	}
}

func TestEvaluateMarksInvalid(t *testing.T) {
	e := New(smallConfig(t), quietLogger)
	pop := e.Evaluate([]genome.Chromosome{
		genome.NewChromosome([]byte{0xEE, 0, 0, 0, 0, 0, 0, 0, 0}),
		genome.FromProgram(genome.Program{genome.Fixed(1)}),
		genome.RandomWalker(),
	})

	for i, want := range []bool{false, false, true} {
		if pop[i].Valid != want {
			t.Errorf("individual %d: Valid = %v, want %v", i, pop[i].Valid, want)
		}
	}
	for _, i := range []int{0, 1} {
		if pop[i].Fitness != 0 || !pop[i].Result.Dead {
			t.Errorf("invalid individual %d should be dead with fitness 0, got %+v", i, pop[i])
		}
	}
	if pop[2].Result.Moves == 0 {
		t.Error("random walker should move")
	}
}

func TestRankedAndBest(t *testing.T) {
	pop := Population{{Fitness: 2}, {Fitness: 5}, {Fitness: 2}, {Fitness: 9}}
	ranked := pop.Ranked()
	want := []int{3, 1, 0, 2}
	for i := range want {
		if ranked[i] != want[i] {
			t.Fatalf("Ranked() = %v, want %v", ranked, want)
		}
	}
	if best, ok := pop.Best(); !ok || best.Fitness != 9 {
		t.Errorf("Best() = %+v, %v", best, ok)
	}
	if _, ok := (Population{}).Best(); ok {
		t.Error("empty population has no best")
	}
}

func TestBreedKeepsElite(t *testing.T) {
	cfg := smallConfig(t)
	e := New(cfg, quietLogger)
	pop := e.Evaluate(e.Seed())
	ranked := pop.Ranked()

	next := e.Breed(pop)
	if len(next) != cfg.Population.Size {
		t.Fatalf("Breed() returned %d chromosomes, want %d", len(next), cfg.Population.Size)
	}
	for i := 0; i < cfg.Population.Elite; i++ {
		if !next[i].Equal(pop[ranked[i]].Chromosome) {
			t.Errorf("elite slot %d is not the rank-%d chromosome", i, i)
		}
	}
}

func TestBreedWithoutVariationCopiesParents(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Crossover.Rate = 0
	cfg.Mutation.BitRate = 0
	cfg.Mutation.WeightRate = 0
	e := New(cfg, quietLogger)
	pop := e.Evaluate(e.Seed())

	for i, c := range e.Breed(pop) {
		found := false
		for _, ind := range pop {
			if ind.Chromosome.Equal(c) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("offspring %d is not a copy of any parent", i)
		}
	}
}

func TestRunObservesEveryGeneration(t *testing.T) {
	cfg := smallConfig(t)
	e := New(cfg, quietLogger)

	var stats []telemetry.GenerationStats
	final, err := e.Run(context.Background(), e.Seed(), func(g Generation) error {
		if len(g.Population) != cfg.Population.Size {
			t.Errorf("generation %d has %d individuals", g.Index, len(g.Population))
		}
		stats = append(stats, g.Stats)
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(stats) != cfg.Population.Generations || len(final) != cfg.Population.Size {
		t.Fatalf("observed %d generations, final population %d", len(stats), len(final))
	}
	for i, s := range stats {
		if s.Generation != i {
			t.Errorf("stats %d labelled generation %d", i, s.Generation)
		}
		t.Logf("gen %d: max=%.0f mean=%.2f invalid=%d", i, s.FitnessMax, s.FitnessMean, s.Invalid)
	}

	best, ok := e.HallOfFame().Best()
	if !ok {
		t.Fatal("hall of fame should not be empty")
	}
	for _, s := range stats {
		if s.FitnessMax > best.Fitness {
			t.Errorf("hall of fame best %v below generation max %v", best.Fitness, s.FitnessMax)
		}
	}
	if e.Perf().Stats().AvgDuration <= 0 {
		t.Error("expected generation timings")
	}
}

func TestRunIsReproducible(t *testing.T) {
	run := func() []telemetry.GenerationStats {
		cfg := smallConfig(t)
		e := New(cfg, quietLogger)
		var out []telemetry.GenerationStats
		if _, err := e.Run(context.Background(), e.Seed(), func(g Generation) error {
			out = append(out, g.Stats)
			return nil
		}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("generation %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestRunCancelled(t *testing.T) {
	e := New(smallConfig(t), quietLogger)
	ctx, cancel := context.WithCancel(context.Background())

	observed := 0
	_, err := e.Run(ctx, e.Seed(), func(g Generation) error {
		observed++
		if g.Index == 1 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if observed != 2 {
		t.Errorf("expected 2 observed generations before cancellation, got %d", observed)
	}
}

func TestRunObserverError(t *testing.T) {
	e := New(smallConfig(t), quietLogger)
	stop := errors.New("stop")
	_, err := e.Run(context.Background(), e.Seed(), func(Generation) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("expected observer error, got %v", err)
	}
}

func TestOffspringStayInspectable(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Mutation.BitRate = 0.05
	e := New(cfg, quietLogger)
	pop := e.Evaluate(e.Seed())

	for _, c := range e.Breed(pop) {
		p, err := c.Program()
		if err != nil {
			continue
		}
		wc := inspector.Count(p)
		if wc.Neurons+wc.Edges+wc.Moves+wc.Outputs != len(p) {
			t.Errorf("counter missed instructions: %+v for %d instructions", wc, len(p))
		}
	}
}

func TestRunRejectsEmptyPopulation(t *testing.T) {
	e := New(smallConfig(t), quietLogger)
	observed := false
	_, err := e.Run(context.Background(), nil, func(Generation) error {
		observed = true
		return nil
	})
	if !errors.Is(err, ErrEmptyPopulation) {
		t.Fatalf("expected ErrEmptyPopulation, got %v", err)
	}
	if observed {
		t.Error("no generation should be observed")
	}
}
