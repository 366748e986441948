// Package evolve runs the generational loop: evaluate every chromosome in
// the arena, keep the elite, and breed the rest by tournament selection,
// crossover and mutation.
package evolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/pthm-cable/genogrid/agent"
	"github.com/pthm-cable/genogrid/config"
	"github.com/pthm-cable/genogrid/genome"
	"github.com/pthm-cable/genogrid/systems"
	"github.com/pthm-cable/genogrid/telemetry"
)

// ErrEmptyPopulation is returned by Run when there is nothing to evolve.
var ErrEmptyPopulation = errors.New("empty population")

// Individual is an evaluated chromosome.
type Individual struct {
	Chromosome genome.Chromosome
	Fitness    float64
	Result     systems.Result
	Valid      bool // False when the chromosome failed to decode or compile
}

// Population is one evaluated generation, in evaluation order.
type Population []Individual

// Chromosomes returns the chromosomes in population order.
func (p Population) Chromosomes() []genome.Chromosome {
	out := make([]genome.Chromosome, len(p))
	for i, ind := range p {
		out[i] = ind.Chromosome
	}
	return out
}

// Ranked returns population indices by descending fitness. Ties keep
// population order.
func (p Population) Ranked() []int {
	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return p[idx[a]].Fitness > p[idx[b]].Fitness
	})
	return idx
}

// Best returns the fittest individual. Returns false for an empty population.
func (p Population) Best() (Individual, bool) {
	if len(p) == 0 {
		return Individual{}, false
	}
	return p[p.Ranked()[0]], true
}

// Samples converts the population for telemetry.
func (p Population) Samples() []telemetry.Sample {
	out := make([]telemetry.Sample, len(p))
	for i, ind := range p {
		out[i] = telemetry.Sample{
			Fitness:     ind.Fitness,
			Moves:       ind.Result.Moves,
			Cells:       ind.Result.Cells,
			GenomeBytes: ind.Chromosome.Len(),
			Valid:       ind.Valid,
		}
	}
	return out
}

// Generation is passed to observers after each evaluation.
type Generation struct {
	Index      int
	Population Population
	Stats      telemetry.GenerationStats
}

// Observer receives every evaluated generation. A non-nil error stops the run.
type Observer func(Generation) error

// Evolver owns the run state. All randomness comes from one RNG seeded from
// the config, so a run is reproducible from its seed. Not safe for concurrent use.
type Evolver struct {
	cfg        *config.Config
	rng        *rand.Rand
	arena      *systems.Arena
	reproducer genome.Reproducer
	mutator    genome.Mutator
	hof        *telemetry.HallOfFame
	perf       *telemetry.PerfCollector
	logger     *slog.Logger
}

// New creates an evolver for cfg. A nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Evolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evolver{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		arena:      systems.NewArena(cfg.Arena, cfg.Seed, logger),
		reproducer: genome.Reproducer{Rate: cfg.Crossover.Rate},
		mutator:    genome.Mutator{BitRate: cfg.Mutation.BitRate, WeightRate: cfg.Mutation.WeightRate},
		hof:        telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.LogInterval),
		logger:     logger,
	}
}

// HallOfFame returns the best chromosomes seen so far.
func (e *Evolver) HallOfFame() *telemetry.HallOfFame { return e.hof }

// Perf returns the generation timing collector.
func (e *Evolver) Perf() *telemetry.PerfCollector { return e.perf }

// Arena returns the evaluation arena.
func (e *Evolver) Arena() *systems.Arena { return e.arena }

// Seed creates the initial population. A random_fraction share are random
// programs; the rest cycle through the hand-written seed factories.
func (e *Evolver) Seed() []genome.Chromosome {
	s := e.cfg.Seeding
	out := make([]genome.Chromosome, e.cfg.Population.Size)
	for i := range out {
		if e.rng.Float64() < s.RandomFraction {
			out[i] = genome.RandomProgram(e.rng, s.ProgramLength, s.Spread)
			continue
		}
		switch i % 4 {
		case 0:
			out[i] = genome.Homing(
				float64(e.rng.Intn(e.cfg.Arena.Width)),
				float64(e.rng.Intn(e.cfg.Arena.Height)),
			)
		case 1:
			out[i] = genome.Drifter(e.rng)
		case 2:
			out[i] = genome.RandomWalker()
		default:
			out[i] = genome.Stationary()
		}
	}
	return out
}

// Evaluate compiles every chromosome and runs them together in the arena.
// Chromosomes that fail to compile become dead foragers with fitness 0.
func (e *Evolver) Evaluate(chromosomes []genome.Chromosome) Population {
	e.perf.StartPhase(telemetry.PhaseCompile)
	pop := make(Population, len(chromosomes))
	brains := make([]*agent.Agent, len(chromosomes))
	for i, c := range chromosomes {
		pop[i].Chromosome = c
		a, err := agent.New(c, e.rng)
		if err != nil {
			e.logger.Debug("invalid_offspring", "slot", i, "error", err)
			continue
		}
		brains[i] = a
		pop[i].Valid = true
	}

	e.perf.StartPhase(telemetry.PhaseEvaluate)
	for i, r := range e.arena.Evaluate(brains, e.rng) {
		pop[i].Result = r
		pop[i].Fitness = float64(r.Eaten)
	}
	return pop
}

// Breed produces the next generation's chromosomes. The elite are copied
// first, in rank order; every other slot is filled by reproducing two
// tournament winners and mutating the child.
func (e *Evolver) Breed(pop Population) []genome.Chromosome {
	next := make([]genome.Chromosome, 0, e.cfg.Population.Size)
	ranked := pop.Ranked()
	for _, i := range ranked[:min(e.cfg.Population.Elite, len(ranked))] {
		next = append(next, pop[i].Chromosome)
	}

	for len(next) < e.cfg.Population.Size {
		a := pop[e.tournament(pop)].Chromosome
		b := pop[e.tournament(pop)].Chromosome
		child, err := e.reproducer.Reproduce(e.rng, a, b)
		if err != nil {
			// Undecodable parent; fall back to copying the first
			child = a
		}
		next = append(next, e.mutator.Mutate(e.rng, child))
	}
	return next
}

// tournament draws Derived.Tournament contestants with replacement and
// returns the index of the fittest; ties go to the earliest draw.
func (e *Evolver) tournament(pop Population) int {
	best := e.rng.Intn(len(pop))
	for i := 1; i < e.cfg.Derived.Tournament; i++ {
		c := e.rng.Intn(len(pop))
		if pop[c].Fitness > pop[best].Fitness {
			best = c
		}
	}
	return best
}

// Run evolves from initial for the configured number of generations and
// returns the last evaluated population. An empty initial population is
// rejected with ErrEmptyPopulation. Cancellation is checked between
// generations; on cancellation the last complete population is returned
// with the context error.
func (e *Evolver) Run(ctx context.Context, initial []genome.Chromosome, observe Observer) (Population, error) {
	if len(initial) == 0 {
		return nil, fmt.Errorf("starting evolution: %w", ErrEmptyPopulation)
	}
	chromosomes := initial
	var last Population

	for gen := 0; gen < e.cfg.Population.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return last, fmt.Errorf("evolution stopped before generation %d: %w", gen, err)
		}

		e.perf.Start()
		last = e.Evaluate(chromosomes)

		e.perf.StartPhase(telemetry.PhaseTelemetry)
		stats := telemetry.ComputeGenerationStats(gen, last.Samples())
		stats.FoodRemaining = e.arena.Food().Remaining()
		for _, ind := range last {
			if ind.Valid {
				e.hof.Consider(ind.Chromosome, ind.Fitness, gen)
			}
		}
		if interval := e.cfg.Telemetry.LogInterval; interval > 0 && gen%interval == 0 {
			stats.LogStats(e.logger)
		}
		if observe != nil {
			if err := observe(Generation{Index: gen, Population: last, Stats: stats}); err != nil {
				return last, fmt.Errorf("observer at generation %d: %w", gen, err)
			}
		}

		e.perf.StartPhase(telemetry.PhaseBreed)
		if gen+1 < e.cfg.Population.Generations {
			chromosomes = e.Breed(last)
		}
		e.perf.End()
	}

	if best, ok := e.hof.Best(); ok {
		e.logger.Info("evolution_complete",
			"generations", e.cfg.Population.Generations,
			"best_fitness", best.Fitness,
			"best_generation", best.Generation,
		)
	}
	return last, nil
}
