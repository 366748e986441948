// Package systems runs agents headlessly on a torus grid and scores them.
package systems

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/genogrid/agent"
	"github.com/pthm-cable/genogrid/components"
	"github.com/pthm-cable/genogrid/config"
	"github.com/pthm-cable/genogrid/genome"
)

// Result is the outcome of one forager's evaluation.
type Result struct {
	Eaten int  // Food cells consumed; this is the fitness
	Moves int  // Decisions that changed position
	Cells int  // Distinct cells visited
	Dead  bool // No brain; all counters are zero
}

// Arena evaluates a batch of agents together on one food field. Foragers are
// ECS entities that live for a single Evaluate call.
type Arena struct {
	cfg     config.ArenaConfig
	world   *ecs.World
	mapper  *ecs.Map2[components.Cell, components.Forager]
	filter  *ecs.Filter2[components.Cell, components.Forager]
	food    *FoodField
	visited [][]bool
	logger  *slog.Logger
}

// NewArena creates an arena and generates its food field from seed.
func NewArena(cfg config.ArenaConfig, seed int64, logger *slog.Logger) *Arena {
	if logger == nil {
		logger = slog.Default()
	}
	world := ecs.NewWorld()
	return &Arena{
		cfg:    cfg,
		world:  world,
		mapper: ecs.NewMap2[components.Cell, components.Forager](world),
		filter: ecs.NewFilter2[components.Cell, components.Forager](world),
		food:   NewFoodField(cfg.Width, cfg.Height, cfg.Food, seed),
		logger: logger,
	}
}

// Food exposes the arena's food field.
func (a *Arena) Food() *FoodField { return a.food }

// Evaluate places every brain at a random cell drawn from rng and runs
// cfg.Steps ticks. Each tick visits foragers in spawn order; a forager moves
// by its decision and eats whatever food is on the cell it lands on. Several
// foragers may share a cell. Nil brains are dead: they are placed but never
// act. Results are indexed like brains.
func (a *Arena) Evaluate(brains []*agent.Agent, rng *rand.Rand) []Result {
	if a.cfg.Food.Regrow {
		a.food.Reset()
	}
	a.spawn(brains, rng)

	for step := 0; step < a.cfg.Steps; step++ {
		a.tick()
	}

	results := a.collect(len(brains))
	a.logger.Debug("arena_evaluated",
		"foragers", len(brains),
		"steps", a.cfg.Steps,
		"food_left", a.food.Remaining(),
	)
	return results
}

func (a *Arena) spawn(brains []*agent.Agent, rng *rand.Rand) {
	for len(a.visited) < len(brains) {
		a.visited = append(a.visited, make([]bool, a.cfg.Width*a.cfg.Height))
	}
	for slot, brain := range brains {
		clear(a.visited[slot])
		cell := components.Cell{X: rng.Intn(a.cfg.Width), Y: rng.Intn(a.cfg.Height)}
		forager := components.Forager{Slot: slot, Brain: brain}
		if !forager.Dead() {
			a.visit(&forager, cell)
		}
		a.mapper.NewEntity(&cell, &forager)
	}
}

func (a *Arena) tick() {
	query := a.filter.Query()
	for query.Next() {
		cell, forager := query.Get()
		if forager.Dead() {
			continue
		}
		m := forager.Brain.DecideNextMove(agent.Position{X: cell.X, Y: cell.Y})
		if m == (agent.Move{}) {
			continue
		}
		cell.X = genome.Wrap(cell.X+m.DX, a.cfg.Width)
		cell.Y = genome.Wrap(cell.Y+m.DY, a.cfg.Height)
		forager.Moves++
		a.visit(forager, *cell)
	}
}

// visit records cell for the forager and eats any food there.
func (a *Arena) visit(f *components.Forager, cell components.Cell) {
	seen := a.visited[f.Slot]
	i := cell.Y*a.cfg.Width + cell.X
	if !seen[i] {
		seen[i] = true
		f.Cells++
	}
	if a.food.Eat(cell.X, cell.Y) {
		f.Eaten++
	}
}

// collect gathers results and removes every forager from the world.
func (a *Arena) collect(n int) []Result {
	results := make([]Result, n)
	var toRemove []ecs.Entity

	query := a.filter.Query()
	for query.Next() {
		_, f := query.Get()
		results[f.Slot] = Result{
			Eaten: f.Eaten,
			Moves: f.Moves,
			Cells: f.Cells,
			Dead:  f.Dead(),
		}
		toRemove = append(toRemove, query.Entity())
	}

	// Removal must wait until the query is exhausted
	for _, e := range toRemove {
		a.world.RemoveEntity(e)
	}
	return results
}
