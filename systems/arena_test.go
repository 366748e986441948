package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/genogrid/agent"
	"github.com/pthm-cable/genogrid/config"
	"github.com/pthm-cable/genogrid/genome"
)

// fullFood covers every cell with food.
var fullFood = config.FoodConfig{Scale: 0.1, Octaves: 2, Threshold: -1, Regrow: true}

func mustAgent(t *testing.T, c genome.Chromosome) *agent.Agent {
	t.Helper()
	a, err := agent.New(c, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("agent.New failed: %v", err)
	}
	return a
}

// eastward moves +1 in X every decision.
func eastward() genome.Chromosome {
	return genome.FromProgram(genome.Program{
		genome.Fixed(1), genome.SetOutputDX(2),
		genome.Fixed(0), genome.SetOutputDY(3),
	})
}

func TestFoodFieldThresholds(t *testing.T) {
	full := NewFoodField(8, 6, fullFood, 1)
	if full.Total() != 48 || full.Remaining() != 48 {
		t.Errorf("threshold -1 should fill the grid, got total %d remaining %d", full.Total(), full.Remaining())
	}

	empty := NewFoodField(8, 6, config.FoodConfig{Scale: 0.1, Octaves: 2, Threshold: 2}, 1)
	if empty.Total() != 0 {
		t.Errorf("threshold 2 should leave the grid empty, got %d", empty.Total())
	}
}

func TestFoodFieldPatchesAreDeterministic(t *testing.T) {
	cfg := config.FoodConfig{Scale: 0.15, Octaves: 3, Threshold: 0.5}
	a := NewFoodField(32, 32, cfg, 77)
	b := NewFoodField(32, 32, cfg, 77)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if a.Has(x, y) != b.Has(x, y) {
				t.Fatalf("cell (%d,%d) differs between identical seeds", x, y)
			}
		}
	}
	t.Logf("food cells: %d of %d", a.Total(), 32*32)
}

func TestFoodFieldEatAndReset(t *testing.T) {
	f := NewFoodField(4, 4, fullFood, 3)
	if !f.Eat(1, 1) {
		t.Fatal("expected food at (1,1)")
	}
	if f.Eat(5, -3) {
		t.Error("(5,-3) wraps to (1,1) which was already eaten")
	}
	if f.Has(1, 1) || f.Remaining() != 15 {
		t.Errorf("after eating: has=%v remaining=%d", f.Has(1, 1), f.Remaining())
	}
	f.Reset()
	if !f.Has(1, 1) || f.Remaining() != 16 {
		t.Errorf("reset should restore food, remaining=%d", f.Remaining())
	}
}

func TestArenaStationaryEatsSpawnCell(t *testing.T) {
	arena := NewArena(config.ArenaConfig{Width: 10, Height: 10, Steps: 50, Food: fullFood}, 1, nil)
	results := arena.Evaluate([]*agent.Agent{mustAgent(t, genome.Stationary())}, rand.New(rand.NewSource(2)))

	r := results[0]
	if r.Eaten != 1 || r.Moves != 0 || r.Cells != 1 || r.Dead {
		t.Errorf("unexpected stationary result: %+v", r)
	}
}

func TestArenaEastwardWrapsAround(t *testing.T) {
	arena := NewArena(config.ArenaConfig{Width: 10, Height: 4, Steps: 25, Food: fullFood}, 1, nil)
	results := arena.Evaluate([]*agent.Agent{mustAgent(t, eastward())}, rand.New(rand.NewSource(5)))

	r := results[0]
	if r.Moves != 25 {
		t.Errorf("expected 25 moves, got %d", r.Moves)
	}
	// One row of the torus: ten cells, each eaten once
	if r.Cells != 10 || r.Eaten != 10 {
		t.Errorf("expected 10 cells and 10 food, got %+v", r)
	}
}

func TestArenaDeadForager(t *testing.T) {
	arena := NewArena(config.ArenaConfig{Width: 6, Height: 6, Steps: 10, Food: fullFood}, 1, nil)
	results := arena.Evaluate([]*agent.Agent{nil, mustAgent(t, eastward())}, rand.New(rand.NewSource(9)))

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0] != (Result{Dead: true}) {
		t.Errorf("dead forager should score nothing, got %+v", results[0])
	}
	if results[1].Dead || results[1].Eaten == 0 {
		t.Errorf("live forager should eat, got %+v", results[1])
	}
}

func TestArenaRepeatedEvaluationsAreIndependent(t *testing.T) {
	cfg := config.ArenaConfig{Width: 16, Height: 16, Steps: 40,
		Food: config.FoodConfig{Scale: 0.2, Octaves: 2, Threshold: 0.5, Regrow: true}}
	arena := NewArena(cfg, 11, nil)
	brains := []*agent.Agent{
		mustAgent(t, eastward()),
		mustAgent(t, genome.Homing(3, 3)),
		mustAgent(t, genome.Stationary()),
	}

	first := arena.Evaluate(brains, rand.New(rand.NewSource(4)))
	second := arena.Evaluate(brains, rand.New(rand.NewSource(4)))
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestArenaWithoutRegrowDepletes(t *testing.T) {
	cfg := config.ArenaConfig{Width: 10, Height: 1, Steps: 9,
		Food: config.FoodConfig{Scale: 0.1, Octaves: 1, Threshold: -1, Regrow: false}}
	arena := NewArena(cfg, 1, nil)
	brains := []*agent.Agent{mustAgent(t, eastward())}

	first := arena.Evaluate(brains, rand.New(rand.NewSource(1)))
	if first[0].Eaten != 10 {
		t.Fatalf("expected the whole row eaten, got %+v", first[0])
	}
	second := arena.Evaluate(brains, rand.New(rand.NewSource(1)))
	if second[0].Eaten != 0 || arena.Food().Remaining() != 0 {
		t.Errorf("food should stay eaten without regrow, got %+v", second[0])
	}
}
