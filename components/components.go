// Package components defines ECS components for the arena.
package components

import "github.com/pthm-cable/genogrid/agent"

// Cell is a forager's position on the torus grid.
type Cell struct {
	X, Y int
}

// Forager holds one evaluated individual.
type Forager struct {
	Slot  int          // Index of the individual in the population being evaluated
	Brain *agent.Agent // Nil when the chromosome failed to compile
	Eaten int          // Food cells consumed
	Moves int          // Decisions that changed position
	Cells int          // Distinct cells visited, including the start
}

// Dead reports whether the forager has no brain. Dead foragers stay in
// place and never eat.
func (f *Forager) Dead() bool { return f.Brain == nil }
