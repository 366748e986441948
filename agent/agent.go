// Package agent binds a chromosome to its compiled network and turns network
// outputs into grid moves. It is the only surface simulations need.
package agent

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/genogrid/genome"
	"github.com/pthm-cable/genogrid/neural"
)

// Position is a grid cell.
type Position struct {
	X, Y int
}

// Move is a single grid step; each component is -1, 0 or +1.
type Move struct {
	DX, DY int
}

// Agent pairs a chromosome with a freshly compiled network.
// Agents are not safe for concurrent use.
type Agent struct {
	chromosome genome.Chromosome
	network    *neural.Network
}

// New decodes c, executes it against a new graph compiler and builds the
// network. Random neurons draw from rng. Decode and missing-output failures
// are returned unchanged in the error chain.
func New(c genome.Chromosome, rng *rand.Rand) (*Agent, error) {
	prog, err := c.Program()
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	nw, err := neural.CompileProgram(prog, rng)
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	return &Agent{chromosome: c, network: nw}, nil
}

// DecideNextMove fires the network once for pos and converts both outputs to steps.
func (a *Agent) DecideNextMove(pos Position) Move {
	a.network.SetInputs(float64(pos.X), float64(pos.Y))
	a.network.Fire()
	return Move{
		DX: Step(a.network.OutputDX()),
		DY: Step(a.network.OutputDY()),
	}
}

// Chromosome returns the chromosome the agent was built from.
func (a *Agent) Chromosome() genome.Chromosome { return a.chromosome }

// Network exposes the compiled network, mainly for inspection.
func (a *Agent) Network() *neural.Network { return a.network }

// Step rounds a signal to the nearest integer (halves away from zero) and
// clamps it to -1, 0 or +1. NaN maps to 0.
func Step(signal float64) int {
	if math.IsNaN(signal) {
		return 0
	}
	r := math.Round(signal)
	switch {
	case r > 0:
		return 1
	case r < 0:
		return -1
	}
	return 0
}
