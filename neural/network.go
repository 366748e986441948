package neural

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/genogrid/genome"
)

// ErrInvalidGraph is returned when compiling a graph with out-of-range indices.
var ErrInvalidGraph = errors.New("invalid graph")

// NeuronKind is the variant of a neuron definition.
type NeuronKind uint8

const (
	KindInput NeuronKind = iota
	KindFixed
	KindRandom
	KindSum
	KindWeightedSum
	KindMin
	KindMax
)

var kindNames = [...]string{"input", "fixed", "random", "sum", "wsum", "min", "max"}

func (k NeuronKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// NeuronDef is one compiled neuron. Param is the fixed value or the weight.
type NeuronDef struct {
	Kind  NeuronKind
	Param float64
}

// Graph is the compiler output: neurons 0 and 1 are the X and Y inputs,
// Inputs maps a neuron to its ordered input neurons, DX and DY are the outputs.
type Graph struct {
	Neurons []NeuronDef
	Inputs  map[int][]int
	DX, DY  int
}

// Network is an executable graph. The plan is immutable; the inputs and the
// per-neuron signal cache are overwritten on each pass. A Network is not safe
// for concurrent use.
type Network struct {
	neurons []NeuronDef
	inputs  [][]int
	dx, dy  int
	rng     *rand.Rand

	x, y    float64
	signals []float64
}

// Compile turns a graph into a network. Random neurons draw from rng, which may
// be nil only if the graph has no random neurons.
func Compile(g Graph, rng *rand.Rand) (*Network, error) {
	n := len(g.Neurons)
	if n < genome.NumInputs {
		return nil, fmt.Errorf("%w: %d neurons, need at least %d", ErrInvalidGraph, n, genome.NumInputs)
	}
	if g.DX < 0 || g.DY < 0 {
		return nil, &MissingOutputError{DX: g.DX < 0, DY: g.DY < 0}
	}
	if g.DX >= n || g.DY >= n {
		return nil, fmt.Errorf("%w: output index out of range (dx=%d dy=%d, %d neurons)", ErrInvalidGraph, g.DX, g.DY, n)
	}

	inputs := make([][]int, n)
	for to, from := range g.Inputs {
		if to < 0 || to >= n {
			return nil, fmt.Errorf("%w: edge target %d out of range", ErrInvalidGraph, to)
		}
		for _, f := range from {
			if f < 0 || f >= n {
				return nil, fmt.Errorf("%w: edge source %d out of range", ErrInvalidGraph, f)
			}
		}
		inputs[to] = append([]int(nil), from...)
	}

	for _, def := range g.Neurons {
		if def.Kind == KindRandom && rng == nil {
			return nil, fmt.Errorf("%w: random neuron requires an rng", ErrInvalidGraph)
		}
	}

	return &Network{
		neurons: append([]NeuronDef(nil), g.Neurons...),
		inputs:  inputs,
		dx:      g.DX,
		dy:      g.DY,
		rng:     rng,
		signals: make([]float64, n),
	}, nil
}

// SetInputs binds the signals of the X and Y input neurons for the next pass.
func (nw *Network) SetInputs(x, y float64) {
	nw.x, nw.y = x, y
}

// Fire runs one synchronous pass, visiting neurons in ascending index order
// exactly once. An input that is not computed yet in this pass (the neuron
// itself or a later one) reads as 0.
func (nw *Network) Fire() {
	clear(nw.signals)
	for i, def := range nw.neurons {
		nw.signals[i] = nw.compute(i, def)
	}
}

func (nw *Network) compute(i int, def NeuronDef) float64 {
	switch def.Kind {
	case KindInput:
		switch i {
		case genome.XNeuron:
			return nw.x
		case genome.YNeuron:
			return nw.y
		}
		return 0
	case KindFixed:
		return def.Param
	case KindRandom:
		return nw.rng.Float64()
	case KindSum:
		return nw.sum(i)
	case KindWeightedSum:
		return nw.sum(i) * def.Param
	case KindMin:
		return nw.fold(i, func(a, b float64) float64 { return min(a, b) })
	case KindMax:
		return nw.fold(i, func(a, b float64) float64 { return max(a, b) })
	}
	return 0
}

func (nw *Network) sum(i int) float64 {
	var s float64
	for _, in := range nw.inputs[i] {
		s += nw.signals[in]
	}
	return s
}

// fold reduces the inputs of neuron i with f. No inputs yields 0.
func (nw *Network) fold(i int, f func(a, b float64) float64) float64 {
	in := nw.inputs[i]
	if len(in) == 0 {
		return 0
	}
	acc := nw.signals[in[0]]
	for _, j := range in[1:] {
		acc = f(acc, nw.signals[j])
	}
	return acc
}

// OutputDX returns the dX neuron's signal from the last pass.
func (nw *Network) OutputDX() float64 { return nw.signals[nw.dx] }

// OutputDY returns the dY neuron's signal from the last pass.
func (nw *Network) OutputDY() float64 { return nw.signals[nw.dy] }

// Signal returns the signal of neuron i from the last pass.
func (nw *Network) Signal(i int) float64 { return nw.signals[i] }

// Signals returns a copy of all signals from the last pass.
func (nw *Network) Signals() []float64 {
	return append([]float64(nil), nw.signals...)
}

// Len returns the neuron count.
func (nw *Network) Len() int { return len(nw.neurons) }

// Outputs returns the dX and dY neuron indices.
func (nw *Network) Outputs() (dx, dy int) { return nw.dx, nw.dy }
