// Package neural compiles genome programs into neuron graphs and evaluates them.
package neural

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/pthm-cable/genogrid/genome"
)

// ErrMissingOutput is matched by every MissingOutputError.
var ErrMissingOutput = errors.New("missing output assignment")

// MissingOutputError reports a build attempted without both outputs assigned.
type MissingOutputError struct {
	DX, DY bool // true when that output is missing
}

func (e *MissingOutputError) Error() string {
	var missing []string
	if e.DX {
		missing = append(missing, "dX")
	}
	if e.DY {
		missing = append(missing, "dY")
	}
	return fmt.Sprintf("building network: %v: %s", ErrMissingOutput, strings.Join(missing, ", "))
}

func (e *MissingOutputError) Unwrap() error { return ErrMissingOutput }

// Builder is the graph compiler. Programs execute against it through the
// genome.Sink interface. Every index it receives is wrapped against the neuron
// count at that moment, so no program can reference a neuron out of bounds.
type Builder struct {
	cur genome.Cursor

	neurons []NeuronDef
	inputs  map[int][]int

	dx, dy       int
	hasDX, hasDY bool
}

// NewBuilder returns a builder holding only the X and Y input neurons.
func NewBuilder() *Builder {
	return &Builder{
		cur:     genome.NewCursor(),
		neurons: []NeuronDef{{Kind: KindInput}, {Kind: KindInput}},
		inputs:  make(map[int][]int),
	}
}

func (b *Builder) create(def NeuronDef) {
	b.neurons = append(b.neurons, def)
	b.cur.Append()
}

// CreateFixed appends a constant neuron.
func (b *Builder) CreateFixed(v float64) { b.create(NeuronDef{Kind: KindFixed, Param: v}) }

// CreateRandom appends a neuron that draws a fresh uniform value on every fire.
func (b *Builder) CreateRandom() { b.create(NeuronDef{Kind: KindRandom}) }

// CreateSum appends a summing neuron.
func (b *Builder) CreateSum() { b.create(NeuronDef{Kind: KindSum}) }

// CreateWeightedSum appends a neuron that scales the sum of its inputs by w.
func (b *Builder) CreateWeightedSum(w float64) {
	b.create(NeuronDef{Kind: KindWeightedSum, Param: w})
}

// CreateMin appends a minimum neuron.
func (b *Builder) CreateMin() { b.create(NeuronDef{Kind: KindMin}) }

// CreateMax appends a maximum neuron.
func (b *Builder) CreateMax() { b.create(NeuronDef{Kind: KindMax}) }

// MoveTo sets the cursor to index wrapped against the current neuron count.
func (b *Builder) MoveTo(index int) { b.cur.MoveTo(index) }

// ReadFrom wires neuron index as an input of the neuron under the cursor.
func (b *Builder) ReadFrom(index int) {
	cur := b.cur.Current()
	b.inputs[cur] = append(b.inputs[cur], b.cur.At(index))
}

// SetOutputDX designates the dX output neuron, replacing any earlier choice.
func (b *Builder) SetOutputDX(index int) {
	b.dx, b.hasDX = b.cur.At(index), true
}

// SetOutputDY designates the dY output neuron, replacing any earlier choice.
func (b *Builder) SetOutputDY(index int) {
	b.dy, b.hasDY = b.cur.At(index), true
}

// Len returns the neuron count, including the two inputs.
func (b *Builder) Len() int { return b.cur.Len() }

// Current returns the neuron under the cursor.
func (b *Builder) Current() int { return b.cur.Current() }

// First returns neuron 0.
func (b *Builder) First() int { return b.cur.First() }

// Previous returns the neuron before the cursor, wrapping.
func (b *Builder) Previous() int { return b.cur.Previous() }

// Next returns the neuron after the cursor, wrapping.
func (b *Builder) Next() int { return b.cur.Next() }

// Last returns the most recently created neuron.
func (b *Builder) Last() int { return b.cur.Last() }

// At resolves index against the current neuron count.
func (b *Builder) At(index int) int { return b.cur.At(index) }

// XNeuron returns the X input neuron.
func (b *Builder) XNeuron() int { return b.cur.XNeuron() }

// YNeuron returns the Y input neuron.
func (b *Builder) YNeuron() int { return b.cur.YNeuron() }

// Graph returns a deep copy of the graph built so far. Outputs that were never
// assigned are reported as -1.
func (b *Builder) Graph() Graph {
	g := Graph{
		Neurons: append([]NeuronDef(nil), b.neurons...),
		Inputs:  make(map[int][]int, len(b.inputs)),
		DX:      -1,
		DY:      -1,
	}
	for n, in := range b.inputs {
		g.Inputs[n] = append([]int(nil), in...)
	}
	if b.hasDX {
		g.DX = b.dx
	}
	if b.hasDY {
		g.DY = b.dy
	}
	return g
}

// Build finalizes the graph into a network whose random neurons draw from rng.
func (b *Builder) Build(rng *rand.Rand) (*Network, error) {
	if !b.hasDX || !b.hasDY {
		return nil, &MissingOutputError{DX: !b.hasDX, DY: !b.hasDY}
	}
	return Compile(b.Graph(), rng)
}

var _ genome.Sink = (*Builder)(nil)

// CompileProgram executes p against a fresh builder and builds the result.
func CompileProgram(p genome.Program, rng *rand.Rand) (*Network, error) {
	b := NewBuilder()
	p.Execute(b)
	return b.Build(rng)
}
