package genome

import "math"

// Sink is the capability set a Program executes against.
// The graph compiler implements it to build a network; introspection tools
// implement it to extract structure instead.
type Sink interface {
	CreateFixed(v float64)
	CreateRandom()
	CreateSum()
	CreateWeightedSum(w float64)
	CreateMin()
	CreateMax()
	MoveTo(index int)
	ReadFrom(index int)
	SetOutputDX(index int)
	SetOutputDY(index int)
}

// Reserved neuron indices for the position inputs.
const (
	XNeuron = 0
	YNeuron = 1

	// NumInputs is the number of reserved neurons present before any create.
	NumInputs = 2
)

// Wrap normalizes index into [0, n) by floor-modulo. n must be positive.
func Wrap(index, n int) int {
	m := index % n
	if m < 0 {
		m += n
	}
	return m
}

// OperandIndex converts a float64 operand to a neuron index by truncation
// toward zero. NaN yields 0 and out-of-range values saturate.
func OperandIndex(arg float64) int {
	switch {
	case math.IsNaN(arg):
		return 0
	case arg >= math.MaxInt32:
		return math.MaxInt32
	case arg <= math.MinInt32:
		return math.MinInt32
	}
	return int(arg)
}

// Cursor tracks the current neuron and the neuron count of a graph under
// construction. The zero value is not usable; start from NewCursor.
type Cursor struct {
	pos   int
	count int
}

// NewCursor returns a cursor over the reserved input neurons, pointing at X.
func NewCursor() Cursor {
	return Cursor{pos: XNeuron, count: NumInputs}
}

// Len returns the current neuron count.
func (c *Cursor) Len() int { return c.count }

// Current returns the neuron under the cursor.
func (c *Cursor) Current() int { return c.pos }

// First returns the first neuron.
func (c *Cursor) First() int { return 0 }

// Last returns the most recently appended neuron.
func (c *Cursor) Last() int { return c.count - 1 }

// Previous returns the neuron before the cursor, wrapping.
func (c *Cursor) Previous() int { return Wrap(c.pos-1, c.count) }

// Next returns the neuron after the cursor, wrapping.
func (c *Cursor) Next() int { return Wrap(c.pos+1, c.count) }

// At resolves an absolute, possibly out-of-range, index.
func (c *Cursor) At(index int) int { return Wrap(index, c.count) }

// XNeuron returns the X position input.
func (c *Cursor) XNeuron() int { return XNeuron }

// YNeuron returns the Y position input.
func (c *Cursor) YNeuron() int { return YNeuron }

// Append grows the neuron count by one and moves the cursor onto the new neuron.
func (c *Cursor) Append() int {
	c.pos = c.count
	c.count++
	return c.pos
}

// MoveTo sets the cursor to index wrapped against the current count.
func (c *Cursor) MoveTo(index int) int {
	c.pos = Wrap(index, c.count)
	return c.pos
}
