package inspector

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/genogrid/genome"
)

// LayerDescriber groups neurons into layers by their longest path from a
// source. Inputs, constants, random neurons and neurons without inputs sit in
// layer 0. Edges from a neuron that is not evaluated earlier in the pass
// (itself or a later index) carry no signal and do not add depth.
type LayerDescriber struct {
	cur    genome.Cursor
	kinds  []string
	inputs map[int][]int
	dx, dy int
}

// NewLayerDescriber returns an empty describer.
func NewLayerDescriber() *LayerDescriber {
	return &LayerDescriber{
		cur:    genome.NewCursor(),
		kinds:  []string{"x", "y"},
		inputs: make(map[int][]int),
		dx:     -1,
		dy:     -1,
	}
}

func (l *LayerDescriber) create(kind string) {
	l.kinds = append(l.kinds, kind)
	l.cur.Append()
}

func (l *LayerDescriber) CreateFixed(float64)       { l.create("fixed") }
func (l *LayerDescriber) CreateRandom()             { l.create("random") }
func (l *LayerDescriber) CreateSum()                { l.create("sum") }
func (l *LayerDescriber) CreateWeightedSum(float64) { l.create("wsum") }
func (l *LayerDescriber) CreateMin()                { l.create("min") }
func (l *LayerDescriber) CreateMax()                { l.create("max") }
func (l *LayerDescriber) MoveTo(index int)          { l.cur.MoveTo(index) }

func (l *LayerDescriber) ReadFrom(index int) {
	cur := l.cur.Current()
	l.inputs[cur] = append(l.inputs[cur], l.cur.At(index))
}

func (l *LayerDescriber) SetOutputDX(index int) { l.dx = l.cur.At(index) }
func (l *LayerDescriber) SetOutputDY(index int) { l.dy = l.cur.At(index) }

// Depths returns the layer of every neuron.
func (l *LayerDescriber) Depths() []int {
	depth := make([]int, len(l.kinds))
	for i := genome.NumInputs; i < len(l.kinds); i++ {
		for _, j := range l.inputs[i] {
			if j < i && depth[j]+1 > depth[i] {
				depth[i] = depth[j] + 1
			}
		}
	}
	return depth
}

// Layers returns neuron indices grouped by depth.
func (l *LayerDescriber) Layers() [][]int {
	depth := l.Depths()
	var layers [][]int
	for n, d := range depth {
		for len(layers) <= d {
			layers = append(layers, nil)
		}
		layers[d] = append(layers[d], n)
	}
	return layers
}

// String renders one line per layer, marking the output neurons.
func (l *LayerDescriber) String() string {
	var sb strings.Builder
	for d, layer := range l.Layers() {
		fmt.Fprintf(&sb, "L%d:", d)
		for _, n := range layer {
			fmt.Fprintf(&sb, " n%d:%s", n, l.kinds[n])
			if n == l.dx {
				sb.WriteString("[dX]")
			}
			if n == l.dy {
				sb.WriteString("[dY]")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var _ genome.Sink = (*LayerDescriber)(nil)
