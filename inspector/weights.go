package inspector

import (
	"math"

	"github.com/pthm-cable/genogrid/genome"
)

// WeightCounter tallies the structure of a program without building it.
type WeightCounter struct {
	Neurons   int            // created neurons, excluding the two inputs
	Edges     int            // read-from instructions
	Moves     int            // cursor moves
	Outputs   int            // output assignments, including overwrites
	Weights   []float64      // weighted-sum weights in program order
	Constants []float64      // fixed values in program order
	ByKind    map[string]int // created neurons per kind
}

// NewWeightCounter returns a zeroed counter.
func NewWeightCounter() *WeightCounter {
	return &WeightCounter{ByKind: make(map[string]int)}
}

// Count runs p against a fresh counter.
func Count(p genome.Program) *WeightCounter {
	wc := NewWeightCounter()
	p.Execute(wc)
	return wc
}

func (wc *WeightCounter) create(kind string) {
	wc.Neurons++
	wc.ByKind[kind]++
}

func (wc *WeightCounter) CreateFixed(v float64) {
	wc.create("fixed")
	wc.Constants = append(wc.Constants, v)
}

func (wc *WeightCounter) CreateRandom() { wc.create("random") }
func (wc *WeightCounter) CreateSum()    { wc.create("sum") }

func (wc *WeightCounter) CreateWeightedSum(w float64) {
	wc.create("wsum")
	wc.Weights = append(wc.Weights, w)
}

func (wc *WeightCounter) CreateMin()      { wc.create("min") }
func (wc *WeightCounter) CreateMax()      { wc.create("max") }
func (wc *WeightCounter) MoveTo(int)      { wc.Moves++ }
func (wc *WeightCounter) ReadFrom(int)    { wc.Edges++ }
func (wc *WeightCounter) SetOutputDX(int) { wc.Outputs++ }
func (wc *WeightCounter) SetOutputDY(int) { wc.Outputs++ }

// MaxAbsWeight returns the largest finite weight magnitude and how many weights
// are not finite.
func (wc *WeightCounter) MaxAbsWeight() (largest float64, nonFinite int) {
	for _, w := range wc.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			nonFinite++
			continue
		}
		largest = math.Max(largest, math.Abs(w))
	}
	return largest, nonFinite
}

var _ genome.Sink = (*WeightCounter)(nil)
