package genome

import (
	"fmt"
	"math/rand"
)

// Crossover recombines two parents at instruction granularity.
//
// When lengths differ, the shorter parent is left-padded with the longer
// parent's own leading instructions until both match. Each child position then
// takes the instruction of parent a or b on a fair coin. The child always
// decodes because only whole decoded instructions are copied.
func Crossover(rng *rand.Rand, a, b Chromosome) (Chromosome, error) {
	pa, err := a.Program()
	if err != nil {
		return Chromosome{}, fmt.Errorf("crossover parent a: %w", err)
	}
	pb, err := b.Program()
	if err != nil {
		return Chromosome{}, fmt.Errorf("crossover parent b: %w", err)
	}

	pa, pb = equalize(pa, pb)

	child := make(Program, len(pa))
	for i := range child {
		if rng.Float64() < 0.5 {
			child[i] = pa[i]
		} else {
			child[i] = pb[i]
		}
	}
	return FromProgram(child), nil
}

// equalize pads the shorter program with a prefix of the longer one.
// TODO: padding from the shorter parent's own head would keep its wiring intact;
// switch once lineage experiments confirm the current bias is unwanted.
func equalize(a, b Program) (Program, Program) {
	switch {
	case len(a) < len(b):
		return pad(a, b), b
	case len(b) < len(a):
		return a, pad(b, a)
	}
	return a, b
}

func pad(short, long Program) Program {
	diff := len(long) - len(short)
	out := make(Program, 0, len(long))
	out = append(out, long[:diff]...)
	return append(out, short...)
}

// Reproducer applies crossover with a configured probability; otherwise the
// child is a copy of the first parent.
type Reproducer struct {
	Rate float64
}

// Reproduce returns a child of a and b.
func (r Reproducer) Reproduce(rng *rand.Rand, a, b Chromosome) (Chromosome, error) {
	if rng.Float64() >= r.Rate {
		return a, nil
	}
	return Crossover(rng, a, b)
}
