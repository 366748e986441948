package genome

import "math/rand"

// Seed chromosome factories. Each returns a program that assigns both outputs.

// Stationary never moves.
func Stationary() Chromosome {
	a := NewAssembler()
	a.CreateFixed(0)
	a.SetOutputDX(a.Current())
	a.SetOutputDY(a.Current())
	return a.Chromosome()
}

// Homing steers toward the target cell (tx, ty): each output is target - position.
func Homing(tx, ty float64) Chromosome {
	a := NewAssembler()
	axis := func(input int, target float64) int {
		a.CreateFixed(-target)
		offset := a.Current()
		a.CreateWeightedSum(-1)
		a.ReadFrom(input)
		a.ReadFrom(offset)
		return a.Current()
	}
	a.SetOutputDX(axis(a.XNeuron(), tx))
	a.SetOutputDY(axis(a.YNeuron(), ty))
	return a.Chromosome()
}

// Drifter moves in one constant direction drawn from rng.
func Drifter(rng *rand.Rand) Chromosome {
	dx := float64(rng.Intn(3) - 1)
	dy := float64(rng.Intn(3) - 1)

	a := NewAssembler()
	a.CreateFixed(dx)
	a.SetOutputDX(a.Last())
	a.CreateFixed(dy)
	a.SetOutputDY(a.Last())
	return a.Chromosome()
}

// RandomWalker takes a fresh random step on every decision: each axis is
// 2*r - 1 for a random-signal neuron r.
func RandomWalker() Chromosome {
	a := NewAssembler()
	axis := func() int {
		a.CreateRandom()
		r := a.Current()
		a.CreateWeightedSum(2)
		a.ReadFrom(r)
		scaled := a.Current()
		a.CreateFixed(-1)
		bias := a.Current()
		a.CreateSum()
		a.ReadFrom(scaled)
		a.ReadFrom(bias)
		return a.Current()
	}
	a.SetOutputDX(axis())
	a.SetOutputDY(axis())
	return a.Chromosome()
}

// RandomProgram returns n instructions with uniformly drawn opcodes followed by
// both output assignments. Scalars are normal with the given spread; index
// operands fall within twice the neuron count at the point they are emitted,
// so most reach past the end and exercise wrap-around.
func RandomProgram(rng *rand.Rand, n int, spread float64) Chromosome {
	a := NewAssembler()
	randomIndex := func() int {
		span := a.Len() * 2
		return rng.Intn(2*span+1) - span
	}
	for i := 0; i < n; i++ {
		op := Opcodes[rng.Intn(len(Opcodes))]
		switch op {
		case OpCreateFixed:
			a.CreateFixed(rng.NormFloat64() * spread)
		case OpCreateRandom:
			a.CreateRandom()
		case OpCreateSum:
			a.CreateSum()
		case OpCreateWeightedSum:
			a.CreateWeightedSum(rng.NormFloat64() * spread)
		case OpCreateMin:
			a.CreateMin()
		case OpCreateMax:
			a.CreateMax()
		case OpMoveTo:
			a.MoveTo(randomIndex())
		case OpReadFrom:
			a.ReadFrom(randomIndex())
		case OpSetOutputDX:
			a.SetOutputDX(randomIndex())
		case OpSetOutputDY:
			a.SetOutputDY(randomIndex())
		}
	}
	a.SetOutputDX(randomIndex())
	a.SetOutputDY(randomIndex())
	return a.Chromosome()
}
