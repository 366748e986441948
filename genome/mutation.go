package genome

import (
	"fmt"
	"math/rand"
)

// MutateBits flips every bit of the chromosome independently with probability
// pBit. Tag bytes are not protected, so the result may fail to decode.
func MutateBits(rng *rand.Rand, c Chromosome, pBit float64) Chromosome {
	out := c.Bytes()
	for i := range out {
		out[i] ^= flipMask8(rng, pBit)
	}
	return Chromosome{data: out}
}

// MutateWeights flips bits of weighted-sum operands only, each of the 64 bits
// with probability pBit. Every tag byte and every other frame is left as is, so
// the opcode sequence never changes. A flipped exponent or sign bit can move
// the weight by orders of magnitude; that jump is intended.
func MutateWeights(rng *rand.Rand, c Chromosome, pBit float64) (Chromosome, error) {
	if _, err := c.Program(); err != nil {
		return Chromosome{}, fmt.Errorf("mutating weights: %w", err)
	}
	out := c.Bytes()
	frames := len(out) / InstructionSize
	for i := 0; i < frames; i++ {
		frame := out[i*InstructionSize : (i+1)*InstructionSize]
		if Opcode(frame[0]) != OpCreateWeightedSum {
			continue
		}
		for j := 1; j < InstructionSize; j++ {
			frame[j] ^= flipMask8(rng, pBit)
		}
	}
	return Chromosome{data: out}, nil
}

// flipMask8 draws eight Bernoulli trials, most significant bit first.
func flipMask8(rng *rand.Rand, p float64) byte {
	var mask byte
	for bit := 7; bit >= 0; bit-- {
		if rng.Float64() < p {
			mask |= 1 << bit
		}
	}
	return mask
}

// Mutator holds per-bit rates for both mutation operators.
type Mutator struct {
	BitRate    float64 // applied to the whole chromosome
	WeightRate float64 // applied to weighted-sum operands
}

// OnBits applies MutateBits with the configured bit rate.
func (m Mutator) OnBits(rng *rand.Rand, c Chromosome) Chromosome {
	return MutateBits(rng, c, m.BitRate)
}

// OnWeights applies MutateWeights with the configured weight rate.
func (m Mutator) OnWeights(rng *rand.Rand, c Chromosome) (Chromosome, error) {
	return MutateWeights(rng, c, m.WeightRate)
}

// Mutate applies weight mutation then bit mutation. A chromosome that no
// longer decodes skips weight mutation and only receives bit mutation.
func (m Mutator) Mutate(rng *rand.Rand, c Chromosome) Chromosome {
	if m.WeightRate > 0 {
		if mutated, err := m.OnWeights(rng, c); err == nil {
			c = mutated
		}
	}
	if m.BitRate > 0 {
		c = m.OnBits(rng, c)
	}
	return c
}
