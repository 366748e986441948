package genome

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Chromosome is an immutable serialized Program, the unit of heredity.
// Operators never modify a chromosome; they return a new one.
type Chromosome struct {
	data []byte
}

// NewChromosome copies data into a new chromosome.
func NewChromosome(data []byte) Chromosome {
	return Chromosome{data: bytes.Clone(data)}
}

// FromProgram serializes p into a chromosome.
func FromProgram(p Program) Chromosome {
	return Chromosome{data: p.Serialize()}
}

// ParseHex decodes a hex-encoded chromosome as produced by String.
func ParseHex(s string) (Chromosome, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Chromosome{}, fmt.Errorf("parsing chromosome: %w", err)
	}
	return Chromosome{data: data}, nil
}

// Bytes returns a copy of the raw bytes.
func (c Chromosome) Bytes() []byte {
	return bytes.Clone(c.data)
}

// Len returns the byte length.
func (c Chromosome) Len() int {
	return len(c.data)
}

// Instructions returns the number of whole frames.
func (c Chromosome) Instructions() int {
	return len(c.data) / InstructionSize
}

// Program decodes the chromosome.
func (c Chromosome) Program() (Program, error) {
	return Deserialize(c.data)
}

// Valid reports whether the chromosome decodes without error.
func (c Chromosome) Valid() bool {
	_, err := c.Program()
	return err == nil
}

// Equal reports byte equality.
func (c Chromosome) Equal(other Chromosome) bool {
	return bytes.Equal(c.data, other.data)
}

// String returns the hex encoding.
func (c Chromosome) String() string {
	return hex.EncodeToString(c.data)
}

// MarshalText implements encoding.TextMarshaler so chromosomes serialize as hex in JSON and YAML.
func (c Chromosome) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Chromosome) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
