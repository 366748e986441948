// Package genome provides the instruction set, binary chromosome format and
// genetic operators for grid agents.
package genome

import "fmt"

// Opcode identifies an instruction on the wire.
// Tags are assigned explicitly; reordering the constants must not change them.
type Opcode uint8

const (
	OpCreateFixed       Opcode = 0
	OpCreateRandom      Opcode = 1
	OpCreateSum         Opcode = 2
	OpCreateWeightedSum Opcode = 3
	OpCreateMin         Opcode = 4
	OpCreateMax         Opcode = 5
	OpMoveTo            Opcode = 6
	OpReadFrom          Opcode = 7
	OpSetOutputDX       Opcode = 8
	OpSetOutputDY       Opcode = 9
)

// OperandKind describes how an instruction uses its float64 operand.
type OperandKind uint8

const (
	OperandNone   OperandKind = iota // operand ignored, encoded as 0.0
	OperandScalar                    // fixed value or weight
	OperandNeuron                    // neuron index, wrapped at resolution time
)

type opcodeInfo struct {
	name    string
	operand OperandKind
}

// opcodeTable is the authoritative tag table for the wire format.
var opcodeTable = map[Opcode]opcodeInfo{
	OpCreateFixed:       {"fixed", OperandScalar},
	OpCreateRandom:      {"random", OperandNone},
	OpCreateSum:         {"sum", OperandNone},
	OpCreateWeightedSum: {"wsum", OperandScalar},
	OpCreateMin:         {"min", OperandNone},
	OpCreateMax:         {"max", OperandNone},
	OpMoveTo:            {"move", OperandNeuron},
	OpReadFrom:          {"read", OperandNeuron},
	OpSetOutputDX:       {"out.dx", OperandNeuron},
	OpSetOutputDY:       {"out.dy", OperandNeuron},
}

// Opcodes lists every known opcode in tag order.
var Opcodes = []Opcode{
	OpCreateFixed,
	OpCreateRandom,
	OpCreateSum,
	OpCreateWeightedSum,
	OpCreateMin,
	OpCreateMax,
	OpMoveTo,
	OpReadFrom,
	OpSetOutputDX,
	OpSetOutputDY,
}

// Valid reports whether op is a known opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Operand returns how op uses its operand. Unknown opcodes report OperandNone.
func (op Opcode) Operand() OperandKind {
	return opcodeTable[op].operand
}

// Creates reports whether op appends a neuron.
func (op Opcode) Creates() bool {
	return op <= OpCreateMax
}

func (op Opcode) String() string {
	if info, ok := opcodeTable[op]; ok {
		return info.name
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}
