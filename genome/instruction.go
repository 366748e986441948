package genome

import (
	"encoding/binary"
	"fmt"
	"math"
)

// InstructionSize is the encoded width of every instruction:
// one tag byte followed by a big-endian IEEE-754 double.
const InstructionSize = 9

// Instruction is one opcode with its operand.
type Instruction struct {
	Op  Opcode
	Arg float64
}

// Fixed and friends construct instructions.
func Fixed(v float64) Instruction       { return Instruction{Op: OpCreateFixed, Arg: v} }
func Random() Instruction               { return Instruction{Op: OpCreateRandom} }
func Sum() Instruction                  { return Instruction{Op: OpCreateSum} }
func WeightedSum(w float64) Instruction { return Instruction{Op: OpCreateWeightedSum, Arg: w} }
func Min() Instruction                  { return Instruction{Op: OpCreateMin} }
func Max() Instruction                  { return Instruction{Op: OpCreateMax} }
func MoveTo(i int) Instruction          { return Instruction{Op: OpMoveTo, Arg: float64(i)} }
func ReadFrom(i int) Instruction        { return Instruction{Op: OpReadFrom, Arg: float64(i)} }
func SetOutputDX(i int) Instruction     { return Instruction{Op: OpSetOutputDX, Arg: float64(i)} }
func SetOutputDY(i int) Instruction     { return Instruction{Op: OpSetOutputDY, Arg: float64(i)} }

// AppendBinary appends the 9-byte encoding of in to dst.
// Operands of zero-argument opcodes are written as 0.0.
func (in Instruction) AppendBinary(dst []byte) []byte {
	arg := in.Arg
	if in.Op.Operand() == OperandNone {
		arg = 0
	}
	dst = append(dst, byte(in.Op))
	return binary.BigEndian.AppendUint64(dst, math.Float64bits(arg))
}

// MarshalBinary returns the 9-byte encoding of in.
func (in Instruction) MarshalBinary() ([]byte, error) {
	return in.AppendBinary(make([]byte, 0, InstructionSize)), nil
}

// UnmarshalBinary decodes a single frame into in.
func (in *Instruction) UnmarshalBinary(frame []byte) error {
	decoded, err := DecodeInstruction(frame)
	if err != nil {
		return err
	}
	*in = decoded
	return nil
}

// DecodeInstruction decodes the first InstructionSize bytes of frame.
// An unknown tag yields a *DecodeError with offset 0.
func DecodeInstruction(frame []byte) (Instruction, error) {
	return decodeAt(frame, 0)
}

func decodeAt(frame []byte, offset int) (Instruction, error) {
	if len(frame) < InstructionSize {
		return Instruction{}, fmt.Errorf("decoding instruction at byte %d: %w (%d bytes)", offset, ErrShortFrame, len(frame))
	}
	op := Opcode(frame[0])
	if !op.Valid() {
		return Instruction{}, &DecodeError{Offset: offset, Tag: frame[0]}
	}
	in := Instruction{Op: op}
	if op.Operand() != OperandNone {
		in.Arg = math.Float64frombits(binary.BigEndian.Uint64(frame[1:InstructionSize]))
	}
	return in, nil
}

// Bind resolves in to a closure over the sink's capabilities.
func (in Instruction) Bind(s Sink) func() {
	switch in.Op {
	case OpCreateFixed:
		v := in.Arg
		return func() { s.CreateFixed(v) }
	case OpCreateRandom:
		return s.CreateRandom
	case OpCreateSum:
		return s.CreateSum
	case OpCreateWeightedSum:
		w := in.Arg
		return func() { s.CreateWeightedSum(w) }
	case OpCreateMin:
		return s.CreateMin
	case OpCreateMax:
		return s.CreateMax
	case OpMoveTo:
		i := OperandIndex(in.Arg)
		return func() { s.MoveTo(i) }
	case OpReadFrom:
		i := OperandIndex(in.Arg)
		return func() { s.ReadFrom(i) }
	case OpSetOutputDX:
		i := OperandIndex(in.Arg)
		return func() { s.SetOutputDX(i) }
	case OpSetOutputDY:
		i := OperandIndex(in.Arg)
		return func() { s.SetOutputDY(i) }
	}
	// Unreachable for decoded instructions.
	return func() {}
}

// Equal compares opcodes and operand bit patterns, so NaN operands compare equal
// to themselves. Operands of zero-argument opcodes are not part of the encoding
// and are ignored.
func (in Instruction) Equal(other Instruction) bool {
	if in.Op != other.Op {
		return false
	}
	if in.Op.Operand() == OperandNone {
		return true
	}
	return math.Float64bits(in.Arg) == math.Float64bits(other.Arg)
}

func (in Instruction) String() string {
	switch in.Op.Operand() {
	case OperandScalar:
		return fmt.Sprintf("%s %g", in.Op, in.Arg)
	case OperandNeuron:
		return fmt.Sprintf("%s %d", in.Op, OperandIndex(in.Arg))
	}
	return in.Op.String()
}
