package genome

import (
	"errors"
	"math"
	"testing"
)

func TestInstructionEncoding(t *testing.T) {
	in := WeightedSum(-5)
	data, err := in.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(data) != InstructionSize {
		t.Fatalf("expected %d bytes, got %d", InstructionSize, len(data))
	}

	// tag 3, then -5.0 big-endian: 0xC014000000000000
	want := []byte{0x03, 0xC0, 0x14, 0, 0, 0, 0, 0, 0}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("byte %d: expected 0x%02x, got 0x%02x (%x)", i, want[i], data[i], data)
		}
	}
}

func TestInstructionZeroArgOperandIgnored(t *testing.T) {
	in := Instruction{Op: OpCreateSum, Arg: 42}
	data, _ := in.MarshalBinary()
	for i := 1; i < InstructionSize; i++ {
		if data[i] != 0 {
			t.Fatalf("operand byte %d should be zero for zero-arg opcode, got %x", i, data)
		}
	}

	// Garbage operand bytes on a zero-arg opcode decode to Arg 0.
	frame := []byte{byte(OpCreateMax), 1, 2, 3, 4, 5, 6, 7, 8}
	decoded, err := DecodeInstruction(frame)
	if err != nil {
		t.Fatalf("DecodeInstruction failed: %v", err)
	}
	if decoded.Op != OpCreateMax || decoded.Arg != 0 {
		t.Errorf("expected max with zero operand, got %v (%g)", decoded, decoded.Arg)
	}
}

func TestInstructionRoundTrip(t *testing.T) {
	cases := []Instruction{
		Fixed(1.5), Fixed(math.Inf(-1)), Random(), Sum(), WeightedSum(0.125),
		Min(), Max(), MoveTo(-1), ReadFrom(7), SetOutputDX(0), SetOutputDY(1 << 20),
	}
	for _, in := range cases {
		data, _ := in.MarshalBinary()
		var out Instruction
		if err := out.UnmarshalBinary(data); err != nil {
			t.Fatalf("%v: unmarshal failed: %v", in, err)
		}
		if !out.Equal(in) {
			t.Errorf("round trip mismatch: %v != %v", out, in)
		}
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	frame := make([]byte, InstructionSize)
	frame[0] = 0xFF

	_, err := DecodeInstruction(frame)
	if err == nil {
		t.Fatal("expected error for unknown tag")
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Tag != 0xFF || de.Offset != 0 {
		t.Errorf("unexpected DecodeError fields: %+v", de)
	}
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Error("DecodeError should match ErrUnknownOpcode")
	}
}

func TestDecodeShortFrame(t *testing.T) {
	_, err := DecodeInstruction([]byte{0, 1, 2})
	if !errors.Is(err, ErrShortFrame) {
		t.Errorf("expected ErrShortFrame, got %v", err)
	}
}

func TestOpcodeTagsAreStable(t *testing.T) {
	// The wire format depends on these exact values.
	want := map[Opcode]byte{
		OpCreateFixed: 0, OpCreateRandom: 1, OpCreateSum: 2, OpCreateWeightedSum: 3,
		OpCreateMin: 4, OpCreateMax: 5, OpMoveTo: 6, OpReadFrom: 7,
		OpSetOutputDX: 8, OpSetOutputDY: 9,
	}
	if len(want) != len(Opcodes) {
		t.Fatalf("expected %d opcodes, got %d", len(want), len(Opcodes))
	}
	for op, tag := range want {
		if byte(op) != tag {
			t.Errorf("%v: expected tag %d, got %d", op, tag, byte(op))
		}
		if !op.Valid() {
			t.Errorf("%v should be valid", op)
		}
	}
	if Opcode(10).Valid() {
		t.Error("tag 10 should be invalid")
	}
}

func TestOpcodeOperandKinds(t *testing.T) {
	want := map[Opcode]OperandKind{
		OpCreateFixed: OperandScalar, OpCreateRandom: OperandNone, OpCreateSum: OperandNone,
		OpCreateWeightedSum: OperandScalar, OpCreateMin: OperandNone, OpCreateMax: OperandNone,
		OpMoveTo: OperandNeuron, OpReadFrom: OperandNeuron,
		OpSetOutputDX: OperandNeuron, OpSetOutputDY: OperandNeuron,
	}
	for op, kind := range want {
		if got := op.Operand(); got != kind {
			t.Errorf("%v: operand kind %d, want %d", op, got, kind)
		}
	}
	if got := ReadFrom(-3).String(); got != "read -3" {
		t.Errorf("ReadFrom(-3).String() = %q", got)
	}
	if got := MoveTo(2).String(); got != "move 2" {
		t.Errorf("MoveTo(2).String() = %q", got)
	}
}

func TestOperandIndex(t *testing.T) {
	cases := []struct {
		arg  float64
		want int
	}{
		{3.9, 3},
		{-3.9, -3},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxInt32},
		{math.Inf(-1), math.MinInt32},
		{1e300, math.MaxInt32},
	}
	for _, c := range cases {
		if got := OperandIndex(c.arg); got != c.want {
			t.Errorf("OperandIndex(%g) = %d, want %d", c.arg, got, c.want)
		}
	}
}

func TestWrap(t *testing.T) {
	n := 5
	if Wrap(-1, n) != Wrap(n-1, n) {
		t.Errorf("Wrap(-1) = %d, Wrap(n-1) = %d", Wrap(-1, n), Wrap(n-1, n))
	}
	for _, i := range []int{-11, -5, -1, 0, 4, 5, 12, math.MaxInt32, math.MinInt32} {
		w := Wrap(i, n)
		if w < 0 || w >= n {
			t.Errorf("Wrap(%d, %d) = %d out of range", i, n, w)
		}
	}
}

type recordingSink struct {
	calls []string
}

func (r *recordingSink) CreateFixed(v float64)       { r.calls = append(r.calls, "fixed") }
func (r *recordingSink) CreateRandom()               { r.calls = append(r.calls, "random") }
func (r *recordingSink) CreateSum()                  { r.calls = append(r.calls, "sum") }
func (r *recordingSink) CreateWeightedSum(w float64) { r.calls = append(r.calls, "wsum") }
func (r *recordingSink) CreateMin()                  { r.calls = append(r.calls, "min") }
func (r *recordingSink) CreateMax()                  { r.calls = append(r.calls, "max") }
func (r *recordingSink) MoveTo(i int)                { r.calls = append(r.calls, "move") }
func (r *recordingSink) ReadFrom(i int)              { r.calls = append(r.calls, "read") }
func (r *recordingSink) SetOutputDX(i int)           { r.calls = append(r.calls, "out.dx") }
func (r *recordingSink) SetOutputDY(i int)           { r.calls = append(r.calls, "out.dy") }

func TestBindDispatchesEveryOpcode(t *testing.T) {
	sink := &recordingSink{}
	for _, op := range Opcodes {
		Instruction{Op: op}.Bind(sink)()
	}
	if len(sink.calls) != len(Opcodes) {
		t.Fatalf("expected %d calls, got %d", len(Opcodes), len(sink.calls))
	}
	for i, op := range Opcodes {
		if sink.calls[i] != op.String() {
			t.Errorf("call %d: expected %s, got %s", i, op, sink.calls[i])
		}
	}
}
