package genome

import "strings"

// Program is an ordered instruction sequence. It has meaning only when
// executed against a Sink.
type Program []Instruction

// Serialize concatenates the encodings of every instruction in order.
func (p Program) Serialize() []byte {
	buf := make([]byte, 0, len(p)*InstructionSize)
	for _, in := range p {
		buf = in.AppendBinary(buf)
	}
	return buf
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p Program) MarshalBinary() ([]byte, error) {
	return p.Serialize(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using Deserialize.
func (p *Program) UnmarshalBinary(data []byte) error {
	decoded, err := Deserialize(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Deserialize splits data into 9-byte frames and decodes each in order.
// A trailing fragment shorter than a frame is dropped.
func Deserialize(data []byte) (Program, error) {
	n := len(data) / InstructionSize
	p := make(Program, 0, n)
	for i := 0; i < n; i++ {
		off := i * InstructionSize
		in, err := decodeAt(data[off:off+InstructionSize], off)
		if err != nil {
			return nil, err
		}
		p = append(p, in)
	}
	return p, nil
}

// Execute interprets the program against s, one instruction at a time.
func (p Program) Execute(s Sink) {
	for _, in := range p {
		in.Bind(s)()
	}
}

// Opcodes returns the opcode sequence of the program.
func (p Program) Opcodes() []Opcode {
	ops := make([]Opcode, len(p))
	for i, in := range p {
		ops[i] = in.Op
	}
	return ops
}

// Equal reports whether both programs hold the same instructions.
func (p Program) Equal(other Program) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Size returns the encoded length in bytes.
func (p Program) Size() int {
	return len(p) * InstructionSize
}

func (p Program) String() string {
	var sb strings.Builder
	for i, in := range p {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(in.String())
	}
	return sb.String()
}
