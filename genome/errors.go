package genome

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is matched by every DecodeError.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrShortFrame is returned when decoding fewer than InstructionSize bytes.
	ErrShortFrame = errors.New("short instruction frame")
)

// DecodeError reports an instruction frame whose tag byte matches no opcode.
type DecodeError struct {
	Offset int  // byte offset of the frame within the chromosome
	Tag    byte // the offending tag
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding instruction at byte %d: %v 0x%02x", e.Offset, ErrUnknownOpcode, e.Tag)
}

func (e *DecodeError) Unwrap() error { return ErrUnknownOpcode }
