package emulator

import (
	"errors"
	"fmt"
)

// Invariant violations. These are raised with panic, never returned.
var (
	ErrAddressOutOfRange = errors.New("address wider than 12 bits")
	ErrProgramTooLarge   = errors.New("program does not fit into memory")
	ErrStackUnderflow    = errors.New("return with empty stack")
	ErrStackOverflow     = errors.New("call stack is full")
)

// DecodeError is returned when an instruction word matches no known shape.
type DecodeError struct {
	Instr  [2]uint8
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %02X%02X: %s", e.Instr[0], e.Instr[1], e.Reason)
}

func decodeError(hi, lo uint8, reason string) *DecodeError {
	return &DecodeError{Instr: [2]uint8{hi, lo}, Reason: reason}
}
