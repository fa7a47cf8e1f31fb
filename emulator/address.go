package emulator

import "fmt"

// Address is a 12-bit memory address.
type Address uint16

// Nibble is a 4-bit operand, used for register indexes and sprite heights.
type Nibble uint8

const (
	AddressMask = 0x0FFF
	NibbleMask  = 0x0F
)

// NewAddress masks v down to 12 bits.
func NewAddress(v uint16) Address {
	return Address(v & AddressMask)
}

// Valid reports whether a fits in 12 bits.
func (a Address) Valid() bool {
	return a&^AddressMask == 0
}

// Add returns a+n wrapped into the 12-bit address space.
func (a Address) Add(n uint16) Address {
	return NewAddress(uint16(a) + n)
}

// Sub returns a-n wrapped into the 12-bit address space.
func (a Address) Sub(n uint16) Address {
	return NewAddress(uint16(a) - n)
}

func (a Address) String() string {
	return fmt.Sprintf("%03X", uint16(a))
}

// NewNibble masks v down to 4 bits.
func NewNibble(v uint8) Nibble {
	return Nibble(v & NibbleMask)
}

func upperNibble(b uint8) Nibble {
	return Nibble(b >> 4)
}

func lowerNibble(b uint8) Nibble {
	return Nibble(b & NibbleMask)
}

// joinAddress builds NNN from the low nibble of hi and all of lo.
func joinAddress(hi, lo uint8) Address {
	return NewAddress(uint16(hi)<<8 | uint16(lo))
}
