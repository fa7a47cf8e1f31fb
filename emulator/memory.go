package emulator

import (
	"encoding/binary"
	"fmt"
)

const (
	MemorySize     = 4096
	ProgramOffset  = 0x200
	MaxProgramSize = MemorySize - ProgramOffset
)

// Memory is the flat 4 KiB address space. The font table is seeded at
// construction; everything else starts zeroed.
type Memory struct {
	mem [MemorySize]uint8
}

// NewMemory returns memory with the font glyphs in place.
func NewMemory() *Memory {
	m := &Memory{}
	copy(m.mem[FontOffset:], fontTable[:])
	return m
}

func checkAddress(op string, addr Address) {
	if !addr.Valid() {
		panic(fmt.Errorf("%s %04X: %w", op, uint16(addr), ErrAddressOutOfRange))
	}
}

// Read returns the byte at addr. addr must fit in 12 bits.
func (m *Memory) Read(addr Address) uint8 {
	checkAddress("read", addr)
	return m.mem[addr]
}

// Write stores value at addr. addr must fit in 12 bits.
func (m *Memory) Write(addr Address, value uint8) {
	checkAddress("write", addr)
	m.mem[addr] = value
}

// ReadWord returns the big-endian word at addr and addr+1. Only used for
// inspection; the second byte wraps to 0x000 at the top of memory.
func (m *Memory) ReadWord(addr Address) uint16 {
	return binary.BigEndian.Uint16([]byte{m.Read(addr), m.Read(addr.Add(1))})
}

// LoadProgram copies data into memory starting at ProgramOffset.
func (m *Memory) LoadProgram(data []byte) {
	if len(data) > MaxProgramSize {
		panic(fmt.Errorf("%d bytes, %d available: %w", len(data), MaxProgramSize, ErrProgramTooLarge))
	}
	copy(m.mem[ProgramOffset:], data)
}

// Slice returns a copy of n bytes starting at addr, wrapping at the top of
// memory.
func (m *Memory) Slice(addr Address, n int) []uint8 {
	checkAddress("read", addr)
	b := make([]uint8, n)
	for i := range b {
		b[i] = m.mem[addr.Add(uint16(i))]
	}
	return b
}
