package emulator

import "fmt"

// Opcode is a decoded instruction. The set of implementations is closed:
// only the types in this file satisfy it.
type Opcode interface {
	fmt.Stringer

	// Encode returns the instruction word the opcode was decoded from. For
	// shapes with ignored operand bits (8XY6, 8XYE) the ignored bits are kept.
	Encode() uint16

	opcode()
}

type (
	// ClearScreen is 00E0.
	ClearScreen struct{}
	// Return is 00EE.
	Return struct{}
	// Jump is 1NNN.
	Jump struct{ Addr Address }
	// Call is 2NNN.
	Call struct{ Addr Address }
	// SkipEqImm is 3XNN.
	SkipEqImm struct {
		X  Nibble
		NN uint8
	}
	// SkipNeqImm is 4XNN.
	SkipNeqImm struct {
		X  Nibble
		NN uint8
	}
	// SkipEqReg is 5XY0.
	SkipEqReg struct{ X, Y Nibble }
	// SetReg is 6XNN.
	SetReg struct {
		X  Nibble
		NN uint8
	}
	// AddReg is 7XNN. The carry flag is not touched.
	AddReg struct {
		X  Nibble
		NN uint8
	}
	// Set is 8XY0.
	Set struct{ X, Y Nibble }
	// Or is 8XY1.
	Or struct{ X, Y Nibble }
	// And is 8XY2.
	And struct{ X, Y Nibble }
	// Xor is 8XY3.
	Xor struct{ X, Y Nibble }
	// Add is 8XY4.
	Add struct{ X, Y Nibble }
	// Subtract is 8XY5, VX = VX - VY.
	Subtract struct{ X, Y Nibble }
	// ShiftRight is 8XY6. Y is decoded but unused.
	ShiftRight struct{ X, Y Nibble }
	// SubtractReverse is 8XY7, VX = VY - VX.
	SubtractReverse struct{ X, Y Nibble }
	// ShiftLeft is 8XYE. Y is decoded but unused.
	ShiftLeft struct{ X, Y Nibble }
	// SkipNeqReg is 9XY0.
	SkipNeqReg struct{ X, Y Nibble }
	// SetIndex is ANNN.
	SetIndex struct{ Addr Address }
	// JumpOffset is BNNN, jumping to NNN + V[N>>8].
	JumpOffset struct{ Addr Address }
	// Random is CXNN.
	Random struct {
		X  Nibble
		NN uint8
	}
	// Display is DXYN.
	Display struct{ X, Y, N Nibble }
	// SkipIfKey is EX9E.
	SkipIfKey struct{ X Nibble }
	// SkipIfNotKey is EXA1.
	SkipIfNotKey struct{ X Nibble }
	// GetDelay is FX07.
	GetDelay struct{ X Nibble }
	// GetKey is FX0A.
	GetKey struct{ X Nibble }
	// SetDelay is FX15.
	SetDelay struct{ X Nibble }
	// SetSound is FX18.
	SetSound struct{ X Nibble }
	// AddToIndex is FX1E.
	AddToIndex struct{ X Nibble }
	// Font is FX29.
	Font struct{ X Nibble }
	// Decimal is FX33.
	Decimal struct{ X Nibble }
	// Store is FX55.
	Store struct{ X Nibble }
	// Load is FX65.
	Load struct{ X Nibble }
)

func (ClearScreen) opcode()     {}
func (Return) opcode()          {}
func (Jump) opcode()            {}
func (Call) opcode()            {}
func (SkipEqImm) opcode()       {}
func (SkipNeqImm) opcode()      {}
func (SkipEqReg) opcode()       {}
func (SetReg) opcode()          {}
func (AddReg) opcode()          {}
func (Set) opcode()             {}
func (Or) opcode()              {}
func (And) opcode()             {}
func (Xor) opcode()             {}
func (Add) opcode()             {}
func (Subtract) opcode()        {}
func (ShiftRight) opcode()      {}
func (SubtractReverse) opcode() {}
func (ShiftLeft) opcode()       {}
func (SkipNeqReg) opcode()      {}
func (SetIndex) opcode()        {}
func (JumpOffset) opcode()      {}
func (Random) opcode()          {}
func (Display) opcode()         {}
func (SkipIfKey) opcode()       {}
func (SkipIfNotKey) opcode()    {}
func (GetDelay) opcode()        {}
func (GetKey) opcode()          {}
func (SetDelay) opcode()        {}
func (SetSound) opcode()        {}
func (AddToIndex) opcode()      {}
func (Font) opcode()            {}
func (Decimal) opcode()         {}
func (Store) opcode()           {}
func (Load) opcode()            {}

func encodeAddr(h uint16, a Address) uint16 { return h<<12 | uint16(a)&AddressMask }
func encodeXNN(h uint16, x Nibble, nn uint8) uint16 {
	return h<<12 | uint16(x&NibbleMask)<<8 | uint16(nn)
}
func encodeXYN(h uint16, x, y, n Nibble) uint16 {
	return h<<12 | uint16(x&NibbleMask)<<8 | uint16(y&NibbleMask)<<4 | uint16(n&NibbleMask)
}
func encodeX(h uint16, x Nibble, lo uint8) uint16 { return encodeXNN(h, x, lo) }

func (ClearScreen) Encode() uint16       { return 0x00E0 }
func (Return) Encode() uint16            { return 0x00EE }
func (o Jump) Encode() uint16            { return encodeAddr(0x1, o.Addr) }
func (o Call) Encode() uint16            { return encodeAddr(0x2, o.Addr) }
func (o SkipEqImm) Encode() uint16       { return encodeXNN(0x3, o.X, o.NN) }
func (o SkipNeqImm) Encode() uint16      { return encodeXNN(0x4, o.X, o.NN) }
func (o SkipEqReg) Encode() uint16       { return encodeXYN(0x5, o.X, o.Y, 0x0) }
func (o SetReg) Encode() uint16          { return encodeXNN(0x6, o.X, o.NN) }
func (o AddReg) Encode() uint16          { return encodeXNN(0x7, o.X, o.NN) }
func (o Set) Encode() uint16             { return encodeXYN(0x8, o.X, o.Y, 0x0) }
func (o Or) Encode() uint16              { return encodeXYN(0x8, o.X, o.Y, 0x1) }
func (o And) Encode() uint16             { return encodeXYN(0x8, o.X, o.Y, 0x2) }
func (o Xor) Encode() uint16             { return encodeXYN(0x8, o.X, o.Y, 0x3) }
func (o Add) Encode() uint16             { return encodeXYN(0x8, o.X, o.Y, 0x4) }
func (o Subtract) Encode() uint16        { return encodeXYN(0x8, o.X, o.Y, 0x5) }
func (o ShiftRight) Encode() uint16      { return encodeXYN(0x8, o.X, o.Y, 0x6) }
func (o SubtractReverse) Encode() uint16 { return encodeXYN(0x8, o.X, o.Y, 0x7) }
func (o ShiftLeft) Encode() uint16       { return encodeXYN(0x8, o.X, o.Y, 0xE) }
func (o SkipNeqReg) Encode() uint16      { return encodeXYN(0x9, o.X, o.Y, 0x0) }
func (o SetIndex) Encode() uint16        { return encodeAddr(0xA, o.Addr) }
func (o JumpOffset) Encode() uint16      { return encodeAddr(0xB, o.Addr) }
func (o Random) Encode() uint16          { return encodeXNN(0xC, o.X, o.NN) }
func (o Display) Encode() uint16         { return encodeXYN(0xD, o.X, o.Y, o.N) }
func (o SkipIfKey) Encode() uint16       { return encodeX(0xE, o.X, 0x9E) }
func (o SkipIfNotKey) Encode() uint16    { return encodeX(0xE, o.X, 0xA1) }
func (o GetDelay) Encode() uint16        { return encodeX(0xF, o.X, 0x07) }
func (o GetKey) Encode() uint16          { return encodeX(0xF, o.X, 0x0A) }
func (o SetDelay) Encode() uint16        { return encodeX(0xF, o.X, 0x15) }
func (o SetSound) Encode() uint16        { return encodeX(0xF, o.X, 0x18) }
func (o AddToIndex) Encode() uint16      { return encodeX(0xF, o.X, 0x1E) }
func (o Font) Encode() uint16            { return encodeX(0xF, o.X, 0x29) }
func (o Decimal) Encode() uint16         { return encodeX(0xF, o.X, 0x33) }
func (o Store) Encode() uint16           { return encodeX(0xF, o.X, 0x55) }
func (o Load) Encode() uint16            { return encodeX(0xF, o.X, 0x65) }

func (ClearScreen) String() string       { return "CLS" }
func (Return) String() string            { return "RET" }
func (o Jump) String() string            { return fmt.Sprintf("JP   #%03X", uint16(o.Addr)) }
func (o Call) String() string            { return fmt.Sprintf("CALL #%03X", uint16(o.Addr)) }
func (o SkipEqImm) String() string       { return fmt.Sprintf("SE   V%X, #%02X", o.X, o.NN) }
func (o SkipNeqImm) String() string      { return fmt.Sprintf("SNE  V%X, #%02X", o.X, o.NN) }
func (o SkipEqReg) String() string       { return fmt.Sprintf("SE   V%X, V%X", o.X, o.Y) }
func (o SetReg) String() string          { return fmt.Sprintf("LD   V%X, #%02X", o.X, o.NN) }
func (o AddReg) String() string          { return fmt.Sprintf("ADD  V%X, #%02X", o.X, o.NN) }
func (o Set) String() string             { return fmt.Sprintf("LD   V%X, V%X", o.X, o.Y) }
func (o Or) String() string              { return fmt.Sprintf("OR   V%X, V%X", o.X, o.Y) }
func (o And) String() string             { return fmt.Sprintf("AND  V%X, V%X", o.X, o.Y) }
func (o Xor) String() string             { return fmt.Sprintf("XOR  V%X, V%X", o.X, o.Y) }
func (o Add) String() string             { return fmt.Sprintf("ADD  V%X, V%X", o.X, o.Y) }
func (o Subtract) String() string        { return fmt.Sprintf("SUB  V%X, V%X", o.X, o.Y) }
func (o ShiftRight) String() string      { return fmt.Sprintf("SHR  V%X", o.X) }
func (o SubtractReverse) String() string { return fmt.Sprintf("SUBN V%X, V%X", o.X, o.Y) }
func (o ShiftLeft) String() string       { return fmt.Sprintf("SHL  V%X", o.X) }
func (o SkipNeqReg) String() string      { return fmt.Sprintf("SNE  V%X, V%X", o.X, o.Y) }
func (o SetIndex) String() string        { return fmt.Sprintf("LD   I, #%03X", uint16(o.Addr)) }
func (o JumpOffset) String() string {
	return fmt.Sprintf("JP   V%X, #%03X", uint16(o.Addr)>>8, uint16(o.Addr))
}
func (o Random) String() string       { return fmt.Sprintf("RND  V%X, #%02X", o.X, o.NN) }
func (o Display) String() string      { return fmt.Sprintf("DRW  V%X, V%X, %d", o.X, o.Y, o.N) }
func (o SkipIfKey) String() string    { return fmt.Sprintf("SKP  V%X", o.X) }
func (o SkipIfNotKey) String() string { return fmt.Sprintf("SKNP V%X", o.X) }
func (o GetDelay) String() string     { return fmt.Sprintf("LD   V%X, DT", o.X) }
func (o GetKey) String() string       { return fmt.Sprintf("LD   V%X, K", o.X) }
func (o SetDelay) String() string     { return fmt.Sprintf("LD   DT, V%X", o.X) }
func (o SetSound) String() string     { return fmt.Sprintf("LD   ST, V%X", o.X) }
func (o AddToIndex) String() string   { return fmt.Sprintf("ADD  I, V%X", o.X) }
func (o Font) String() string         { return fmt.Sprintf("LD   F, V%X", o.X) }
func (o Decimal) String() string      { return fmt.Sprintf("LD   B, V%X", o.X) }
func (o Store) String() string        { return fmt.Sprintf("LD   [I], V%X", o.X) }
func (o Load) String() string         { return fmt.Sprintf("LD   V%X, [I]", o.X) }
