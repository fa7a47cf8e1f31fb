package emulator

import "fmt"

const reasonNoShape = "no decoding implementation found for this hex range"

type decodeFunc func(hi, lo uint8) (Opcode, error)

// decodeTable is keyed by the high nibble of the first instruction byte.
// Families that share a high nibble dispatch again on the second byte.
var decodeTable = [16]decodeFunc{
	0x0: decodeSystem,
	0x1: func(hi, lo uint8) (Opcode, error) { return Jump{Addr: joinAddress(hi, lo)}, nil },
	0x2: func(hi, lo uint8) (Opcode, error) { return Call{Addr: joinAddress(hi, lo)}, nil },
	0x3: func(hi, lo uint8) (Opcode, error) { return SkipEqImm{X: lowerNibble(hi), NN: lo}, nil },
	0x4: func(hi, lo uint8) (Opcode, error) { return SkipNeqImm{X: lowerNibble(hi), NN: lo}, nil },
	0x5: decodeSkipEqReg,
	0x6: func(hi, lo uint8) (Opcode, error) { return SetReg{X: lowerNibble(hi), NN: lo}, nil },
	0x7: func(hi, lo uint8) (Opcode, error) { return AddReg{X: lowerNibble(hi), NN: lo}, nil },
	0x8: decodeArithmetic,
	0x9: decodeSkipNeqReg,
	0xA: func(hi, lo uint8) (Opcode, error) { return SetIndex{Addr: joinAddress(hi, lo)}, nil },
	0xB: func(hi, lo uint8) (Opcode, error) { return JumpOffset{Addr: joinAddress(hi, lo)}, nil },
	0xC: func(hi, lo uint8) (Opcode, error) { return Random{X: lowerNibble(hi), NN: lo}, nil },
	0xD: func(hi, lo uint8) (Opcode, error) {
		return Display{X: lowerNibble(hi), Y: upperNibble(lo), N: lowerNibble(lo)}, nil
	},
	0xE: decodeKeys,
	0xF: decodeMisc,
}

// TryDecode maps an instruction word to its opcode. Words that match no
// instruction shape return a *DecodeError.
func TryDecode(hi, lo uint8) (Opcode, error) {
	return decodeTable[upperNibble(hi)](hi, lo)
}

// Decode is TryDecode for callers that know the word is valid. It panics on
// an unknown word.
func Decode(hi, lo uint8) Opcode {
	op, err := TryDecode(hi, lo)
	if err != nil {
		panic(err)
	}
	return op
}

// DecodeWord decodes a big-endian instruction word.
func DecodeWord(w uint16) (Opcode, error) {
	return TryDecode(uint8(w>>8), uint8(w))
}

func decodeSystem(hi, lo uint8) (Opcode, error) {
	if hi == 0x00 {
		switch lo {
		case 0xE0:
			return ClearScreen{}, nil
		case 0xEE:
			return Return{}, nil
		}
	}
	return nil, decodeError(hi, lo, "machine code routines (0NNN) are not supported")
}

func decodeSkipEqReg(hi, lo uint8) (Opcode, error) {
	if lowerNibble(lo) != 0 {
		return nil, decodeError(hi, lo, reasonNoShape)
	}
	return SkipEqReg{X: lowerNibble(hi), Y: upperNibble(lo)}, nil
}

func decodeSkipNeqReg(hi, lo uint8) (Opcode, error) {
	if lowerNibble(lo) != 0 {
		return nil, decodeError(hi, lo, reasonNoShape)
	}
	return SkipNeqReg{X: lowerNibble(hi), Y: upperNibble(lo)}, nil
}

// decodeArithmetic handles the 8XYN family, keyed by the low nibble.
func decodeArithmetic(hi, lo uint8) (Opcode, error) {
	if upperNibble(hi) != 0x8 {
		return nil, decodeError(hi, lo, fmt.Sprintf("upper byte %02X is not within range 80..8F", hi))
	}

	x, y := lowerNibble(hi), upperNibble(lo)
	switch lowerNibble(lo) {
	case 0x0:
		return Set{X: x, Y: y}, nil
	case 0x1:
		return Or{X: x, Y: y}, nil
	case 0x2:
		return And{X: x, Y: y}, nil
	case 0x3:
		return Xor{X: x, Y: y}, nil
	case 0x4:
		return Add{X: x, Y: y}, nil
	case 0x5:
		return Subtract{X: x, Y: y}, nil
	case 0x6:
		return ShiftRight{X: x, Y: y}, nil
	case 0x7:
		return SubtractReverse{X: x, Y: y}, nil
	case 0xE:
		return ShiftLeft{X: x, Y: y}, nil
	default:
		return nil, decodeError(hi, lo, reasonNoShape)
	}
}

// decodeKeys handles the EX__ family, keyed by the second byte.
func decodeKeys(hi, lo uint8) (Opcode, error) {
	x := lowerNibble(hi)
	switch lo {
	case 0x9E:
		return SkipIfKey{X: x}, nil
	case 0xA1:
		return SkipIfNotKey{X: x}, nil
	default:
		return nil, decodeError(hi, lo, reasonNoShape)
	}
}

// decodeMisc handles the FX__ family, keyed by the second byte.
func decodeMisc(hi, lo uint8) (Opcode, error) {
	x := lowerNibble(hi)
	switch lo {
	case 0x07:
		return GetDelay{X: x}, nil
	case 0x0A:
		return GetKey{X: x}, nil
	case 0x15:
		return SetDelay{X: x}, nil
	case 0x18:
		return SetSound{X: x}, nil
	case 0x1E:
		return AddToIndex{X: x}, nil
	case 0x29:
		return Font{X: x}, nil
	case 0x33:
		return Decimal{X: x}, nil
	case 0x55:
		return Store{X: x}, nil
	case 0x65:
		return Load{X: x}, nil
	default:
		return nil, decodeError(hi, lo, reasonNoShape)
	}
}
