package frontend

import (
	"github.com/tuboc/chip8/emulator"
	"github.com/veandco/go-sdl2/sdl"
)

// keyMap maps each CHIP-8 key to a scancode of the left hand block of a
// QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var keyMap = [emulator.KeyCount]sdl.Scancode{
	0x1: sdl.SCANCODE_1,
	0x2: sdl.SCANCODE_2,
	0x3: sdl.SCANCODE_3,
	0xC: sdl.SCANCODE_4,
	0x4: sdl.SCANCODE_Q,
	0x5: sdl.SCANCODE_W,
	0x6: sdl.SCANCODE_E,
	0xD: sdl.SCANCODE_R,
	0x7: sdl.SCANCODE_A,
	0x8: sdl.SCANCODE_S,
	0x9: sdl.SCANCODE_D,
	0xE: sdl.SCANCODE_F,
	0xA: sdl.SCANCODE_Z,
	0x0: sdl.SCANCODE_X,
	0xB: sdl.SCANCODE_C,
	0xF: sdl.SCANCODE_V,
}

// KeyStateFrom builds the keypad state from a scancode query.
func KeyStateFrom(pressed func(sdl.Scancode) bool) emulator.KeyState {
	var keys emulator.KeyState
	for key, code := range keyMap {
		if pressed(code) {
			keys.Press(uint8(key))
		}
	}
	return keys
}

// keyboardState samples the current SDL keyboard state.
func keyboardState() emulator.KeyState {
	state := sdl.GetKeyboardState()
	return KeyStateFrom(func(code sdl.Scancode) bool {
		return int(code) < len(state) && state[code] != 0
	})
}
