package emulator

const KeyCount = 16

// KeyState is the pressed state of the 16-key hex keypad, indexed by key.
type KeyState [KeyCount]bool

// NoKeys is a key state with nothing pressed.
var NoKeys KeyState

// Press marks key k as held down.
func (k *KeyState) Press(key uint8) {
	k[key&NibbleMask] = true
}

// Release marks key k as released.
func (k *KeyState) Release(key uint8) {
	k[key&NibbleMask] = false
}

// Pressed reports whether key is held. Only the low nibble of key is used.
func (k KeyState) Pressed(key uint8) bool {
	return k[key&NibbleMask]
}

// First returns the lowest pressed key.
func (k KeyState) First() (uint8, bool) {
	for i, down := range k {
		if down {
			return uint8(i), true
		}
	}
	return 0, false
}
