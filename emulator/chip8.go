package emulator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	DisplayW   = 64
	DisplayH   = 32
	StackDepth = 16
	FlagReg    = 0xF
)

// Frame is the monochrome framebuffer, indexed [column][row].
type Frame [DisplayW][DisplayH]bool

// Chip8 is the interpreter state. A Chip8 is owned by a single driver; none
// of its methods are safe for concurrent use.
type Chip8 struct {
	mem   *Memory
	pc    Address   // program counter
	v     [16]uint8 // registers
	i     Address   // index register
	dt    uint8     // delay timer
	st    uint8     // sound timer
	sp    int       // number of return addresses on the stack
	stack [StackDepth]Address
	disp  Frame

	random func() uint8
}

// New returns a CPU with font-seeded memory and the program counter at the
// start of program space.
func New() *Chip8 {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Chip8{
		mem: NewMemory(),
		pc:  ProgramOffset,
		random: func() uint8 {
			return uint8(rng.Intn(256))
		},
	}
}

// LoadProgram copies a ROM image into program space.
func (c *Chip8) LoadProgram(data []byte) {
	c.mem.LoadProgram(data)
}

// Fetch returns the instruction bytes at the program counter and advances it
// by 2.
func (c *Chip8) Fetch() (uint8, uint8) {
	hi := c.mem.Read(c.pc)
	lo := c.mem.Read(c.pc.Add(1))
	c.pc = c.pc.Add(2)
	return hi, lo
}

// Decode decodes an instruction without touching CPU state. It panics on an
// unknown word.
func (c *Chip8) Decode(hi, lo uint8) Opcode {
	return Decode(hi, lo)
}

// TryDecode decodes an instruction without touching CPU state.
func (c *Chip8) TryDecode(hi, lo uint8) (Opcode, error) {
	return TryDecode(hi, lo)
}

// Step runs one fetch, decode and execute cycle with no keys pressed.
func (c *Chip8) Step() error {
	_, err := c.Cycle(NoKeys)
	return err
}

// Cycle runs one fetch, decode and execute cycle with the given key state and
// returns the executed opcode. When the fetched word does not decode, the
// program counter is restored and the *DecodeError is returned.
func (c *Chip8) Cycle(keys KeyState) (Opcode, error) {
	pc := c.pc
	hi, lo := c.Fetch()
	op, err := TryDecode(hi, lo)
	if err != nil {
		c.pc = pc
		return nil, fmt.Errorf("at %s: %w", pc, err)
	}
	c.Execute(op, keys)
	return op, nil
}

// DecrementDelay counts the delay timer down towards zero.
func (c *Chip8) DecrementDelay() {
	if c.dt > 0 {
		c.dt--
	}
}

// DecrementSound counts the sound timer down towards zero.
func (c *Chip8) DecrementSound() {
	if c.st > 0 {
		c.st--
	}
}

// DecrementTimers ticks both timers once; drivers call it at 60 Hz.
func (c *Chip8) DecrementTimers() {
	c.DecrementDelay()
	c.DecrementSound()
}

func (c *Chip8) ProgramCounter() uint16 { return uint16(c.pc) }
func (c *Chip8) Index() uint16          { return uint16(c.i) }
func (c *Chip8) DelayTimer() uint8      { return c.dt }
func (c *Chip8) SoundTimer() uint8      { return c.st }
func (c *Chip8) StackDepth() int        { return c.sp }
func (c *Chip8) Registers() [16]uint8   { return c.v }
func (c *Chip8) Frame() Frame           { return c.disp }

// V returns register Vx. Only the low nibble of x is used.
func (c *Chip8) V(x uint8) uint8 {
	return c.v[x&NibbleMask]
}

// ReadMemory returns the byte at addr. addr must fit in 12 bits.
func (c *Chip8) ReadMemory(addr uint16) uint8 {
	return c.mem.Read(Address(addr))
}

// ReadMemoryRange returns a copy of n bytes starting at addr, wrapping at the
// top of memory.
func (c *Chip8) ReadMemoryRange(addr uint16, n int) []uint8 {
	return c.mem.Slice(NewAddress(addr), n)
}

// ReadWord returns the big-endian word at addr.
func (c *Chip8) ReadWord(addr uint16) uint16 {
	return c.mem.ReadWord(Address(addr))
}

// Pixel reports whether the pixel at column x, row y is lit.
func (c *Chip8) Pixel(x, y int) bool {
	return c.disp[x][y]
}

// View renders the framebuffer as text, one line per row.
func (c *Chip8) View() string {
	var sb strings.Builder
	border := "   " + strings.Repeat("-", DisplayW) + "\n"

	sb.WriteString(border)
	for y := 0; y < DisplayH; y++ {
		fmt.Fprintf(&sb, "%02d|", y)
		for x := 0; x < DisplayW; x++ {
			if c.disp[x][y] {
				sb.WriteRune('■')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}

func (c *Chip8) updateCarryFlag(b bool) {
	if b {
		c.v[FlagReg] = 1
	} else {
		c.v[FlagReg] = 0
	}
}

func (c *Chip8) pushStack(a Address) {
	if c.sp == StackDepth {
		panic(fmt.Errorf("call from %s: %w", c.pc, ErrStackOverflow))
	}
	c.stack[c.sp] = a
	c.sp++
}

func (c *Chip8) popStack() Address {
	if c.sp == 0 {
		panic(fmt.Errorf("at %s: %w", c.pc, ErrStackUnderflow))
	}
	c.sp--
	return c.stack[c.sp]
}

// draw XORs an n-row sprite from the index register onto the frame and
// reports whether any lit pixel was turned off. The origin wraps; the sprite
// itself is clipped at the right and bottom edges.
func (c *Chip8) draw(x, y uint8, n Nibble) bool {
	x %= DisplayW
	y %= DisplayH

	flipped := false
	for row := 0; row < int(n); row++ {
		ty := int(y) + row
		if ty >= DisplayH {
			break
		}

		sprite := c.mem.Read(c.i.Add(uint16(row)))
		for col := 0; col < 8; col++ {
			tx := int(x) + col
			if tx >= DisplayW {
				break
			}
			if (sprite>>(7-col))&0x01 == 0 {
				continue
			}
			if c.disp[tx][ty] {
				flipped = true
			}
			c.disp[tx][ty] = !c.disp[tx][ty]
		}
	}
	return flipped
}
