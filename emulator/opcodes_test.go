package emulator

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestChip8(b []byte) *Chip8 {
	c := New()
	c.LoadProgram(b)
	return c
}

// memory range is 0x200 - 0x300
var opcodeTestTable = []struct {
	opcode uint16
	keys   KeyState
	before func(c *Chip8)
	assert func(t *testing.T, c *Chip8)
}{
	// clear display
	{
		opcode: 0x00E0,
		before: func(c *Chip8) {
			for x := range c.disp {
				for y := range c.disp[x] {
					c.disp[x][y] = true
				}
			}
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Frame{}, c.disp)
		},
	},
	// ret
	{
		opcode: 0x00EE,
		before: func(c *Chip8) {
			c.stack[0] = 0x300
			c.sp = 1
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, 0, c.sp)
			assert.Equal(t, Address(0x300), c.pc)
		},
	},
	// goto 0x0NNN
	{
		opcode: 0x1234,
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x234), c.pc)
		},
	},
	// call 0x0NNN
	{
		opcode: 0x2208,
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x208), c.pc)
			assert.Equal(t, 1, c.sp)
			assert.Equal(t, Address(0x202), c.stack[0])
		},
	},
	// 0x3XNN if(Vx==NN) [true]
	{
		opcode: 0x3012,
		before: func(c *Chip8) { c.v[0] = 0x12 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x204), c.pc)
		},
	},
	// 0x3XNN if(Vx==NN) [false]
	{
		opcode: 0x3012,
		before: func(c *Chip8) { c.v[0] = 0x1 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x202), c.pc)
		},
	},
	// 0x4XNN if(Vx!=NN) [true]
	{
		opcode: 0x4012,
		before: func(c *Chip8) { c.v[0] = 0x1 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x204), c.pc)
		},
	},
	// 0x4XNN if(Vx!=NN) [false]
	{
		opcode: 0x4012,
		before: func(c *Chip8) { c.v[0] = 0x12 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x202), c.pc)
		},
	},
	// 0x5XY0 if(Vx==Vy) [true]
	{
		opcode: 0x5120,
		before: func(c *Chip8) {
			c.v[1] = 0x1
			c.v[2] = 0x1
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x204), c.pc)
		},
	},
	// 0x5XY0 if(Vx==Vy) [false]
	{
		opcode: 0x5120,
		before: func(c *Chip8) {
			c.v[1] = 0x1
			c.v[2] = 0x2
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x202), c.pc)
		},
	},
	// 6XNN Vx = NN
	{
		opcode: 0x6355,
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x55), c.v[3])
		},
	},
	// 7XNN Vx += NN (Carry flag is not changed)
	{
		opcode: 0x78f0,
		before: func(c *Chip8) { c.v[8] = 0xf },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0xff), c.v[8])
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// 7XNN Vx += NN (wraps)
	{
		opcode: 0x7802,
		before: func(c *Chip8) { c.v[8] = 0xff },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x01), c.v[8])
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// 8XY0	Vx=Vy
	{
		opcode: 0x8450,
		before: func(c *Chip8) { c.v[5] = 0x33 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x33), c.v[4])
		},
	},
	// 8XY1	Vx=Vx|Vy
	{
		opcode: 0x8231,
		before: func(c *Chip8) {
			c.v[2] = 0x01
			c.v[3] = 0x10
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x11), c.v[2])
		},
	},
	// 8XY2	Vx=Vx&Vy
	{
		opcode: 0x8012,
		before: func(c *Chip8) {
			c.v[0] = 0x01
			c.v[1] = 0x10
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0), c.v[0])
		},
	},
	// 8XY3	Vx=Vx^Vy
	{
		opcode: 0x8673,
		before: func(c *Chip8) {
			c.v[6] = 0x09
			c.v[7] = 0x0f
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(6), c.v[6])
		},
	},
	// 8XY4	Vx += Vy (not carry)
	{
		opcode: 0x8894,
		before: func(c *Chip8) {
			c.v[8] = 0x01
			c.v[9] = 0x01
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x02), c.v[8])
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// 8XY4	Vx += Vy (carry)
	{
		opcode: 0x8894,
		before: func(c *Chip8) {
			c.v[8] = 0xff
			c.v[9] = 0x01
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x00), c.v[8])
			assert.Equal(t, uint8(1), c.v[0xf])
		},
	},
	// 8XY5	Vx -= Vy (not borrow)
	{
		opcode: 0x8ab5,
		before: func(c *Chip8) {
			c.v[0xa] = 0x05
			c.v[0xb] = 0x03
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x02), c.v[0xa])
			assert.Equal(t, uint8(1), c.v[0xf])
		},
	},
	// 8XY5	Vx -= Vy (borrow)
	{
		opcode: 0x8ab5,
		before: func(c *Chip8) {
			c.v[0xa] = 0x03
			c.v[0xb] = 0x05
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0xfe), c.v[0xa])
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// 8XY5	Vx -= Vy (equal values do not borrow)
	{
		opcode: 0x8ab5,
		before: func(c *Chip8) {
			c.v[0xa] = 0x42
			c.v[0xb] = 0x42
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0), c.v[0xa])
			assert.Equal(t, uint8(1), c.v[0xf])
		},
	},
	// 8XY6	Vx>>=1 (bit0 is 1)
	{
		opcode: 0x8cd6,
		before: func(c *Chip8) { c.v[0xc] = 0x3 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(1), c.v[0xc])
			assert.Equal(t, uint8(1), c.v[0xf])
		},
	},
	// 8XY6	Vx>>=1 (bit0 is 0, Vy ignored)
	{
		opcode: 0x8cd6,
		before: func(c *Chip8) {
			c.v[0xc] = 0x2
			c.v[0xd] = 0x80
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(1), c.v[0xc])
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// 8XY7	Vx=Vy-Vx (not borrow)
	{
		opcode: 0x8e17,
		before: func(c *Chip8) {
			c.v[0xe] = 0x45
			c.v[0x1] = 0x67
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x22), c.v[0xe])
			assert.Equal(t, uint8(1), c.v[0xf])
		},
	},
	// 8XY7	Vx=Vy-Vx (borrow)
	{
		opcode: 0x8e17,
		before: func(c *Chip8) {
			c.v[0xe] = 0x67
			c.v[0x1] = 0x45
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0xff&(0x45-0x67)), c.v[0xe])
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// 8XYE Vx<<=1 (bit7 is 0)
	{
		opcode: 0x801E,
		before: func(c *Chip8) { c.v[0] = 0x08 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x10), c.v[0])
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// 8XYE Vx<<=1 (bit7 is 1)
	{
		opcode: 0x801E,
		before: func(c *Chip8) { c.v[0] = 0x88 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x10), c.v[0])
			assert.Equal(t, uint8(1), c.v[0xf])
		},
	},
	// 8XY4 with X=F: the sum overwrites the carry
	{
		opcode: 0x8F14,
		before: func(c *Chip8) {
			c.v[0xf] = 0x10
			c.v[0x1] = 0x20
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x30), c.v[0xf])
		},
	},
	// 8XY4 with Y=F: VF is read before the carry is stored
	{
		opcode: 0x81F4,
		before: func(c *Chip8) {
			c.v[0x1] = 0xff
			c.v[0xf] = 0x01
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x00), c.v[0x1])
			assert.Equal(t, uint8(1), c.v[0xf])
		},
	},
	// 8XY5 with X=F: the difference overwrites the borrow flag
	{
		opcode: 0x8F15,
		before: func(c *Chip8) {
			c.v[0xf] = 0x05
			c.v[0x1] = 0x03
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x02), c.v[0xf])
		},
	},
	// 8XY7 with X=F: the difference overwrites the borrow flag
	{
		opcode: 0x8F17,
		before: func(c *Chip8) {
			c.v[0xf] = 0x03
			c.v[0x1] = 0x05
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x02), c.v[0xf])
		},
	},
	// 8XY6 with X=F: the shifted value overwrites the shifted-out bit
	{
		opcode: 0x8FF6,
		before: func(c *Chip8) { c.v[0xf] = 0x84 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x42), c.v[0xf])
		},
	},
	// 8XYE with X=F: the shifted value overwrites the shifted-out bit
	{
		opcode: 0x8FFE,
		before: func(c *Chip8) { c.v[0xf] = 0x81 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x02), c.v[0xf])
		},
	},
	// 9XY0 if(Vx!=Vy) (true)
	{
		opcode: 0x9120,
		before: func(c *Chip8) {
			c.v[1] = 1
			c.v[2] = 2
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x204), c.pc)
		},
	},
	// 9XY0 if(Vx!=Vy) (false)
	{
		opcode: 0x9120,
		before: func(c *Chip8) {
			c.v[1] = 1
			c.v[2] = 1
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x202), c.pc)
		},
	},
	// ANNN I = NNN
	{
		opcode: 0xA123,
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x123), c.i)
		},
	},
	// BNNN PC=NNN+V[N>>8]
	{
		opcode: 0xB100,
		before: func(c *Chip8) {
			c.v[0] = 0x99
			c.v[1] = 0x23
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x123), c.pc)
		},
	},
	// CXNN Vx=rand()&NN
	{
		opcode: 0xC800,
		before: func(c *Chip8) { c.v[8] = 0xff },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0), c.v[8])
		},
	},
	// CXNN Vx=rand()&NN (masked)
	{
		opcode: 0xC80F,
		before: func(c *Chip8) {
			c.random = func() uint8 { return 0xA5 }
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x05), c.v[8])
		},
	},
	// DXYN draw(Vx,Vy,N) (not flip)
	{
		opcode: 0xD128,
		before: func(c *Chip8) {
			c.v[1] = 8
			c.v[2] = 8
			c.i = 0x300
			for i := 0; i < 8; i++ {
				c.mem.Write(c.i.Add(uint16(i)), 0xff)
			}
		},
		assert: func(t *testing.T, c *Chip8) {
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					assert.True(t, c.disp[x+8][y+8])
				}
			}
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// DXYN draw(Vx,Vy,N) (flip)
	{
		opcode: 0xD128,
		before: func(c *Chip8) {
			c.v[1] = 8
			c.v[2] = 8
			c.i = 0x300
			for i := 0; i < 8; i++ {
				c.mem.Write(c.i.Add(uint16(i)), 0xff)
			}
			for x := range c.disp {
				for y := range c.disp[x] {
					c.disp[x][y] = true
				}
			}
		},
		assert: func(t *testing.T, c *Chip8) {
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					assert.False(t, c.disp[x+8][y+8])
				}
			}
			assert.True(t, c.disp[7][8])
			assert.Equal(t, uint8(1), c.v[0xf])
		},
	},
	// EX9E if(key()==Vx) (true)
	{
		opcode: 0xE09E,
		keys:   KeyState{7: true},
		before: func(c *Chip8) { c.v[0] = 7 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x204), c.pc)
		},
	},
	// EX9E if(key()==Vx) (false)
	{
		opcode: 0xE09E,
		keys:   KeyState{6: true},
		before: func(c *Chip8) { c.v[0] = 7 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x202), c.pc)
		},
	},
	// EXA1 if(key()!=Vx) (true)
	{
		opcode: 0xE0A1,
		before: func(c *Chip8) { c.v[0] = 7 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x204), c.pc)
		},
	},
	// EXA1 if(key()!=Vx) (false)
	{
		opcode: 0xE0A1,
		keys:   KeyState{7: true},
		before: func(c *Chip8) { c.v[0] = 7 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x202), c.pc)
		},
	},
	// FX07 Vx = get_delay()
	{
		opcode: 0xF107,
		before: func(c *Chip8) { c.dt = 10 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(10), c.v[1])
		},
	},
	// FX0A Vx = get_key() (lowest pressed key wins)
	{
		opcode: 0xF20A,
		keys:   KeyState{0x3: true, 0x9: true},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(3), c.v[2])
			assert.Equal(t, Address(0x202), c.pc)
		},
	},
	// FX0A Vx = get_key() (key not pressed)
	{
		opcode: 0xF20A,
		before: func(c *Chip8) { c.v[2] = 0x42 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(0x42), c.v[2])
			assert.Equal(t, Address(0x200), c.pc)
		},
	},
	// FX15 delay_timer(Vx)
	{
		opcode: 0xF215,
		before: func(c *Chip8) { c.v[2] = 10 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(10), c.dt)
		},
	},
	// FX18 sound_timer(Vx)
	{
		opcode: 0xF318,
		before: func(c *Chip8) { c.v[3] = 10 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, uint8(10), c.st)
		},
	},
	// FX1E I +=Vx
	{
		opcode: 0xF41E,
		before: func(c *Chip8) {
			c.v[4] = 10
			c.i = 0x100
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x100+10), c.i)
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// FX1E I +=Vx (12-bit wrap, no flag)
	{
		opcode: 0xF41E,
		before: func(c *Chip8) {
			c.v[4] = 0x02
			c.i = 0xFFF
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(0x001), c.i)
			assert.Equal(t, uint8(0), c.v[0xf])
		},
	},
	// FX29 I=sprite_addr[Vx]
	{
		opcode: 0xF529,
		before: func(c *Chip8) { c.v[5] = 5 },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(FontOffset+5*FontGlyphBytes), c.i)
		},
	},
	// FX29 I=sprite_addr[Vx] (hex digit)
	{
		opcode: 0xF529,
		before: func(c *Chip8) { c.v[5] = 0xF },
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, Address(FontOffset+0xF*FontGlyphBytes), c.i)
		},
	},
	// FX33 set_BCD(Vx); Vx = 123
	{
		opcode: 0xF633,
		before: func(c *Chip8) {
			c.v[6] = 123
			c.i = 0x300
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, []uint8{1, 2, 3}, c.mem.Slice(0x300, 3))
		},
	},
	// FX33 set_BCD(Vx); Vx = 45
	{
		opcode: 0xF633,
		before: func(c *Chip8) {
			c.v[6] = 45
			c.i = 0x300
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, []uint8{0, 4, 5}, c.mem.Slice(0x300, 3))
		},
	},
	// FX33 set_BCD(Vx); Vx = 6
	{
		opcode: 0xF633,
		before: func(c *Chip8) {
			c.v[6] = 6
			c.i = 0x300
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, []uint8{0, 0, 6}, c.mem.Slice(0x300, 3))
		},
	},
	// FX55 reg_dump(Vx,&I)
	{
		opcode: 0xF455,
		before: func(c *Chip8) {
			for i := range c.v {
				c.v[i] = uint8(i + 1)
			}
			c.i = 0x300
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, c.v[:4+1], c.mem.Slice(0x300, 4+1))
			assert.Equal(t, uint8(0), c.mem.Read(0x300+5))
			assert.Equal(t, Address(0x300), c.i)
		},
	},
	// FX65 reg_load(Vx,&I)
	{
		opcode: 0xF565,
		before: func(c *Chip8) {
			for i := 0; i < 16; i++ {
				c.mem.Write(Address(0x300+i), uint8(i+1))
			}
			c.i = 0x300
		},
		assert: func(t *testing.T, c *Chip8) {
			assert.Equal(t, c.mem.Slice(0x300, 5+1), c.v[:5+1])
			assert.Equal(t, uint8(0), c.v[6])
			assert.Equal(t, Address(0x300), c.i)
		},
	},
}

func TestExecOpcodes(t *testing.T) {
	for _, test := range opcodeTestTable {
		test := test
		t.Run(fmt.Sprintf("opcode[%04X]", test.opcode), func(t *testing.T) {
			b := make([]byte, 0x100)
			binary.BigEndian.PutUint16(b, test.opcode)
			c := newTestChip8(b)

			if test.before != nil {
				test.before(c)
			}

			_, err := c.Cycle(test.keys)
			assert.NoError(t, err)

			test.assert(t, c)
		})
	}
}

func TestExecuteMasksRegisterOperands(t *testing.T) {
	c := New()
	c.i = 0x300

	assert.NotPanics(t, func() {
		c.Execute(SetReg{X: 0x12, NN: 0x42}, NoKeys)
		c.Execute(Set{X: 0x13, Y: 0x22}, NoKeys)
		c.Execute(Add{X: 0x1F, Y: 0x10}, NoKeys)
		c.Execute(Store{X: 0x11}, NoKeys)
		c.Execute(Display{X: 0x10, Y: 0x10, N: 0x11}, NoKeys)
	})

	assert.Equal(t, uint8(0x42), c.V(2))
	assert.Equal(t, uint8(0x42), c.V(3))
	assert.Equal(t, uint8(0), c.V(0xF))
	assert.Equal(t, []uint8{0, 0}, c.mem.Slice(0x300, 2))
}
