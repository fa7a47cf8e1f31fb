package emulator

// Execute applies op to the CPU state. keys is only consulted by the key
// instructions. Register operands are masked to 4 bits, so hand-built opcodes
// cannot index past VF.
func (c *Chip8) Execute(op Opcode, keys KeyState) {
	switch o := op.(type) {
	case ClearScreen: // clear display
		c.disp = Frame{}

	case Return: // return from subroutine
		c.pc = c.popStack()

	case Jump: // goto NNN
		c.pc = o.Addr

	case Call: // call NNN, pc already points at the next instruction
		c.pushStack(c.pc)
		c.pc = o.Addr

	case SkipEqImm: // if(Vx==NN)
		if *c.reg(o.X) == o.NN {
			c.skip()
		}

	case SkipNeqImm: // if(Vx!=NN)
		if *c.reg(o.X) != o.NN {
			c.skip()
		}

	case SkipEqReg: // if(Vx==Vy)
		if *c.reg(o.X) == *c.reg(o.Y) {
			c.skip()
		}

	case SkipNeqReg: // if(Vx!=Vy)
		if *c.reg(o.X) != *c.reg(o.Y) {
			c.skip()
		}

	case SetReg: // Vx = NN
		*c.reg(o.X) = o.NN

	case AddReg: // Vx += NN, carry flag is not changed
		*c.reg(o.X) += o.NN

	case Set: // Vx = Vy
		*c.reg(o.X) = *c.reg(o.Y)

	case Or: // Vx |= Vy
		*c.reg(o.X) |= *c.reg(o.Y)

	case And: // Vx &= Vy
		*c.reg(o.X) &= *c.reg(o.Y)

	case Xor: // Vx ^= Vy
		*c.reg(o.X) ^= *c.reg(o.Y)

	// The flag is stored before the result, so with X = F the result wins.
	case Add: // Vx += Vy
		vx, vy := c.reg(o.X), c.reg(o.Y)
		sum := *vx + *vy
		c.updateCarryFlag(uint16(*vx)+uint16(*vy) > 0xff)
		*vx = sum

	case Subtract: // Vx -= Vy
		vx, vy := c.reg(o.X), c.reg(o.Y)
		diff := *vx - *vy
		c.updateCarryFlag(*vx >= *vy)
		*vx = diff

	case SubtractReverse: // Vx = Vy - Vx
		vx, vy := c.reg(o.X), c.reg(o.Y)
		diff := *vy - *vx
		c.updateCarryFlag(*vy >= *vx)
		*vx = diff

	case ShiftRight: // Vx >>= 1
		vx := c.reg(o.X)
		shifted := *vx >> 1
		c.v[FlagReg] = *vx & 0x01
		*vx = shifted

	case ShiftLeft: // Vx <<= 1
		vx := c.reg(o.X)
		shifted := *vx << 1
		c.v[FlagReg] = *vx >> 7
		*vx = shifted

	case SetIndex: // I = NNN
		c.i = o.Addr

	case JumpOffset: // pc = NNN + V[N>>8]
		x := Nibble(uint16(o.Addr) >> 8)
		c.pc = o.Addr.Add(uint16(c.v[x]))

	case Random: // Vx = rand() & NN
		*c.reg(o.X) = c.random() & o.NN

	case Display: // draw(Vx, Vy, N)
		vx, vy := *c.reg(o.X), *c.reg(o.Y)
		c.v[FlagReg] = 0
		if c.draw(vx, vy, NewNibble(uint8(o.N))) {
			c.v[FlagReg] = 1
		}

	case SkipIfKey: // if(key()==Vx)
		if keys.Pressed(*c.reg(o.X)) {
			c.skip()
		}

	case SkipIfNotKey: // if(key()!=Vx)
		if !keys.Pressed(*c.reg(o.X)) {
			c.skip()
		}

	case GetDelay: // Vx = get_delay()
		*c.reg(o.X) = c.dt

	case GetKey: // Vx = get_key()
		if k, ok := keys.First(); ok {
			*c.reg(o.X) = k
		} else {
			// no suspension: replay this instruction on the next cycle
			c.pc = c.pc.Sub(2)
		}

	case SetDelay: // delay_timer(Vx)
		c.dt = *c.reg(o.X)

	case SetSound: // sound_timer(Vx)
		c.st = *c.reg(o.X)

	case AddToIndex: // I += Vx, no overflow flag
		c.i = c.i.Add(uint16(*c.reg(o.X)))

	case Font: // I = sprite_addr[Vx]
		c.i = glyphAddress(*c.reg(o.X))

	case Decimal: // set_BCD(Vx)
		vx := *c.reg(o.X)
		c.mem.Write(c.i, vx/100)
		c.mem.Write(c.i.Add(1), (vx%100)/10)
		c.mem.Write(c.i.Add(2), vx%10)

	case Store: // reg_dump(Vx, &I)
		for r := 0; r <= int(NewNibble(uint8(o.X))); r++ {
			c.mem.Write(c.i.Add(uint16(r)), c.v[r])
		}

	case Load: // reg_load(Vx, &I)
		for r := 0; r <= int(NewNibble(uint8(o.X))); r++ {
			c.v[r] = c.mem.Read(c.i.Add(uint16(r)))
		}
	}
}

// reg returns a pointer to register Vn.
func (c *Chip8) reg(n Nibble) *uint8 {
	return &c.v[NewNibble(uint8(n))]
}

func (c *Chip8) skip() {
	c.pc = c.pc.Add(2)
}
