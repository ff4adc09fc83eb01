package chip8

// Frame advances the machine by one frame: it executes CyclesPerFrame
// instructions and then updates the timers with Tick.
func (m *Machine) Frame() {
	for i := 0; i < CyclesPerFrame; i++ {
		m.Step()
	}
	m.Tick()
}

// Tick decrements the non-zero timers by one and sets Bell
// while the sound timer is running.
func (m *Machine) Tick() {
	if m.Delay > 0 {
		m.Delay--
	}
	if m.Sound > 0 {
		m.Sound--
	}
	m.Bell = m.Sound > 0
}

// Fetch returns the instruction word at m.PC.
func (m *Machine) Fetch() Op {
	return Op(m.read(m.PC))<<8 | Op(m.read(m.PC+1))
}

// Step fetches the instruction at m.PC, advances m.PC past it, and
// executes it. It returns the executed instruction.
func (m *Machine) Step() Op {
	op := m.Fetch()
	m.PC = (m.PC + 2) & (MemSize - 1)
	m.Exec(op)
	return op
}

// Exec performs the state transition for op. m.PC should already point
// past op. Words that do not encode an instruction are ignored.
func (m *Machine) Exec(op Op) {
	var (
		x, y = op.X(), op.Y()
		vx   = m.V[x]
		vy   = m.V[y]
	)
	switch op.Decode() {
	case Unknown, SYS:
		// Ignored.
	case CLS:
		m.Display.Clear()
	case RET:
		m.PC = m.Stack.pop()
	case JMP:
		m.PC = op.NNN()
	case CALL:
		m.Stack.push(m.PC)
		m.PC = op.NNN()
	case SEQ:
		m.skipIf(vx == op.NN())
	case SNE:
		m.skipIf(vx != op.NN())
	case SEQR:
		m.skipIf(vx == vy)
	case SNER:
		m.skipIf(vx != vy)
	case SET:
		m.V[x] = op.NN()
	case ADD:
		m.V[x] = vx + op.NN()
	case MOV:
		m.V[x] = vy
	case OR:
		m.V[x] = vx | vy
	case AND:
		m.V[x] = vx & vy
	case XOR:
		m.V[x] = vx ^ vy
	// VF is cleared, then set from a comparison of the registers as they
	// stand, and only then is the result computed. An operand or
	// destination of VF therefore sees the cleared or set flag.
	case ADDR:
		m.V[0xf] = 0
		m.V[0xf] = flag(int(m.V[x])+int(m.V[y]) > 0xff)
		m.V[x] += m.V[y]
	case SUB:
		m.V[0xf] = 0
		m.V[0xf] = flag(m.V[x] >= m.V[y])
		m.V[x] -= m.V[y]
	case SUBN:
		m.V[0xf] = 0
		m.V[0xf] = flag(m.V[y] >= m.V[x])
		m.V[x] = m.V[y] - m.V[x]
	case SHR:
		m.V[x] = vy
		m.V[0xf] = m.V[x] & 0x01
		m.V[x] >>= 1
	case SHL:
		m.V[x] = vy
		m.V[0xf] = m.V[x] & 0x80 // Not normalized to 1.
		m.V[x] <<= 1
	case LDI:
		m.I = op.NNN()
	case JMPV:
		m.PC = op.NNN() + uint16(m.V[0])
	case RND:
		m.V[x] = m.random() & op.NN()
	case DRW:
		m.draw(vx, vy, op.N())
	case SKP:
		m.skipIf(m.Keys[vx&0xf])
	case SKNP:
		m.skipIf(!m.Keys[vx&0xf])
	case GDT:
		m.V[x] = m.Delay
	case SDT:
		m.Delay = vx
	case SST:
		m.Sound = vx
	case ADDI:
		m.I = (m.I + uint16(vx)) & (MemSize - 1)
	case WKEY:
		m.waitKey(x)
	case FONT:
		m.I = FontAddr + 5*uint16(vx&0xf)
	case BCD:
		m.write(m.I, vx/100)
		m.write(m.I+1, vx/10%10)
		m.write(m.I+2, vx%10)
	case STM:
		for i := byte(0); i <= x; i++ {
			m.write(m.I, m.V[i])
			m.I = (m.I + 1) & (MemSize - 1)
		}
	case LDM:
		for i := byte(0); i <= x; i++ {
			m.V[i] = m.read(m.I)
			m.I = (m.I + 1) & (MemSize - 1)
		}
	}
	m.PC &= MemSize - 1
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.PC += 2
	}
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// draw XORs an n-row sprite read from m.I onto the display at (vx, vy).
// The origin wraps around the display but the sprite itself is clipped
// at the right and bottom edges.
func (m *Machine) draw(vx, vy, n byte) {
	x0, y := int(vx)%Width, int(vy)%Height
	m.V[0xf] = 0
	for i := 0; i < int(n); i++ {
		if y >= Height {
			break
		}
		row := m.read(m.I + uint16(i))
		for j, x := 0, x0; j < 8 && x < Width; j, x = j+1, x+1 {
			if row&(0x80>>j) == 0 {
				continue
			}
			px := &m.Display[y][x]
			if *px {
				m.V[0xf] = 1
			}
			*px = !*px
		}
		y++
	}
}

// waitKey blocks the program at the current instruction until a key that
// was held down on the previous poll has been released. The released keys
// are stored in VX as a bit mask.
func (m *Machine) waitKey(x byte) {
	cur := m.Keys.Mask()
	if w := &m.Wait; w.State == WaitKeys {
		if released := w.Mask &^ cur; released != 0 {
			m.V[x] = byte(released)
			*w = KeyWait{}
			return
		}
	}
	m.Wait = KeyWait{State: WaitKeys, Mask: cur}
	m.PC -= 2
}
