package chip8

import "fmt"

// Op is a 16-bit CHIP-8 instruction word.
type Op uint16

// Family returns the top nibble, which selects the instruction family.
func (o Op) Family() byte { return byte(o >> 12) }

// X returns the first register operand.
func (o Op) X() byte { return byte(o>>8) & 0xf }

// Y returns the second register operand.
func (o Op) Y() byte { return byte(o>>4) & 0xf }

// N returns the low nibble.
func (o Op) N() byte { return byte(o) & 0xf }

// NN returns the low byte.
func (o Op) NN() byte { return byte(o) }

// NNN returns the low 12 bits, an address.
func (o Op) NNN() uint16 { return uint16(o) & 0xfff }

// Instr identifies one of the CHIP-8 instructions.
type Instr byte

const (
	Unknown Instr = iota

	CLS  // 00E0 clear display
	RET  // 00EE return from subroutine
	SYS  // 0NNN machine code routine (ignored)
	JMP  // 1NNN jump
	CALL // 2NNN call subroutine
	SEQ  // 3XNN skip if VX == NN
	SNE  // 4XNN skip if VX != NN
	SEQR // 5XY0 skip if VX == VY
	SET  // 6XNN VX = NN
	ADD  // 7XNN VX += NN
	MOV  // 8XY0 VX = VY
	OR   // 8XY1 VX |= VY
	AND  // 8XY2 VX &= VY
	XOR  // 8XY3 VX ^= VY
	ADDR // 8XY4 VX += VY, VF = carry
	SUB  // 8XY5 VX -= VY, VF = !borrow
	SHR  // 8XY6 VX = VY >> 1, VF = lsb
	SUBN // 8XY7 VX = VY - VX, VF = !borrow
	SHL  // 8XYE VX = VY << 1, VF = msb
	SNER // 9XY0 skip if VX != VY
	LDI  // ANNN I = NNN
	JMPV // BNNN jump to NNN + V0
	RND  // CXNN VX = rand & NN
	DRW  // DXYN draw sprite
	SKP  // EX9E skip if key VX down
	SKNP // EXA1 skip if key VX up
	GDT  // FX07 VX = delay timer
	WKEY // FX0A wait for key release
	SDT  // FX15 delay timer = VX
	SST  // FX18 sound timer = VX
	ADDI // FX1E I += VX
	FONT // FX29 I = glyph for VX
	BCD  // FX33 store decimal digits of VX
	STM  // FX55 store V0..VX at I
	LDM  // FX65 load V0..VX from I
)

var instrNames = [...]string{
	Unknown: "???",
	CLS:     "CLS",
	RET:     "RET",
	SYS:     "SYS",
	JMP:     "JMP",
	CALL:    "CALL",
	SEQ:     "SEQ",
	SNE:     "SNE",
	SEQR:    "SEQ",
	SET:     "SET",
	ADD:     "ADD",
	MOV:     "MOV",
	OR:      "OR",
	AND:     "AND",
	XOR:     "XOR",
	ADDR:    "ADD",
	SUB:     "SUB",
	SHR:     "SHR",
	SUBN:    "SUBN",
	SHL:     "SHL",
	SNER:    "SNE",
	LDI:     "LDI",
	JMPV:    "JMP",
	RND:     "RND",
	DRW:     "DRW",
	SKP:     "SKP",
	SKNP:    "SKNP",
	GDT:     "GDT",
	WKEY:    "WKEY",
	SDT:     "SDT",
	SST:     "SST",
	ADDI:    "ADDI",
	FONT:    "FONT",
	BCD:     "BCD",
	STM:     "STM",
	LDM:     "LDM",
}

func (i Instr) String() string {
	if int(i) < len(instrNames) {
		return instrNames[i]
	}
	return fmt.Sprintf("Instr(%d)", byte(i))
}

// Decode identifies the instruction encoded by o. It returns Unknown for
// words that do not encode any instruction.
func (o Op) Decode() Instr {
	switch o.Family() {
	case 0x0:
		switch o {
		case 0x00e0:
			return CLS
		case 0x00ee:
			return RET
		}
		return SYS
	case 0x1:
		return JMP
	case 0x2:
		return CALL
	case 0x3:
		return SEQ
	case 0x4:
		return SNE
	case 0x5:
		if o.N() == 0 {
			return SEQR
		}
	case 0x6:
		return SET
	case 0x7:
		return ADD
	case 0x8:
		switch o.N() {
		case 0x0:
			return MOV
		case 0x1:
			return OR
		case 0x2:
			return AND
		case 0x3:
			return XOR
		case 0x4:
			return ADDR
		case 0x5:
			return SUB
		case 0x6:
			return SHR
		case 0x7:
			return SUBN
		case 0xe:
			return SHL
		}
	case 0x9:
		if o.N() == 0 {
			return SNER
		}
	case 0xa:
		return LDI
	case 0xb:
		return JMPV
	case 0xc:
		return RND
	case 0xd:
		return DRW
	case 0xe:
		switch o.NN() {
		case 0x9e:
			return SKP
		case 0xa1:
			return SKNP
		}
	case 0xf:
		switch o.NN() {
		case 0x07:
			return GDT
		case 0x0a:
			return WKEY
		case 0x15:
			return SDT
		case 0x18:
			return SST
		case 0x1e:
			return ADDI
		case 0x29:
			return FONT
		case 0x33:
			return BCD
		case 0x55:
			return STM
		case 0x65:
			return LDM
		}
	}
	return Unknown
}

// String returns an assembly listing of the instruction, such as
// "SET V3, 0a" or "DRW V0, V1, 5".
func (o Op) String() string {
	in := o.Decode()
	switch in {
	case CLS, RET:
		return in.String()
	case SYS, JMP, CALL, LDI:
		return fmt.Sprintf("%s %.3x", in, o.NNN())
	case JMPV:
		return fmt.Sprintf("%s V0, %.3x", in, o.NNN())
	case SEQ, SNE, SET, ADD, RND:
		return fmt.Sprintf("%s V%X, %.2x", in, o.X(), o.NN())
	case SEQR, SNER, MOV, OR, AND, XOR, ADDR, SUB, SHR, SUBN, SHL:
		return fmt.Sprintf("%s V%X, V%X", in, o.X(), o.Y())
	case DRW:
		return fmt.Sprintf("%s V%X, V%X, %x", in, o.X(), o.Y(), o.N())
	case SKP, SKNP, GDT, WKEY, SDT, SST, ADDI, FONT, BCD, STM, LDM:
		return fmt.Sprintf("%s V%X", in, o.X())
	default:
		return fmt.Sprintf("%s %.4x", in, uint16(o))
	}
}
