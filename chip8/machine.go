// Package chip8 provides an implementation of a CHIP-8 interpreter, called
// Machine, that can be used to execute CHIP-8 programs.
package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

const (
	MemSize   = 0x1000
	StackSize = 128

	Width  = 64
	Height = 32

	// FontAddr is where the hexadecimal digit glyphs live.
	FontAddr = 0x050
	// ProgramAddr is where programs are loaded and where execution begins.
	ProgramAddr = 0x200
	// MaxRomSize is the largest program that fits between ProgramAddr
	// and the end of memory.
	MaxRomSize = MemSize - ProgramAddr

	// CyclesPerFrame is the number of instructions executed by Frame.
	CyclesPerFrame = 12
)

var font = [16 * 5]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Machine is an implementation of a CHIP-8 interpreter.
//
// A Machine is not safe for concurrent use. Keys must be written before a
// call to Frame and Display and Bell read after it returns.
type Machine struct {
	Mem   [MemSize]byte
	V     [16]byte // VF doubles as the carry, borrow and collision flag
	I     uint16
	PC    uint16
	Stack Stack
	Delay byte
	Sound byte
	Wait  KeyWait

	// Keys is the input latch, owned by the host.
	Keys Keys

	// Display and Bell are the machine's outputs.
	Display Display
	Bell    bool

	// Rand returns the random bytes used by RND. If nil,
	// math/rand is used.
	Rand func() byte
}

// ErrRomTooLarge is returned by Load when a program does not fit in memory.
var ErrRomTooLarge = errors.New("rom too large")

// NewMachine returns a Machine loaded with the given rom at ProgramAddr.
func NewMachine(rom []byte) (*Machine, error) {
	m := &Machine{}
	if err := m.Load(rom); err != nil {
		return nil, err
	}
	return m, nil
}

// Load resets the machine and copies rom into memory at ProgramAddr.
// If rom is larger than MaxRomSize it returns an error wrapping
// ErrRomTooLarge and the machine is left unchanged.
// The input latch and random source are preserved.
func (m *Machine) Load(rom []byte) error {
	if len(rom) > MaxRomSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrRomTooLarge, len(rom), MaxRomSize)
	}
	*m = Machine{
		PC:   ProgramAddr,
		Keys: m.Keys,
		Rand: m.Rand,
	}
	copy(m.Mem[FontAddr:], font[:])
	copy(m.Mem[ProgramAddr:], rom)
	return nil
}

func (m *Machine) read(addr uint16) byte     { return m.Mem[addr&(MemSize-1)] }
func (m *Machine) write(addr uint16, b byte) { m.Mem[addr&(MemSize-1)] = b }

func (m *Machine) random() byte {
	if m.Rand != nil {
		return m.Rand()
	}
	return byte(rand.Uint32())
}

// Keys holds the pressed state of the 16 hexadecimal keys.
type Keys [16]bool

// Mask returns the key state as a bit mask, where bit k is set
// if key k is pressed.
func (k *Keys) Mask() uint16 {
	var mask uint16
	for i, down := range k {
		if down {
			mask |= 1 << i
		}
	}
	return mask
}

// Display is the monochrome framebuffer, indexed [y][x] with row 0 at the
// top. A true pixel is lit.
type Display [Height][Width]bool

// At reports whether the pixel at x, y is lit.
// Coordinates outside the display are never lit.
func (d *Display) At(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return d[y][x]
}

// Clear turns off every pixel.
func (d *Display) Clear() { *d = Display{} }

func (d Display) String() string {
	var b strings.Builder
	b.Grow((Width + 1) * Height)
	for y := range d {
		for _, on := range d[y] {
			if on {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WaitState is the state of the key wait performed by WKEY (FX0A).
type WaitState byte

const (
	WaitIdle WaitState = iota
	WaitKeys           // waiting for a key in Mask to be released
)

// KeyWait records the progress of a blocking key wait.
type KeyWait struct {
	State WaitState
	Mask  uint16 // keys held when the wait was last polled
}
