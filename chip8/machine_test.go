package chip8

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestNewMachine(t *testing.T) {
	for _, c := range []struct {
		romSize int
		err     bool
	}{
		{0x000, false},
		{0x001, false},
		{0x800, false},
		{0xdff, false},
		{0xe00, false},
		{0xe01, true},
		{0x1000, true},
	} {
		t.Run(fmt.Sprintf("%.4x", c.romSize), func(t *testing.T) {
			m, err := NewMachine(bytes.Repeat([]byte{1}, c.romSize))
			if c.err {
				if !errors.Is(err, ErrRomTooLarge) {
					t.Fatalf("got error %v, want %v", err, ErrRomTooLarge)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			for i := range m.Mem {
				w := byte(0)
				switch {
				case i >= FontAddr && i < FontAddr+len(font):
					w = font[i-FontAddr]
				case i >= ProgramAddr && i < ProgramAddr+c.romSize:
					w = 1
				}
				if g := m.Mem[i]; g != w {
					t.Errorf("Mem[%.3x] == %.2x, want %.2x", i, g, w)
				}
			}
			if g, w := m.PC, uint16(ProgramAddr); g != w {
				t.Errorf("PC is %.3x, want %.3x", g, w)
			}
			if g := m.Stack.Ptr; g != 0 {
				t.Errorf("stack pointer is %d, want 0", g)
			}
		})
	}
}

func TestLoadResets(t *testing.T) {
	m, err := NewMachine([]byte{0xff, 0xff, 0xff})
	if err != nil {
		t.Fatal(err)
	}
	rand := func() byte { return 4 }
	m.V[3] = 7
	m.I = 0x123
	m.PC = 0x456
	m.Stack.push(0x202)
	m.Delay, m.Sound, m.Bell = 1, 2, true
	m.Wait = KeyWait{State: WaitKeys, Mask: 0x8}
	m.Display[4][5] = true
	m.Keys[0xa] = true
	m.Rand = rand

	if err := m.Load([]byte{0x12, 0x00}); err != nil {
		t.Fatal(err)
	}
	if m.V != [16]byte{} || m.I != 0 || m.Delay != 0 || m.Sound != 0 || m.Bell {
		t.Errorf("registers not reset: V=% x I=%.3x DT=%d ST=%d bell=%v",
			m.V[:], m.I, m.Delay, m.Sound, m.Bell)
	}
	if m.PC != ProgramAddr || m.Stack.Ptr != 0 {
		t.Errorf("PC=%.3x SP=%d, want %.3x 0", m.PC, m.Stack.Ptr, ProgramAddr)
	}
	if m.Wait != (KeyWait{}) {
		t.Errorf("key wait is %+v, want idle", m.Wait)
	}
	if m.Display != (Display{}) {
		t.Errorf("display not cleared:\n%v", m.Display)
	}
	if g, w := m.Mem[ProgramAddr:ProgramAddr+3], []byte{0x12, 0x00, 0x00}; !bytes.Equal(g, w) {
		t.Errorf("program memory is % x, want % x", g, w)
	}
	if !m.Keys[0xa] {
		t.Error("input latch was cleared")
	}
	if m.Rand == nil || m.Rand() != 4 {
		t.Error("random source was not preserved")
	}
}

func TestLoadTooLarge(t *testing.T) {
	m, err := NewMachine([]byte{0xa1, 0x23})
	if err != nil {
		t.Fatal(err)
	}
	m.Step()
	m.V[3] = 7
	before := *m

	err = m.Load(make([]byte, MaxRomSize+1))
	if !errors.Is(err, ErrRomTooLarge) {
		t.Fatalf("got error %v, want %v", err, ErrRomTooLarge)
	}
	if m.Mem != before.Mem || m.V != before.V || m.PC != before.PC || m.I != before.I {
		t.Error("machine state changed by failed Load")
	}
}

func TestKeysMask(t *testing.T) {
	for _, c := range []struct {
		keys []int
		want uint16
	}{
		{nil, 0},
		{[]int{0}, 0x0001},
		{[]int{3}, 0x0008},
		{[]int{0xf}, 0x8000},
		{[]int{1, 2, 0xe}, 0x4006},
	} {
		var k Keys
		for _, i := range c.keys {
			k[i] = true
		}
		if g := k.Mask(); g != c.want {
			t.Errorf("Mask of %v = %.4x, want %.4x", c.keys, g, c.want)
		}
	}
}

func TestDisplayAt(t *testing.T) {
	var d Display
	d[31][63] = true
	for _, c := range []struct {
		x, y int
		want bool
	}{
		{63, 31, true},
		{0, 0, false},
		{64, 31, false},
		{63, 32, false},
		{-1, 0, false},
	} {
		if g := d.At(c.x, c.y); g != c.want {
			t.Errorf("At(%d, %d) = %v, want %v", c.x, c.y, g, c.want)
		}
	}
}
