package chip8

import "testing"

func TestFrameTimers(t *testing.T) {
	m, err := NewMachine([]byte{
		0x60, 0x03, // 200: SET V0, 03
		0xf0, 0x18, // 202: SST V0
		0xf0, 0x15, // 204: SDT V0
		0x12, 0x06, // 206: JMP 206
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range []struct {
		delay, sound byte
		bell         bool
	}{
		{2, 2, true},
		{1, 1, true},
		{0, 0, false},
		{0, 0, false},
	} {
		m.Frame()
		if m.Delay != w.delay || m.Sound != w.sound || m.Bell != w.bell {
			t.Errorf("after frame %d: delay=%d sound=%d bell=%v, want %d %d %v",
				i+1, m.Delay, m.Sound, m.Bell, w.delay, w.sound, w.bell)
		}
	}
	if g, w := m.PC, uint16(0x206); g != w {
		t.Errorf("PC is %.3x, want %.3x", g, w)
	}
}

func TestFrameCycles(t *testing.T) {
	// A run of ADD V0, 01 instructions counts the cycles in a frame.
	var rom []byte
	for i := 0; i < 3*CyclesPerFrame; i++ {
		rom = append(rom, 0x70, 0x01)
	}
	m, err := NewMachine(rom)
	if err != nil {
		t.Fatal(err)
	}
	m.Frame()
	if g, w := m.V[0], byte(CyclesPerFrame); g != w {
		t.Errorf("V0 is %d after one frame, want %d", g, w)
	}
	if g, w := m.PC, uint16(ProgramAddr+2*CyclesPerFrame); g != w {
		t.Errorf("PC is %.3x after one frame, want %.3x", g, w)
	}
}

func TestFrameWrapsPC(t *testing.T) {
	m, err := NewMachine(nil)
	if err != nil {
		t.Fatal(err)
	}
	// Memory is mostly zero words, which are ignored, so execution runs
	// off the end of memory and wraps to the start.
	m.PC = 0xffa
	m.Frame()
	if g, w := m.PC, uint16((0xffa+2*CyclesPerFrame)%MemSize); g != w {
		t.Errorf("PC is %.3x, want %.3x", g, w)
	}
}

func TestWaitKey(t *testing.T) {
	m, err := NewMachine([]byte{
		0xf3, 0x0a, // 200: WKEY V3
		0x12, 0x02, // 202: JMP 202
	})
	if err != nil {
		t.Fatal(err)
	}
	expect := func(pc uint16, state WaitState) {
		t.Helper()
		if m.PC != pc {
			t.Errorf("PC is %.3x, want %.3x", m.PC, pc)
		}
		if m.Wait.State != state {
			t.Errorf("wait state is %v, want %v", m.Wait.State, state)
		}
	}

	for i := 0; i < 3; i++ {
		m.Frame()
		expect(0x200, WaitKeys)
	}

	m.Keys[3] = true
	m.Frame()
	expect(0x200, WaitKeys)
	if g, w := m.Wait.Mask, uint16(0x0008); g != w {
		t.Errorf("wait mask is %.4x, want %.4x", g, w)
	}
	m.Frame()
	expect(0x200, WaitKeys)

	m.Keys[3] = false
	m.Frame()
	expect(0x202, WaitIdle)
	if g, w := m.V[3], byte(0x08); g != w {
		t.Errorf("V3 is %.2x, want %.2x", g, w)
	}
}

func TestWaitKeyPressAndReleaseBetweenPolls(t *testing.T) {
	m, err := NewMachine([]byte{0xf0, 0x0a})
	if err != nil {
		t.Fatal(err)
	}
	// A key pressed and released between polls is never seen.
	m.Step()
	m.Keys[1] = true
	m.Keys[1] = false
	m.Step()
	if g, w := m.PC, uint16(0x200); g != w {
		t.Errorf("PC is %.3x, want %.3x", g, w)
	}
}

func TestWaitKeyOnlyReleasedKeys(t *testing.T) {
	m, err := NewMachine([]byte{0xf5, 0x0a})
	if err != nil {
		t.Fatal(err)
	}
	m.Keys[0] = true
	m.Keys[2] = true
	m.Step() // arm with keys 0 and 2
	m.Keys[2] = false
	m.Keys[7] = true
	m.Step() // key 2 released; key 7 is newly held and ignored
	if g, w := m.V[5], byte(0x04); g != w {
		t.Errorf("V5 is %.2x, want %.2x", g, w)
	}
	if g, w := m.PC, uint16(0x202); g != w {
		t.Errorf("PC is %.3x, want %.3x", g, w)
	}
	if m.Wait != (KeyWait{}) {
		t.Errorf("wait is %+v, want idle", m.Wait)
	}
}

func TestWaitKeyHighKey(t *testing.T) {
	m, err := NewMachine([]byte{0xf4, 0x0a})
	if err != nil {
		t.Fatal(err)
	}
	m.V[4] = 0xaa
	m.Keys[9] = true
	m.Step()
	m.Keys[9] = false
	m.Step()
	// The released mask 0x0200 does not fit in a register.
	if g, w := m.V[4], byte(0); g != w {
		t.Errorf("V4 is %.2x, want %.2x", g, w)
	}
	if g, w := m.PC, uint16(0x202); g != w {
		t.Errorf("PC is %.3x, want %.3x", g, w)
	}
	if m.Wait != (KeyWait{}) {
		t.Errorf("wait is %+v, want idle", m.Wait)
	}
}

func TestTick(t *testing.T) {
	var m Machine
	m.Delay, m.Sound = 1, 0
	m.Tick()
	if m.Delay != 0 || m.Sound != 0 || m.Bell {
		t.Errorf("delay=%d sound=%d bell=%v, want 0 0 false", m.Delay, m.Sound, m.Bell)
	}
	m.Sound = 0xff
	m.Tick()
	if m.Sound != 0xfe || !m.Bell {
		t.Errorf("sound=%d bell=%v, want 254 true", m.Sound, m.Bell)
	}
}
