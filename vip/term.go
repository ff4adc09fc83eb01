package vip

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nf/eight/chip8"
)

// Terminal is a Frontend that draws the display in a terminal using
// half-block characters, two pixels to a cell.
//
// Terminals report key presses but not releases, so a pressed key is
// held down for Hold after its last press (or repeat) event.
type Terminal struct {
	Theme Theme
	Hold  time.Duration

	// NewScreen returns the screen to draw on. If nil, tcell.NewScreen
	// is used.
	NewScreen func() (tcell.Screen, error)

	keys  Keypad
	disp  chip8.Display
	bell  bool
	dirty bool
}

// NewTerminal returns a Terminal that draws the display with theme t.
func NewTerminal(t Theme) *Terminal {
	return &Terminal{Theme: t, Hold: 150 * time.Millisecond}
}

func (t *Terminal) Run(u *Updater, exit <-chan bool) error {
	newScreen := t.NewScreen
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	s, err := newScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	s.Clear()
	t.dirty = true

	var (
		events = make(chan tcell.Event)
		stop   = make(chan bool)
	)
	defer close(stop)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	tick := time.NewTicker(time.Second / FrameRate)
	defer tick.Stop()
	for {
		select {
		case <-exit:
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return nil
				case tcell.KeyRune:
					if k, ok := RuneKey(ev.Rune()); ok {
						t.keys.Hold(k, time.Now().Add(t.Hold))
					}
				}
			case *tcell.EventResize:
				s.Sync()
				t.dirty = true
			}

		case now := <-tick.C:
			t.keys.Release(now)
			select {
			case h := <-u.Update:
				t.sync(h)
				u.UpdateDone <- true
			case <-exit:
				return nil
			}
			if t.dirty {
				t.draw(s)
				s.Show()
				t.dirty = false
			}
		}
	}
}

// sync is called during the update handshake.
func (t *Terminal) sync(h *Host) {
	m := h.Machine()
	m.Keys = t.keys.Keys()
	if m.Display != t.disp || m.Bell != t.bell {
		t.disp = m.Display
		t.bell = m.Bell
		t.dirty = true
	}
}

func (t *Terminal) draw(s tcell.Screen) {
	color := func(on bool) tcell.Color {
		c := t.Theme[0]
		if on {
			c = t.Theme[1]
		}
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	for cy := 0; cy < chip8.Height/2; cy++ {
		for x := 0; x < chip8.Width; x++ {
			st := tcell.StyleDefault.
				Foreground(color(t.disp[2*cy][x])).
				Background(color(t.disp[2*cy+1][x]))
			s.SetContent(x, cy, '▀', nil, st)
		}
	}
	bell := ' '
	if t.bell {
		bell = '♪'
	}
	s.SetContent(chip8.Width, 0, bell, nil, tcell.StyleDefault)
}
