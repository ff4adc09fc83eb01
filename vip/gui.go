package vip

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/eight/chip8"
)

// FrameRate is the rate at which frontends run machine frames.
const FrameRate = 60

// GUI is a Frontend that shows the display in a window and reads the
// keypad from the keyboard.
type GUI struct {
	Title string
	Scale int // initial window scale

	scr  *Screen
	keys Keypad

	tex   screen.Texture
	buf   screen.Buffer
	dirty bool
}

// NewGUI returns a GUI that draws the display with theme t.
func NewGUI(title string, t Theme) *GUI {
	return &GUI{Title: title, Scale: 10, scr: NewScreen(t)}
}

// Run must be called from the main goroutine.
func (g *GUI) Run(u *Updater, exit <-chan bool) (err error) {
	driver.Main(func(s screen.Screen) {
		err = g.run(s, u, exit)
	})
	return
}

func (g *GUI) run(s screen.Screen, u *Updater, exit <-chan bool) error {
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Title:  g.Title,
		Width:  chip8.Width * g.Scale,
		Height: chip8.Height * g.Scale,
	})
	if err != nil {
		return err
	}
	defer w.Release()

	sz := image.Point{chip8.Width, chip8.Height}
	if g.buf, err = s.NewBuffer(sz); err != nil {
		return err
	}
	defer g.buf.Release()
	if g.tex, err = s.NewTexture(sz); err != nil {
		return err
	}
	defer g.tex.Release()
	g.dirty = true

	type update struct{}
	stop := make(chan bool)
	defer close(stop)
	go func() {
		t := time.NewTicker(time.Second / FrameRate)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Send(update{})
			case <-exit:
				w.Send(update{}) // wake the event loop
				return
			case <-stop:
				return
			}
		}
	}()

	var ws size.Event
	for {
		e := w.NextEvent()

		select {
		case <-exit:
			return nil
		default:
		}

		switch e := e.(type) {
		case size.Event:
			ws = e
			if ws.WidthPx+ws.HeightPx == 0 {
				return nil
			}
			g.dirty = true

		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}

		case key.Event:
			if e.Code == key.CodeEscape {
				return nil
			}
			if k, ok := CodeKey(e.Code); ok {
				switch e.Direction {
				case key.DirPress:
					g.keys.Set(k, true)
				case key.DirRelease:
					g.keys.Set(k, false)
				}
			}

		case paint.Event:
			g.dirty = true

		case mouse.Event:
			// Ignored.

		case update:
			select {
			case h := <-u.Update:
				g.sync(h)
				u.UpdateDone <- true
			default:
				// machine is busy
			}
			if g.dirty && ws.WidthPx > 0 {
				g.publish(w, ws)
			}

		case error:
			log.Print(e)

		default:
			format := "got %#v\n"
			if _, ok := e.(fmt.Stringer); ok {
				format = "got %v\n"
			}
			log.Printf(format, e)
		}
	}
}

// sync is called during the update handshake.
func (g *GUI) sync(h *Host) {
	m := h.Machine()
	m.Keys = g.keys.Keys()
	if g.scr.Render(&m.Display) {
		g.dirty = true
	}
}

func (g *GUI) publish(w screen.Window, ws size.Event) {
	copy(g.buf.RGBA().Pix, g.scr.Image().Pix)
	g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
	w.Fill(ws.Bounds(), g.scr.Theme[0], draw.Src)
	w.Scale(fit(ws.Bounds()), g.tex, g.tex.Bounds(), draw.Src, nil)
	w.Publish()
	g.dirty = false
}

// fit returns the largest rectangle with the display's aspect ratio that
// fits centered within r.
func fit(r image.Rectangle) image.Rectangle {
	s := r.Dx() / chip8.Width
	if sy := r.Dy() / chip8.Height; sy < s {
		s = sy
	}
	if s < 1 {
		return r
	}
	sz := image.Pt(chip8.Width*s, chip8.Height*s)
	p := r.Min.Add(r.Size().Sub(sz).Div(2))
	return image.Rectangle{p, p.Add(sz)}
}
