package vip

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/nf/eight/chip8"
)

// Theme holds the colors of unlit and lit pixels.
type Theme [2]color.RGBA

// DefaultTheme is black and white.
var DefaultTheme = Theme{
	{0x00, 0x00, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// ParseColor parses a color written as six hexadecimal digits, rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	if len(s) == 7 && s[0] == '#' {
		s = s[1:]
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, want rrggbb", s)
	}
	return color.RGBA{byte(v >> 16), byte(v >> 8), byte(v), 0xff}, nil
}

// Screen renders a machine's display as an image.
type Screen struct {
	Theme Theme

	img  *image.RGBA
	last chip8.Display
}

// NewScreen returns a Screen with the given theme.
func NewScreen(t Theme) *Screen {
	s := &Screen{Theme: t, img: image.NewRGBA(image.Rect(0, 0, chip8.Width, chip8.Height))}
	s.paint()
	return s
}

// Image returns the rendered display. It is overwritten by Render.
func (s *Screen) Image() *image.RGBA { return s.img }

// Render draws d and reports whether the image changed.
func (s *Screen) Render(d *chip8.Display) bool {
	if *d == s.last {
		return false
	}
	s.last = *d
	s.paint()
	return true
}

func (s *Screen) paint() {
	for y := range s.last {
		for x, on := range s.last[y] {
			c := s.Theme[0]
			if on {
				c = s.Theme[1]
			}
			s.img.SetRGBA(x, y, c)
		}
	}
}

// Image renders d with theme t into a new image.
func Image(d *chip8.Display, t Theme) *image.RGBA {
	s := NewScreen(t)
	s.Render(d)
	return s.img
}
