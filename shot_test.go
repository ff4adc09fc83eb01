package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/nf/eight/chip8"
	"github.com/nf/eight/vip"
)

func TestShot(t *testing.T) {
	var d chip8.Display
	d[1][2] = true
	img := shot(&d, vip.DefaultTheme)
	if b := img.Bounds(); b.Dx() != chip8.Width*shotScale || b.Dy() != chip8.Height*shotScale {
		t.Fatalf("bounds = %v", b)
	}
	for _, p := range []struct {
		x, y int
		on   bool
	}{
		{2 * shotScale, 1 * shotScale, true},
		{3*shotScale - 1, 2*shotScale - 1, true},
		{3 * shotScale, 1 * shotScale, false},
		{2 * shotScale, 2 * shotScale, false},
		{0, 0, false},
	} {
		want := vip.DefaultTheme[0]
		if p.on {
			want = vip.DefaultTheme[1]
		}
		if got := img.RGBAAt(p.x, p.y); got != want {
			t.Errorf("pixel (%d, %d) = %v, want %v", p.x, p.y, got, want)
		}
	}
}

func TestWriteShot(t *testing.T) {
	var d chip8.Display
	d[0][0] = true
	file := filepath.Join(t.TempDir(), "shot.png")
	if err := writeShot(file, &d, vip.DefaultTheme); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(file)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != chip8.Width*shotScale {
		t.Errorf("width = %d, want %d", b.Dx(), chip8.Width*shotScale)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0xffff {
		t.Errorf("pixel (0, 0) red = %#x, want 0xffff", r)
	}
}
