package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"sync"

	"golang.design/x/clipboard"
	"golang.org/x/image/draw"

	"github.com/nf/eight/chip8"
	"github.com/nf/eight/vip"
)

const shotScale = 8

// shot renders d with theme t, scaled up by shotScale.
func shot(d *chip8.Display, t vip.Theme) *image.RGBA {
	src := vip.Image(d, t)
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*shotScale, b.Dy()*shotScale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func writeShot(file string, d *chip8.Display, t vip.Theme) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(f, shot(d, t)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var clipboardInit = sync.OnceValue(clipboard.Init)

func copyShot(d *chip8.Display, t vip.Theme) error {
	if err := clipboardInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, shot(d, t)); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
