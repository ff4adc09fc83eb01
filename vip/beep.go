package vip

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Speaker sounds the machine's bell.
type Speaker interface {
	SetBell(on bool)
}

const sampleRate = 44100

// Beeper is a Speaker that plays a sine tone through the system's
// audio device while the bell is on.
type Beeper struct {
	ctx    *oto.Context
	player *oto.Player

	mu sync.Mutex
	on bool
}

// NewBeeper opens the audio device and prepares a tone of the given
// frequency in Hz.
func NewBeeper(freq float64) (*Beeper, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &Beeper{
		ctx:    ctx,
		player: ctx.NewPlayer(NewTone(freq, sampleRate)),
	}, nil
}

func (b *Beeper) SetBell(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if on == b.on {
		return
	}
	b.on = on
	if on {
		b.player.Play()
	} else {
		b.player.Pause()
	}
}

// Close stops the tone and releases the player.
func (b *Beeper) Close() error {
	b.SetBell(false)
	return b.player.Close()
}

// Tone is an endless sine wave, read as mono 32-bit float little-endian
// samples.
type Tone struct {
	step  float64 // phase increment per sample
	phase float64
}

// NewTone returns a Tone of freq Hz sampled at rate Hz.
func NewTone(freq float64, rate int) *Tone {
	return &Tone{step: 2 * math.Pi * freq / float64(rate)}
}

// Read fills p with whole samples. It never returns an error.
func (t *Tone) Read(p []byte) (int, error) {
	n := len(p) / 4 * 4
	for i := 0; i < n; i += 4 {
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(float32(math.Sin(t.phase))))
		t.phase += t.step
		if t.phase > 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
	return n, nil
}
