package vip

import (
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/nf/eight/chip8"
)

// Keypad collects key state on the frontend side until it can be
// copied into a machine during the update handshake.
type Keypad struct {
	keys    chip8.Keys
	expires [16]time.Time // for keys without release events
}

// Set records key k as pressed or released and reports whether
// its state changed.
func (p *Keypad) Set(k int, down bool) bool {
	p.expires[k] = time.Time{}
	if p.keys[k] == down {
		return false
	}
	p.keys[k] = down
	return true
}

// Hold records key k as pressed until the given time. It is used for
// input devices, such as terminals, that report presses but not releases.
func (p *Keypad) Hold(k int, until time.Time) {
	p.keys[k] = true
	p.expires[k] = until
}

// Release releases held keys whose time has passed.
func (p *Keypad) Release(now time.Time) {
	for k, t := range p.expires {
		if !t.IsZero() && !now.Before(t) {
			p.keys[k] = false
			p.expires[k] = time.Time{}
		}
	}
}

// Keys returns the current key state.
func (p *Keypad) Keys() chip8.Keys { return p.keys }

// The hexadecimal keypad:
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// is mapped to the left side of a QWERTY keyboard:
//
//	1 2 3 4
//	Q W E R
//	A S D F
//	Z X C V
var runeKeys = map[rune]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

var codeKeys = map[key.Code]int{
	key.Code1: 0x1, key.Code2: 0x2, key.Code3: 0x3, key.Code4: 0xc,
	key.CodeQ: 0x4, key.CodeW: 0x5, key.CodeE: 0x6, key.CodeR: 0xd,
	key.CodeA: 0x7, key.CodeS: 0x8, key.CodeD: 0x9, key.CodeF: 0xe,
	key.CodeZ: 0xa, key.CodeX: 0x0, key.CodeC: 0xb, key.CodeV: 0xf,
}

// RuneKey returns the keypad key for a typed character.
func RuneKey(r rune) (int, bool) {
	k, ok := runeKeys[unicode.ToLower(r)]
	return k, ok
}

// CodeKey returns the keypad key for a physical key code.
func CodeKey(c key.Code) (int, bool) {
	k, ok := codeKeys[c]
	return k, ok
}
