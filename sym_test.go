package main

import (
	"strings"
	"testing"

	"github.com/nf/eight/chip8"
)

const testSyms = `
# labels from main.8o
0x20a loop
200 main
2f0 sprite
20a  draw
`

func TestParseSymbols(t *testing.T) {
	ss, err := parseSymbols(strings.NewReader(testSyms))
	if err != nil {
		t.Fatal(err)
	}
	want := symbols{
		{0x200, "main"},
		{0x20a, "loop"},
		{0x20a, "draw"},
		{0x2f0, "sprite"},
	}
	if len(ss) != len(want) {
		t.Fatalf("got %d symbols, want %d: %v", len(ss), len(want), ss)
	}
	for i := range want {
		if ss[i] != want[i] {
			t.Errorf("symbol %d = %v, want %v", i, ss[i], want[i])
		}
	}

	for _, bad := range []string{"200", "zz main", "1000 high", "200 a b"} {
		if _, err := parseSymbols(strings.NewReader(bad)); err == nil {
			t.Errorf("parseSymbols(%q) succeeded", bad)
		}
	}
}

func TestSymbolLookup(t *testing.T) {
	ss, err := parseSymbols(strings.NewReader(testSyms))
	if err != nil {
		t.Fatal(err)
	}

	if got := ss.forAddr(0x20a); len(got) != 2 || got[0].label != "loop" || got[1].label != "draw" {
		t.Errorf("forAddr(20a) = %v", got)
	}
	if got := ss.forAddr(0x201); len(got) != 0 {
		t.Errorf("forAddr(201) = %v", got)
	}

	if got := ss.withLabelPrefix("s"); len(got) != 1 || got[0].label != "sprite" {
		t.Errorf("withLabelPrefix(s) = %v", got)
	}
	if got := ss.withLabelPrefix(""); len(got) != 4 {
		t.Errorf("withLabelPrefix(\"\") returned %d symbols", len(got))
	}

	for _, tc := range []struct {
		arg   string
		addr  uint16
		label string
		ok    bool
	}{
		{"draw", 0x20a, "draw", true},
		{"2f0", 0x2f0, "sprite", true},
		{"0x300", 0x300, "300", true},
		{"fff", 0xfff, "fff", true},
		{"1000", 0, "", false},
		{"nowhere", 0, "", false},
	} {
		s, ok := ss.resolve(tc.arg)
		if ok != tc.ok || s.addr != tc.addr || s.label != tc.label {
			t.Errorf("resolve(%q) = %v, %v; want %v, %v", tc.arg, s, ok, symbol{tc.addr, tc.label}, tc.ok)
		}
	}
}

func TestAddrForOp(t *testing.T) {
	for _, tc := range []struct {
		op   uint16
		want uint16
		ok   bool
	}{
		{0x1234, 0x234, true},
		{0x2456, 0x456, true},
		{0xa2f0, 0x2f0, true},
		{0xbffe, 0x002, true}, // V0 = 4, wraps
		{0xd015, 0x321, true},
		{0xf033, 0x321, true},
		{0x6001, 0, false},
		{0x00e0, 0, false},
	} {
		m, err := chip8.NewMachine([]byte{byte(tc.op >> 8), byte(tc.op)})
		if err != nil {
			t.Fatal(err)
		}
		m.V[0] = 4
		m.I = 0x321
		addr, ok := addrForOp(m)
		if ok != tc.ok || addr != tc.want {
			t.Errorf("addrForOp(%.4x) = %.3x, %v; want %.3x, %v", tc.op, addr, ok, tc.want, tc.ok)
		}
	}
}
