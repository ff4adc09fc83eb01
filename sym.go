package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nf/eight/chip8"
)

// symbols is sorted by address.
type symbols []symbol

func (s symbols) forAddr(addr uint16) (ss []symbol) {
	i := sort.Search(len(s), func(i int) bool { return s[i].addr >= addr })
	for ; i < len(s); i++ {
		if s[i].addr != addr {
			break
		}
		ss = append(ss, s[i])
	}
	return ss
}

func (s symbols) withLabelPrefix(prefix string) (ss []symbol) {
	for _, sym := range s {
		if strings.HasPrefix(sym.label, prefix) {
			ss = append(ss, sym)
		}
	}
	return ss
}

// resolve looks up arg as a label and then as a hexadecimal address.
func (s symbols) resolve(arg string) (symbol, bool) {
	for _, sym := range s {
		if sym.label == arg {
			return sym, true
		}
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 16)
	if err != nil || v >= chip8.MemSize {
		return symbol{}, false
	}
	addr := uint16(v)
	if ss := s.forAddr(addr); len(ss) > 0 {
		return ss[0], true
	}
	return symbol{addr: addr, label: fmt.Sprintf("%.3x", addr)}, true
}

type symbol struct {
	addr  uint16
	label string
}

func (s symbol) String() string { return fmt.Sprintf("%s (%.3x)", s.label, s.addr) }

func readSymbols(symFile string) (symbols, error) {
	f, err := os.Open(symFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseSymbols(f)
}

// parseSymbols reads lines of the form
//
//	ADDR LABEL
//
// where ADDR is hexadecimal. Blank lines and lines beginning with # are
// ignored.
func parseSymbols(r io.Reader) (symbols, error) {
	var (
		ss   symbols
		line int
		sc   = bufio.NewScanner(r)
	)
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" || t[0] == '#' {
			continue
		}
		f := strings.Fields(t)
		if len(f) != 2 {
			return nil, fmt.Errorf("line %d: want ADDR LABEL, got %q", line, t)
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(f[0], "0x"), 16, 16)
		if err != nil || v >= chip8.MemSize {
			return nil, fmt.Errorf("line %d: invalid address %q", line, f[0])
		}
		ss = append(ss, symbol{addr: uint16(v), label: f[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].addr < ss[j].addr
	})
	return ss, nil
}

// addrForOp returns the address referred to by the instruction at PC.
func addrForOp(m *chip8.Machine) (uint16, bool) {
	op := m.Fetch()
	switch op.Decode() {
	case chip8.JMP, chip8.CALL, chip8.LDI, chip8.SYS:
		return op.NNN(), true
	case chip8.JMPV:
		return (op.NNN() + uint16(m.V[0])) & (chip8.MemSize - 1), true
	case chip8.DRW, chip8.BCD, chip8.STM, chip8.LDM:
		return m.I, true
	}
	return 0, false
}
