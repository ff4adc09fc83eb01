package chip8

import (
	"fmt"
	"strings"
)

// Stack implements the CHIP-8 call stack.
// The pointer wraps at StackSize in both directions; overflow and
// underflow are not errors.
type Stack struct {
	Addrs [StackSize]uint16
	Ptr   byte
}

func (s *Stack) push(addr uint16) {
	s.Addrs[s.Ptr] = addr
	s.Ptr = (s.Ptr + 1) % StackSize
}

func (s *Stack) pop() uint16 {
	s.Ptr = (s.Ptr + StackSize - 1) % StackSize
	return s.Addrs[s.Ptr]
}

func (s Stack) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, v := range s.Addrs[:s.Ptr] {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%.3x", v)
	}
	b.WriteByte(' ')
	b.WriteByte(')')
	return b.String()
}
