package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/eight/chip8"
	"github.com/nf/eight/vip"
)

type debugger struct {
	run   *vip.Runner
	theme vip.Theme

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu      sync.Mutex
	brk     *symbol
	syms    symbols
	watches []watch
}

type watch struct {
	symbol
	short bool
}

func (d *debugger) symbols() symbols {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syms
}

func (d *debugger) setSymbols(s symbols) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syms = s
}

func newDebugger(t vip.Theme) *debugger {
	d := &debugger{
		theme: t,
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 5, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if cmd, arg, ok := strings.Cut(t, " "); ok {
			switch cmd {
			case "b", "break", "w", "w2", "watch", "watch2":
				for _, s := range d.symbols().withLabelPrefix(arg) {
					entries = append(entries, cmd+" "+s.label)
				}
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		if cmd == "exit" {
			d.app.Stop()
			return
		}
		d.command(cmd)
	})
	return d
}

// command runs a debugger command typed by the user.
func (d *debugger) command(cmd string) {
	cmd, arg, hasArg := strings.Cut(strings.TrimSpace(cmd), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "b", "break":
		if !hasArg {
			d.run.Debug(cmd, 0)
			d.mu.Lock()
			d.brk = nil
			d.mu.Unlock()
			log.Print("cleared break")
			return
		}
		s, ok := d.symbols().resolve(arg)
		if !ok || s.addr == 0 {
			log.Printf("invalid addr %q", arg)
			return
		}
		d.run.Debug(cmd, s.addr)
		d.mu.Lock()
		d.brk = &s
		d.mu.Unlock()
		log.Printf("set break %.3x", s.addr)

	case "w", "w2", "watch", "watch2":
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid address %q", arg)
			return
		}
		d.mu.Lock()
		d.watches = append(d.watches,
			watch{symbol: s, short: strings.HasSuffix(cmd, "2")})
		d.mu.Unlock()
		log.Printf("watching %.3x", s.addr)

	case "shot", "copy":
		disp, ok := d.run.Display()
		if !ok {
			log.Print("not running")
			return
		}
		if cmd == "copy" {
			if err := copyShot(&disp, d.theme); err != nil {
				log.Printf("copy: %v", err)
				return
			}
			log.Print("copied screen to clipboard")
			return
		}
		if arg == "" {
			log.Print("usage: shot <file.png>")
			return
		}
		if err := writeShot(arg, &disp, d.theme); err != nil {
			log.Printf("shot: %v", err)
			return
		}
		log.Printf("wrote %s", arg)

	default:
		d.run.Debug(cmd, 0)
	}
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) StateFunc(m *chip8.Machine, k vip.StateKind) {
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != vip.ClearState && k != vip.QuietState {
		state = stateMsg(d.symbols(), m, k)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case vip.DebugState, vip.ClearState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case vip.BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case vip.PauseState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		}
		d.watch.SetText(watch)
		if k != vip.QuietState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(syms symbols, m *chip8.Machine, k vip.StateKind) string {
	var (
		op    = m.Fetch()
		pcSym string
		sym   string
	)
	if s := syms.forAddr(m.PC); len(s) > 0 {
		pcSym = s[0].String() + " -> "
	}
	if addr, ok := addrForOp(m); ok {
		for i, s := range syms.forAddr(addr) {
			if i != 0 {
				sym += " "
			}
			sym += s.String()
		}
	}
	kind := "       "
	switch k {
	case vip.BreakState:
		kind = "[break]"
	case vip.DebugState:
		kind = "[debug]"
	case vip.PauseState:
		kind = "[pause]"
	}
	var v strings.Builder
	for i, b := range m.V {
		if i != 0 {
			v.WriteByte(' ')
		}
		fmt.Fprintf(&v, "%.2x", b)
	}
	return fmt.Sprintf("%.3x %.4x %-14v %s %s%s\nv:  %s\ni:  %.3x  dt: %.2x  st: %.2x  keys: %.4x\nrs: %v\n",
		m.PC, uint16(op), op, kind, pcSym, sym, v.String(), m.I, m.Delay, m.Sound, m.Keys.Mask(), m.Stack)
}

func (d *debugger) watchContent(m *chip8.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if s := d.brk; s != nil {
		fmt.Fprintf(&b, "%s [%.3x] brk!\n", s.label, s.addr)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s [%.3x] ", w.label, w.addr)
		if w.short {
			fmt.Fprintf(&b, "%.2x%.2x", m.Mem[w.addr], m.Mem[(w.addr+1)&(chip8.MemSize-1)])
		} else {
			fmt.Fprintf(&b, "  %.2x", m.Mem[w.addr])
		}
	}
	return b.String()
}
