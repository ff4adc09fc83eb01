// Package vip connects a CHIP-8 Machine to a display, keypad and speaker,
// in the manner of the COSMAC VIP that first ran CHIP-8 programs.
package vip

import (
	"errors"
	"log"
	"sync"

	"github.com/nf/eight/chip8"
)

// Frontend presents the machine to the user.
//
// Run drives the frontend until exit is closed or the user quits.
// Once per frame it should receive a Host from u.Update, synchronize with
// it (write the keypad into the machine and read its display), and then
// send on u.UpdateDone. The Host may be accessed only between those two
// operations; at all other times it may be mutated by the program.
type Frontend interface {
	Run(u *Updater, exit <-chan bool) error
}

// Updater carries the per-frame handshake between a Host and a Frontend.
type Updater struct {
	Update     <-chan *Host
	UpdateDone chan<- bool

	update     chan *Host
	updateDone chan bool
}

func newUpdater() *Updater {
	u := &Updater{
		update:     make(chan *Host),
		updateDone: make(chan bool),
	}
	u.Update, u.UpdateDone = u.update, u.updateDone
	return u
}

// StateKind describes why a StateFunc was called.
type StateKind int

const (
	ClearState StateKind = iota // execution resumed
	QuietState                  // a frame completed
	DebugState                  // a single step completed
	BreakState                  // execution reached a breakpoint
	PauseState                  // execution was paused
)

// StateFunc is called from the machine goroutine with the machine at rest.
// It must not retain m.
type StateFunc func(m *chip8.Machine, k StateKind)

// Runner runs a Host, replacing it on request.
type Runner struct {
	front Frontend
	spk   Speaker
	state StateFunc
	u     *Updater

	reset     chan *Host
	resetDone chan bool
	debug     chan debugCmd
	snap      chan chan chip8.Display

	mu  sync.Mutex
	rom []byte // most recently loaded

	exit     chan bool
	exitOnce sync.Once
}

// NewRunner returns a Runner that presents its machine with front.
// The speaker and state func may be nil. If state is nil then the
// machine runs whole frames and debug commands are ignored.
func NewRunner(front Frontend, spk Speaker, state StateFunc) *Runner {
	return &Runner{
		front:     front,
		spk:       spk,
		state:     state,
		u:         newUpdater(),
		reset:     make(chan *Host),
		resetDone: make(chan bool),
		debug:     make(chan debugCmd),
		snap:      make(chan chan chip8.Display),
		exit:      make(chan bool),
	}
}

// Run loads rom and executes it until the frontend exits or Stop is called.
func (r *Runner) Run(rom []byte) error {
	h, err := r.newHost(rom)
	if err != nil {
		return err
	}
	done := make(chan bool)
	go r.loop(h, done)
	err = r.front.Run(r.u, r.exit)
	r.Stop()
	<-done
	if r.spk != nil {
		r.spk.SetBell(false)
	}
	return err
}

func (r *Runner) newHost(rom []byte) (*Host, error) {
	h, err := New(rom)
	if err != nil {
		return nil, err
	}
	h.spk = r.spk
	h.state = r.state
	r.mu.Lock()
	r.rom = rom
	r.mu.Unlock()
	return h, nil
}

func (r *Runner) loop(h *Host, done chan<- bool) {
	defer close(done)
	var (
		d        = &debugState{brk: noBreak}
		execDone = make(chan bool)
		start    = func(h *Host) {
			go func() {
				h.exec(r.u, d, r.debug, r.snap)
				execDone <- true
			}()
		}
	)
	start(h)
	for {
		select {
		case newH := <-r.reset:
			h.Halt()
			<-execDone
			h = newH
			start(h)
			r.resetDone <- true
		case <-r.exit:
			h.Halt()
			<-execDone
			return
		}
	}
}

// ErrStopped is returned by Runner methods called after the Runner stopped.
var ErrStopped = errors.New("runner stopped")

// Swap replaces the running machine with a new one loaded with rom.
// Debugger state such as breakpoints is preserved.
func (r *Runner) Swap(rom []byte) error {
	h, err := r.newHost(rom)
	if err != nil {
		return err
	}
	select {
	case r.reset <- h:
		<-r.resetDone
		return nil
	case <-r.exit:
		return ErrStopped
	}
}

// Debug sends a debugger command to the machine goroutine.
// The commands are:
//
//	break  stop when PC reaches addr (addr 0 clears the breakpoint)
//	pause  stop execution
//	cont   resume execution
//	step   execute one instruction while paused
//	frame  execute one frame while paused
//	trace  log the most recently executed instructions
//	reset  reload the current program
//	exit   stop the runner
func (r *Runner) Debug(cmd string, addr uint16) {
	switch cmd {
	case "exit":
		r.Stop()
		return
	case "r", "reset":
		r.mu.Lock()
		rom := r.rom
		r.mu.Unlock()
		if err := r.Swap(rom); err != nil {
			log.Printf("reset: %v", err)
		}
		return
	}
	select {
	case r.debug <- debugCmd{cmd, addr}:
	case <-r.exit:
	}
}

// Display returns a copy of the running machine's display.
// It reports false if the runner has stopped.
func (r *Runner) Display() (chip8.Display, bool) {
	reply := make(chan chip8.Display, 1)
	select {
	case r.snap <- reply:
		return <-reply, true
	case <-r.exit:
		return chip8.Display{}, false
	}
}

// Stop stops the runner. It is safe to call more than once.
func (r *Runner) Stop() {
	r.exitOnce.Do(func() { close(r.exit) })
}

// Host is a loaded machine and the state needed to run it.
type Host struct {
	m     *chip8.Machine
	spk   Speaker
	state StateFunc
	trace backlog

	halt     chan bool
	haltOnce sync.Once
}

// New returns a Host whose machine is loaded with rom.
func New(rom []byte) (*Host, error) {
	m, err := chip8.NewMachine(rom)
	if err != nil {
		return nil, err
	}
	return &Host{m: m, halt: make(chan bool)}, nil
}

// Machine returns the host's machine. It may only be used by a Frontend
// during the update handshake.
func (h *Host) Machine() *chip8.Machine { return h.m }

// Halt stops the host's execution loop.
func (h *Host) Halt() {
	h.haltOnce.Do(func() { close(h.halt) })
}

// exec runs the machine one frame per update handshake until Halt is called.
func (h *Host) exec(u *Updater, d *debugState, cmds <-chan debugCmd, snap <-chan chan chip8.Display) {
	for {
		select {
		case u.update <- h:
			<-u.updateDone
			h.frame(d)
		case c := <-cmds:
			h.command(d, c)
		case reply := <-snap:
			reply <- h.m.Display
		case <-h.halt:
			return
		}
	}
}

func (h *Host) frame(d *debugState) {
	if h.state == nil {
		h.m.Frame()
		h.ring()
		return
	}
	if d.paused {
		return
	}
	for i := 0; i < chip8.CyclesPerFrame; i++ {
		if d.atBreak(h.m.PC) {
			d.paused = true
			h.state(h.m, BreakState)
			return
		}
		h.step(d)
	}
	h.m.Tick()
	h.ring()
	h.state(h.m, QuietState)
}

func (h *Host) step(d *debugState) {
	pc := h.m.PC
	op := h.m.Step()
	h.trace.LazyPrintf("%.3x  %.4x  %v", pc, uint16(op), op)
	d.resumed = false
}

func (h *Host) ring() {
	if h.spk != nil {
		h.spk.SetBell(h.m.Bell)
	}
}

func (h *Host) command(d *debugState, c debugCmd) {
	if h.state == nil {
		return
	}
	switch c.cmd {
	case "b", "break":
		if c.addr == 0 {
			d.brk = noBreak
		} else {
			d.brk = int(c.addr)
		}
	case "p", "pause":
		d.paused = true
		h.state(h.m, PauseState)
	case "c", "cont":
		d.paused = false
		d.resumed = true
		h.state(h.m, ClearState)
	case "s", "step":
		if d.paused {
			h.step(d)
			h.state(h.m, DebugState)
		}
	case "f", "frame":
		if d.paused {
			for i := 0; i < chip8.CyclesPerFrame; i++ {
				h.step(d)
			}
			h.m.Tick()
			h.ring()
			h.state(h.m, DebugState)
		}
	case "t", "trace":
		h.trace.Emit()
	default:
		log.Printf("unknown debug command %q", c.cmd)
	}
}

type debugCmd struct {
	cmd  string
	addr uint16
}

const noBreak = -1

// debugState is shared by successive Hosts run by a Runner and is
// accessed only by the Host currently executing.
type debugState struct {
	brk     int // breakpoint address or noBreak
	paused  bool
	resumed bool // skip the breakpoint at the current PC
}

func (d *debugState) atBreak(pc uint16) bool {
	return d.brk == int(pc) && !d.resumed
}

type backlog struct {
	entries []logEntry
	n       int
}

type logEntry struct {
	format string
	args   []any
}

const maxBacklog = 100

func (b *backlog) LazyPrintf(format string, args ...any) {
	if b.n < len(b.entries) {
		b.entries[b.n] = logEntry{format, args}
	} else {
		b.entries = append(b.entries, logEntry{format, args})
	}
	b.n = (b.n + 1) % maxBacklog
}

func (b *backlog) Emit() {
	if len(b.entries) == 0 {
		return
	}
	for i := b.n; ; i++ {
		i %= len(b.entries)
		log.Printf(b.entries[i].format, b.entries[i].args...)
		if (i+1)%maxBacklog == b.n {
			break
		}
	}
}
