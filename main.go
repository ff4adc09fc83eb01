// Command eight executes CHIP-8 programs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"golang.org/x/term"

	"github.com/nf/eight/vip"
)

// config holds the settings given on the command line.
type config struct {
	gui     bool
	debug   bool
	asm     string // assembler command for .8o sources
	symFile string
	theme   vip.Theme
	tone    float64
	mute    bool
}

func main() {
	log.SetPrefix("eight: ")
	log.SetFlags(0)

	var (
		cliFlag   = flag.Bool("cli", false, "run in the terminal instead of a window")
		devFlag   = flag.Bool("dev", false, "enable developer mode (reload the program when it changes)")
		debugFlag = flag.Bool("debug", false, "enable debugger (implies -dev)")
		asmFlag   = flag.String("asm", "octo", "assembler `command` used to build .8o sources")
		symFlag   = flag.String("sym", "", "read debugger symbols from `file`")
		fgFlag    = flag.String("fg", "ffffff", "lit pixel `color` (rrggbb)")
		bgFlag    = flag.String("bg", "000000", "unlit pixel `color` (rrggbb)")
		toneFlag  = flag.Float64("tone", 440, "bell tone frequency in `Hz`")
		muteFlag  = flag.Bool("mute", false, "disable sound")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.ch8 | program.8o>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	c := &config{
		gui:     !*cliFlag,
		debug:   *debugFlag,
		asm:     *asmFlag,
		symFile: *symFlag,
		tone:    *toneFlag,
		mute:    *muteFlag,
	}
	for i, s := range []string{*bgFlag, *fgFlag} {
		col, err := vip.ParseColor(s)
		if err != nil {
			log.Fatal(err)
		}
		c.theme[i] = col
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	var err error
	if *devFlag || *debugFlag {
		err = devMode(c, flag.Arg(0))
	} else {
		err = run(c, flag.Arg(0))
	}

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(c *config, file string) error {
	tmp, err := os.MkdirTemp("", "eight-build-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	rom, err := build(os.Stderr, c, file, tmp)
	if err != nil {
		return err
	}
	front, err := newFrontend(c, file)
	if err != nil {
		return err
	}
	spk, closeSpk := newSpeaker(c)
	defer closeSpk()

	return vip.NewRunner(front, spk, nil).Run(rom)
}

var errNotTerminal = errors.New("-cli needs a terminal on standard input and output")

func newFrontend(c *config, file string) (vip.Frontend, error) {
	switch {
	case c.gui:
		return vip.NewGUI("eight: "+filepath.Base(file), c.theme), nil
	case c.debug:
		// The debugger owns the terminal.
		return vip.Headless{}, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errNotTerminal
	}
	return vip.NewTerminal(c.theme), nil
}

func newSpeaker(c *config) (vip.Speaker, func()) {
	if c.mute {
		return nil, func() {}
	}
	b, err := vip.NewBeeper(c.tone)
	if err != nil {
		log.Printf("sound disabled: %v", err)
		return nil, func() {}
	}
	return b, func() { b.Close() }
}

// build returns the program in file, assembling it into dir first if it
// is an Octo source file.
func build(out io.Writer, c *config, file, dir string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(file), ".8o") {
		return os.ReadFile(file)
	}
	romFile := filepath.Join(dir, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))+".ch8")
	cmd := exec.Command(c.asm, file, romFile)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v", c.asm, err)
	}
	return os.ReadFile(romFile)
}
