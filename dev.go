package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/eight/vip"
)

// devMode runs the program in file, rebuilding and reloading it whenever
// it changes on disk. With c.debug it also runs the debugger.
func devMode(c *config, file string) error {
	file = filepath.Clean(file)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp("", "eight-dev-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	front, err := newFrontend(c, file)
	if err != nil {
		return err
	}
	spk, closeSpk := newSpeaker(c)
	defer closeSpk()

	var (
		dbg    *debugger
		state  vip.StateFunc
		out    io.Writer = os.Stderr
		runner *vip.Runner
	)
	if c.debug {
		dbg = newDebugger(c.theme)
		state = dbg.StateFunc
		out = dbg.log
	}
	runner = vip.NewRunner(front, spk, state)
	if dbg != nil {
		dbg.run = runner
		log.SetPrefix("")
		log.SetOutput(dbg.log)
		go func() {
			if err := dbg.Run(); err != nil {
				log.SetOutput(os.Stderr)
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("eight: ")
			runner.Debug("exit", 0)
		}()
		defer dbg.app.Stop()
	}

	romCh := make(chan []byte)
	go func() {
		started := false
		run := time.After(1 * time.Millisecond)
		for {
			select {
			case <-run:
				log.Printf("dev: build %s", filepath.Base(file))
				rom, err := build(out, c, file, tmp)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if dbg != nil && c.symFile != "" {
					syms, err := readSymbols(c.symFile)
					if err != nil {
						log.Printf("dev: reading symbols: %v", err)
					} else {
						dbg.setSymbols(syms)
					}
				}
				if !started {
					log.Printf("dev: start")
					romCh <- rom
					started = true
				} else {
					log.Printf("dev: reset")
					if err := runner.Swap(rom); err != nil {
						log.Printf("dev: %v", err)
					}
				}
			case ev := <-watcher.Event:
				if isSource(ev.Name, file, c.symFile) && !ev.IsAttrib() {
					run = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()
	if err := runner.Run(<-romCh); err != nil {
		return fmt.Errorf("dev: %v", err)
	}
	return nil
}

// isSource reports whether name is one of the watched files.
func isSource(name string, files ...string) bool {
	name = filepath.Clean(name)
	for _, f := range files {
		if f != "" && name == filepath.Clean(f) {
			return true
		}
	}
	return false
}
