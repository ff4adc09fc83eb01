package vip

import "time"

// Headless is a Frontend without a display or keypad. It runs a frame
// for every value received from Tick, or at FrameRate if Tick is nil.
type Headless struct {
	Tick <-chan time.Time
}

func (hl Headless) Run(u *Updater, exit <-chan bool) error {
	tick := hl.Tick
	if tick == nil {
		t := time.NewTicker(time.Second / FrameRate)
		defer t.Stop()
		tick = t.C
	}
	for {
		select {
		case <-exit:
			return nil
		case <-tick:
		}
		select {
		case <-u.Update:
			u.UpdateDone <- true
		case <-exit:
			return nil
		}
	}
}
