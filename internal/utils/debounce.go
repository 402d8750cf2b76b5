// Package utils holds small helpers shared by plugins.
package utils

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into one call after a quiet period.
// The zero value is ready to use.
type Debouncer struct {
	mutex      sync.Mutex
	timer      *time.Timer
	generation uint64
	lastCalled time.Time
}

// Debounce calls fn once duration has passed without another Debounce,
// canceling any previous pending call.
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.timer = time.AfterFunc(duration, func() {
		d.mutex.Lock()
		// A timer that fired while being replaced or stopped is stale.
		if gen != d.generation {
			d.mutex.Unlock()
			return
		}
		d.lastCalled = time.Now()
		d.timer = nil
		d.mutex.Unlock()
		fn()
	})
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.timer != nil
}

// Stop cancels a pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.generation++
	return true
}

// LastCalled returns when the debounced function last ran.
func (d *Debouncer) LastCalled() time.Time {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.lastCalled
}
