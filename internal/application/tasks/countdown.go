// Package tasks provides the two timer disciplines the kiosk and billing
// flows rely on: one-shot countdowns that are always cancelled on every
// alternate exit path, and fixed-interval pollers owning a single timer.
package tasks

import (
	"sync"
	"time"
)

// Countdown runs a callback once after a delay unless cancelled first.
// Cancel clears the underlying timer; a cancelled countdown never fires,
// even if the timer had already been scheduled.
//
// INVARIANT: at most one active timer per Countdown instance.
type Countdown struct {
	mu        sync.Mutex
	timer     *time.Timer
	fired     bool
	cancelled bool
}

// StartCountdown schedules fn to run after d. The returned Countdown must
// be Cancelled on every exit path that makes the callback obsolete
// (manual confirm, manual cancel, navigation away).
func StartCountdown(d time.Duration, fn func()) *Countdown {
	c := &Countdown{}
	c.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		if c.cancelled {
			c.mu.Unlock()
			return
		}
		c.fired = true
		c.mu.Unlock()
		fn()
	})
	return c
}

// Cancel stops the countdown. Safe to call more than once and after the
// callback has fired.
// POST: the callback will not run after Cancel returns, unless it was
// already running.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	c.cancelled = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
}

// Fired reports whether the callback ran.
func (c *Countdown) Fired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}
