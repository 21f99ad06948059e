package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Fixed-interval polling defaults, used by payment confirmation.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 5 * time.Minute
)

// ErrAlreadyRunning is returned by Start on a poller that has already
// been started.
var ErrAlreadyRunning = errors.New("poller is already running")

// PollFunc checks the watched resource once. Returning done=true stops
// the poller. Errors are logged and polling continues; a transient check
// failure must not kill the loop.
type PollFunc func(ctx context.Context) (done bool, err error)

// Poller runs a PollFunc at a fixed interval until it reports done, the
// timeout elapses, or Stop is called — whichever happens first. No
// backoff, no jitter.
//
// INVARIANT: at most one active timer per Poller instance.
type Poller struct {
	Interval time.Duration // defaults to DefaultPollInterval
	Timeout  time.Duration // defaults to DefaultPollTimeout

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// Start begins polling with fn. It returns ErrAlreadyRunning if the
// poller is active; a stopped poller may be started again.
// POST: exactly one polling goroutine owns exactly one ticker
func (p *Poller) Start(ctx context.Context, fn PollFunc) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	done := p.done
	p.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
			close(done)
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		deadline := time.NewTimer(timeout)
		defer deadline.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-deadline.C:
				slog.Info("poll_timeout", "timeout", timeout)
				return
			case <-ticker.C:
				finished, err := fn(ctx)
				if err != nil {
					slog.Warn("poll_check_failed", "error", err.Error())
					continue
				}
				if finished {
					return
				}
			}
		}
	}()
	return nil
}

// Stop cancels polling and waits for the loop to exit. Safe to call on a
// poller that never started or already stopped.
// POST: no timer owned by this poller remains active
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Running reports whether the polling loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
