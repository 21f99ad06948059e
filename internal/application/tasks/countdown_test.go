package tasks_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"academia/internal/application/tasks"
)

// TestCountdown_Fires tests that an uncancelled countdown runs its
// callback.
func TestCountdown_Fires(t *testing.T) {
	fired := make(chan struct{})
	c := tasks.StartCountdown(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("countdown never fired")
	}
	if !c.Fired() {
		t.Error("Fired() = false after callback ran")
	}
}

// TestCountdown_CancelPreventsFiring tests the cancel-on-exit contract:
// cancelling before expiry must prevent the callback, not merely ignore
// it.
func TestCountdown_CancelPreventsFiring(t *testing.T) {
	var fired atomic.Bool
	c := tasks.StartCountdown(30*time.Millisecond, func() { fired.Store(true) })
	c.Cancel()

	time.Sleep(80 * time.Millisecond)
	if fired.Load() {
		t.Error("callback fired after Cancel")
	}
	if c.Fired() {
		t.Error("Fired() = true for a cancelled countdown")
	}
}

// TestCountdown_CancelIdempotent tests repeated and late cancels.
func TestCountdown_CancelIdempotent(t *testing.T) {
	c := tasks.StartCountdown(5*time.Millisecond, func() {})
	time.Sleep(30 * time.Millisecond)
	c.Cancel()
	c.Cancel()
}

// TestPoller_StopsOnDone tests that the loop ends once the check reports
// done.
func TestPoller_StopsOnDone(t *testing.T) {
	var checks atomic.Int32
	p := &tasks.Poller{Interval: 5 * time.Millisecond, Timeout: time.Second}
	err := p.Start(context.Background(), func(ctx context.Context) (bool, error) {
		return checks.Add(1) >= 3, nil
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.After(time.Second)
	for p.Running() {
		select {
		case <-deadline:
			t.Fatal("poller did not stop after done")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := checks.Load(); got != 3 {
		t.Errorf("check ran %d times, want 3", got)
	}
}

// TestPoller_StopCancels tests manual stop.
func TestPoller_StopCancels(t *testing.T) {
	var checks atomic.Int32
	p := &tasks.Poller{Interval: 5 * time.Millisecond, Timeout: time.Minute}
	if err := p.Start(context.Background(), func(ctx context.Context) (bool, error) {
		checks.Add(1)
		return false, nil
	}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	p.Stop()
	if p.Running() {
		t.Error("poller still running after Stop")
	}
	after := checks.Load()
	time.Sleep(30 * time.Millisecond)
	if checks.Load() != after {
		t.Error("check ran after Stop")
	}
}

// TestPoller_SingleTimerInvariant tests that a running poller rejects a
// second Start but can be restarted after stopping.
func TestPoller_SingleTimerInvariant(t *testing.T) {
	p := &tasks.Poller{Interval: 5 * time.Millisecond, Timeout: time.Minute}
	never := func(ctx context.Context) (bool, error) { return false, nil }

	if err := p.Start(context.Background(), never); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	if err := p.Start(context.Background(), never); err != tasks.ErrAlreadyRunning {
		t.Errorf("second Start() = %v, want ErrAlreadyRunning", err)
	}
	p.Stop()
	if err := p.Start(context.Background(), never); err != nil {
		t.Errorf("restart after Stop = %v", err)
	}
	p.Stop()
}

// TestPoller_TimesOut tests the hard polling cap.
func TestPoller_TimesOut(t *testing.T) {
	p := &tasks.Poller{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}
	if err := p.Start(context.Background(), func(ctx context.Context) (bool, error) {
		return false, nil
	}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.After(time.Second)
	for p.Running() {
		select {
		case <-deadline:
			t.Fatal("poller did not honor its timeout")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
