package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"academia/internal/application/tasks"
	"academia/internal/domain/kiosk"
)

// ErrConfirmationExpired is returned when a confirmation id is unknown:
// the screen gave up, the check-in was cancelled, or it was already
// committed.
var ErrConfirmationExpired = errors.New("check-in confirmation expired")

// pendingCheckIn is a check-in parked on the kiosk confirmation screen.
// The countdown discards it when the screen gives up.
type pendingCheckIn struct {
	input     CheckInStudentInput
	countdown *tasks.Countdown
}

// CheckInConfirmer tracks check-ins between the confirmation screen
// opening and the student confirming. Each pending check-in carries a
// give-up countdown; confirming or cancelling clears the timer, so an
// expired screen can never commit behind the student's back.
type CheckInConfirmer struct {
	// Timeout overrides the confirmation screen give-up delay.
	// Zero means kiosk.ConfirmTimeout.
	Timeout time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCheckIn
}

// NewCheckInConfirmer creates a confirmer with the default timeout.
func NewCheckInConfirmer() *CheckInConfirmer {
	return &CheckInConfirmer{pending: make(map[string]*pendingCheckIn)}
}

// Begin parks a check-in for confirmation and returns its id. The
// check-in is discarded if Confirm is not called within the timeout.
// PRE: input.StudentID was selected from the name-search shortlist
// POST: exactly one countdown is armed for the returned id
func (c *CheckInConfirmer) Begin(input CheckInStudentInput) (string, error) {
	if input.StudentID == "" {
		return "", ErrStudentNotSelected
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = kiosk.ConfirmTimeout
	}

	id := uuid.New().String()
	p := &pendingCheckIn{input: input}
	p.countdown = tasks.StartCountdown(timeout, func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		slog.Info("kiosk_event", "event", "checkin_confirmation_expired",
			"confirmation_id", id, "student_id", input.StudentID)
	})

	c.mu.Lock()
	if c.pending == nil {
		c.pending = make(map[string]*pendingCheckIn)
	}
	c.pending[id] = p
	c.mu.Unlock()

	slog.Info("kiosk_event", "event", "checkin_confirmation_started",
		"confirmation_id", id, "student_id", input.StudentID)
	return id, nil
}

// Confirm commits the pending check-in. The give-up countdown is
// cancelled before the attendance record is written.
// POST: the countdown callback will not fire for this id
func (c *CheckInConfirmer) Confirm(ctx context.Context, id string, deps CheckInStudentDeps) error {
	p := c.take(id)
	if p == nil {
		return ErrConfirmationExpired
	}
	p.countdown.Cancel()
	return ExecuteCheckInStudent(ctx, p.input, deps)
}

// Cancel discards a pending check-in without committing it.
func (c *CheckInConfirmer) Cancel(id string) {
	if p := c.take(id); p != nil {
		p.countdown.Cancel()
		slog.Info("kiosk_event", "event", "checkin_confirmation_cancelled", "confirmation_id", id)
	}
}

// Pending reports how many check-ins await confirmation.
func (c *CheckInConfirmer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *CheckInConfirmer) take(id string) *pendingCheckIn {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	return p
}
