package kiosk

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Check-in window: a class accepts kiosk check-ins from 30 minutes before
// its start until 15 minutes after.
const (
	WindowBefore = 30 * time.Minute
	WindowAfter  = 15 * time.Minute
)

// Kiosk countdown timings.
const (
	AutoCheckInDelay   = 5 * time.Second  // auto-confirm after recognition
	ConfirmTimeout     = 30 * time.Second // confirmation screen gives up
	SuccessResetDelay  = 8 * time.Second  // success screen returns to idle
)

// Domain errors
var (
	ErrEmptyDeviceName = errors.New("kiosk must have a device name")
	ErrNotActive       = errors.New("kiosk session is not active")
	ErrWrongPIN        = errors.New("incorrect kiosk PIN")
)

// Availability classifies a class start time relative to now.
const (
	AvailableNow = "available_now"
	Upcoming     = "upcoming"
	Closed       = "closed"
)

// Session represents an active kiosk mode session on a front-desk device.
// Kiosk mode locks the screen to check-in only; exiting requires the PIN
// configured at launch.
type Session struct {
	ID         string
	DeviceName string
	PINHash    string
	StartedAt  time.Time
	EndedAt    time.Time
}

// NewSession starts a kiosk session with a bcrypt-hashed exit PIN.
// PRE: deviceName and pin are non-empty
// POST: Returns an active session, or an error
func NewSession(id, deviceName, pin string) (Session, error) {
	if deviceName == "" {
		return Session{}, ErrEmptyDeviceName
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}
	return Session{
		ID:         id,
		DeviceName: deviceName,
		PINHash:    string(hash),
		StartedAt:  time.Now(),
	}, nil
}

// IsActive returns true if the kiosk session is currently active.
// INVARIANT: Session fields are not mutated
func (s *Session) IsActive() bool {
	return s.EndedAt.IsZero()
}

// End terminates the kiosk session after verifying the exit PIN.
// PRE: Session is currently active
// POST: EndedAt is set to current time
func (s *Session) End(pin string) error {
	if !s.IsActive() {
		return ErrNotActive
	}
	if bcrypt.CompareHashAndPassword([]byte(s.PINHash), []byte(pin)) != nil {
		return ErrWrongPIN
	}
	s.EndedAt = time.Now()
	return nil
}

// ClassifyStart reports whether a class starting at start is open for
// check-in at now, still upcoming, or already closed.
func ClassifyStart(start, now time.Time) string {
	opens := start.Add(-WindowBefore)
	closes := start.Add(WindowAfter)
	switch {
	case now.Before(opens):
		return Upcoming
	case now.After(closes):
		return Closed
	default:
		return AvailableNow
	}
}
