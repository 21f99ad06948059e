package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"academia/internal/domain/kiosk"
)

// KioskSessionStore defines the store interface needed by kiosk orchestrators.
type KioskSessionStore interface {
	GetByID(ctx context.Context, id string) (kiosk.Session, error)
	GetActive(ctx context.Context, deviceName string) (kiosk.Session, error)
	Save(ctx context.Context, s kiosk.Session) error
}

// LaunchKioskInput carries input for launching kiosk mode.
type LaunchKioskInput struct {
	DeviceName string
	ExitPIN    string
}

// LaunchKioskDeps holds dependencies for LaunchKiosk.
type LaunchKioskDeps struct {
	KioskStore KioskSessionStore
}

// ExecuteLaunchKiosk starts a kiosk session on a front-desk device.
// A session already active on the same device is reused rather than
// replaced, so a page reload never locks the device with a new PIN.
// PRE: DeviceName and ExitPIN are non-empty
// POST: Returns an active kiosk Session for the device
func ExecuteLaunchKiosk(ctx context.Context, input LaunchKioskInput, deps LaunchKioskDeps) (kiosk.Session, error) {
	if input.DeviceName == "" {
		return kiosk.Session{}, kiosk.ErrEmptyDeviceName
	}
	if input.ExitPIN == "" {
		return kiosk.Session{}, errors.New("exit PIN is required")
	}

	if existing, err := deps.KioskStore.GetActive(ctx, input.DeviceName); err == nil && existing.IsActive() {
		slog.Info("kiosk_event", "event", "kiosk_session_reused", "session_id", existing.ID, "device", input.DeviceName)
		return existing, nil
	}

	session, err := kiosk.NewSession(uuid.New().String(), input.DeviceName, input.ExitPIN)
	if err != nil {
		return kiosk.Session{}, err
	}
	if err := deps.KioskStore.Save(ctx, session); err != nil {
		return kiosk.Session{}, err
	}

	slog.Info("kiosk_event", "event", "kiosk_launched", "session_id", session.ID, "device", input.DeviceName)
	return session, nil
}

// ExitKioskInput carries input for exiting kiosk mode.
type ExitKioskInput struct {
	SessionID string
	PIN       string
}

// ExecuteExitKiosk verifies the exit PIN and ends the kiosk session.
// PRE: SessionID references an active session
// POST: session has EndedAt set, or the PIN was wrong
func ExecuteExitKiosk(ctx context.Context, input ExitKioskInput, deps LaunchKioskDeps) error {
	if input.SessionID == "" {
		return errors.New("session ID is required")
	}

	session, err := deps.KioskStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return errors.New("kiosk session not found")
	}
	if err := session.End(input.PIN); err != nil {
		return err
	}
	if err := deps.KioskStore.Save(ctx, session); err != nil {
		return err
	}

	slog.Info("kiosk_event", "event", "kiosk_exited", "session_id", session.ID, "device", session.DeviceName)
	return nil
}
