package orchestrators

import (
	"context"
	"errors"
	"testing"

	"academia/internal/domain/kiosk"
)

type mockKioskStore struct {
	sessions map[string]kiosk.Session
}

func newMockKioskStore() *mockKioskStore {
	return &mockKioskStore{sessions: make(map[string]kiosk.Session)}
}

func (m *mockKioskStore) GetByID(_ context.Context, id string) (kiosk.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return kiosk.Session{}, errors.New("not found")
	}
	return s, nil
}

func (m *mockKioskStore) GetActive(_ context.Context, deviceName string) (kiosk.Session, error) {
	for _, s := range m.sessions {
		if s.DeviceName == deviceName && s.IsActive() {
			return s, nil
		}
	}
	return kiosk.Session{}, errors.New("not found")
}

func (m *mockKioskStore) Save(_ context.Context, s kiosk.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func TestExecuteLaunchKiosk_ReusesActiveSession(t *testing.T) {
	store := newMockKioskStore()
	deps := LaunchKioskDeps{KioskStore: store}

	first, err := ExecuteLaunchKiosk(context.Background(), LaunchKioskInput{DeviceName: "recepcao", ExitPIN: "4321"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ExecuteLaunchKiosk(context.Background(), LaunchKioskInput{DeviceName: "recepcao", ExitPIN: "9999"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Error("relaunching on the same device must reuse the active session")
	}
	if len(store.sessions) != 1 {
		t.Errorf("expected 1 stored session, got %d", len(store.sessions))
	}
}

func TestExecuteExitKiosk(t *testing.T) {
	store := newMockKioskStore()
	deps := LaunchKioskDeps{KioskStore: store}

	session, err := ExecuteLaunchKiosk(context.Background(), LaunchKioskInput{DeviceName: "recepcao", ExitPIN: "4321"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ExecuteExitKiosk(context.Background(), ExitKioskInput{SessionID: session.ID, PIN: "0000"}, deps); !errors.Is(err, kiosk.ErrWrongPIN) {
		t.Errorf("expected ErrWrongPIN, got %v", err)
	}
	stored := store.sessions[session.ID]
	if !stored.IsActive() {
		t.Error("session must stay active after a wrong PIN")
	}

	if err := ExecuteExitKiosk(context.Background(), ExitKioskInput{SessionID: session.ID, PIN: "4321"}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored = store.sessions[session.ID]
	if stored.IsActive() {
		t.Error("session must be ended after the correct PIN")
	}

	// A launch after exit creates a fresh session.
	fresh, err := ExecuteLaunchKiosk(context.Background(), LaunchKioskInput{DeviceName: "recepcao", ExitPIN: "1111"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.ID == session.ID {
		t.Error("ended session must not be reused")
	}
}
