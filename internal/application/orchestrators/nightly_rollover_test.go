package orchestrators

import (
	"context"
	"testing"
	"time"

	"academia/internal/domain/agenda"
	"academia/internal/domain/subscription"
	"academia/internal/domain/turma"
)

type mockRolloverTurmaStore struct {
	turmas  map[string]turma.Turma
	lessons map[string][]turma.Lesson
}

func (m *mockRolloverTurmaStore) ListByStatus(_ context.Context, statuses []string) ([]turma.Turma, error) {
	var out []turma.Turma
	for _, t := range m.turmas {
		for _, s := range statuses {
			if t.Status == s {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (m *mockRolloverTurmaStore) Save(_ context.Context, t turma.Turma) error {
	m.turmas[t.ID] = t
	return nil
}

func (m *mockRolloverTurmaStore) ListLessons(_ context.Context, turmaID string) ([]turma.Lesson, error) {
	return m.lessons[turmaID], nil
}

func TestExecuteNightlyRollover(t *testing.T) {
	now := time.Date(2025, 3, 10, 2, 0, 0, 0, time.Local)

	turmas := &mockRolloverTurmaStore{
		turmas: map[string]turma.Turma{
			// Ended, all lessons settled: must complete.
			"done": {ID: "done", Status: agenda.StatusInProgress, EndDate: now.AddDate(0, 0, -5)},
			// Ended but a lesson was postponed past the end date: keep open.
			"open": {ID: "open", Status: agenda.StatusInProgress, EndDate: now.AddDate(0, 0, -5)},
			// Still running: untouched.
			"running": {ID: "running", Status: agenda.StatusInProgress, EndDate: now.AddDate(0, 0, 30)},
		},
		lessons: map[string][]turma.Lesson{
			"done": {
				{ID: "l1", TurmaID: "done", Status: agenda.StatusCompleted, ScheduledDate: now.AddDate(0, 0, -10)},
			},
			"open": {
				{ID: "l2", TurmaID: "open", Status: agenda.StatusPostponed, ScheduledDate: now.AddDate(0, 0, 2)},
			},
		},
	}

	payments := newMockSubscriptionStore()
	payments.payments["old"] = subscription.Payment{
		ID: "old", SubscriptionID: "sub-1", Status: subscription.PaymentPending,
		CreatedAt: now.Add(-4 * 24 * time.Hour),
	}
	payments.payments["fresh"] = subscription.Payment{
		ID: "fresh", SubscriptionID: "sub-1", Status: subscription.PaymentPending,
		CreatedAt: now.Add(-time.Hour),
	}

	result, err := ExecuteNightlyRollover(context.Background(), NightlyRolloverDeps{
		TurmaStore:   turmas,
		PaymentStore: payments,
		Now:          func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TurmasCompleted != 1 {
		t.Errorf("expected 1 turma completed, got %d", result.TurmasCompleted)
	}
	if turmas.turmas["done"].Status != agenda.StatusCompleted {
		t.Error("ended turma not completed")
	}
	if turmas.turmas["open"].Status != agenda.StatusInProgress {
		t.Error("turma with a future postponed lesson must stay open")
	}
	if turmas.turmas["running"].Status != agenda.StatusInProgress {
		t.Error("running turma must be untouched")
	}

	if result.PaymentsOverdue != 1 {
		t.Errorf("expected 1 payment overdue, got %d", result.PaymentsOverdue)
	}
	if payments.payments["old"].Status != subscription.PaymentOverdue {
		t.Error("stale payment not flagged overdue")
	}
	if payments.payments["fresh"].Status != subscription.PaymentPending {
		t.Error("fresh payment must stay pending")
	}
}
