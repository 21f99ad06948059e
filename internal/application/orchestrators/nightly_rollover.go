package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"academia/internal/domain/agenda"
	"academia/internal/domain/subscription"
	"academia/internal/domain/turma"
)

// Payments left pending this long are flagged overdue by the nightly job.
const OverdueAfter = 3 * 24 * time.Hour

// RolloverTurmaStore lists and updates turmas for the nightly rollover.
type RolloverTurmaStore interface {
	ListByStatus(ctx context.Context, statuses []string) ([]turma.Turma, error)
	Save(ctx context.Context, t turma.Turma) error
	ListLessons(ctx context.Context, turmaID string) ([]turma.Lesson, error)
}

// RolloverPaymentStore lists and updates payments for the nightly rollover.
type RolloverPaymentStore interface {
	ListPaymentsByStatus(ctx context.Context, status string) ([]subscription.Payment, error)
	SavePayment(ctx context.Context, p subscription.Payment) error
}

// NightlyRolloverDeps holds dependencies for the nightly rollover job.
type NightlyRolloverDeps struct {
	TurmaStore   RolloverTurmaStore
	PaymentStore RolloverPaymentStore
	Now          func() time.Time // nil means time.Now
}

// RolloverResult summarizes what the job changed.
type RolloverResult struct {
	TurmasCompleted int
	PaymentsOverdue int
}

// ExecuteNightlyRollover advances stateful rows that depend on the
// calendar rather than on user action: turmas past their end date with
// no remaining lessons become COMPLETED, and payments pending longer
// than OverdueAfter become OVERDUE. Individual failures are logged and
// skipped so one bad row never blocks the sweep.
// POST: every eligible row was attempted exactly once
func ExecuteNightlyRollover(ctx context.Context, deps NightlyRolloverDeps) (RolloverResult, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	var result RolloverResult

	turmas, err := deps.TurmaStore.ListByStatus(ctx, []string{agenda.StatusScheduled, agenda.StatusInProgress})
	if err != nil {
		return result, err
	}
	for _, t := range turmas {
		if t.EndDate.IsZero() || !t.EndDate.Before(now) {
			continue
		}
		lessons, err := deps.TurmaStore.ListLessons(ctx, t.ID)
		if err != nil {
			slog.Warn("rollover_event", "event", "lesson_list_failed", "turma_id", t.ID, "error", err.Error())
			continue
		}
		if turma.NextLesson(lessons, now) != nil {
			continue
		}
		t.Status = agenda.StatusCompleted
		if err := deps.TurmaStore.Save(ctx, t); err != nil {
			slog.Warn("rollover_event", "event", "turma_complete_failed", "turma_id", t.ID, "error", err.Error())
			continue
		}
		result.TurmasCompleted++
	}

	pending, err := deps.PaymentStore.ListPaymentsByStatus(ctx, subscription.PaymentPending)
	if err != nil {
		return result, err
	}
	for _, p := range pending {
		if now.Sub(p.CreatedAt) < OverdueAfter {
			continue
		}
		p.Status = subscription.PaymentOverdue
		if err := deps.PaymentStore.SavePayment(ctx, p); err != nil {
			slog.Warn("rollover_event", "event", "payment_overdue_failed", "payment_id", p.ID, "error", err.Error())
			continue
		}
		result.PaymentsOverdue++
	}

	slog.Info("rollover_event", "event", "nightly_rollover_done", "turmas_completed", result.TurmasCompleted, "payments_overdue", result.PaymentsOverdue)
	return result, nil
}
