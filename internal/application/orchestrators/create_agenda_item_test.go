package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"academia/internal/domain/agenda"
)

type mockAgendaStore struct {
	items    map[string]agenda.Item
	saveErr  error
	failWhen func(agenda.Item) bool
}

func newMockAgendaStore() *mockAgendaStore {
	return &mockAgendaStore{items: make(map[string]agenda.Item)}
}

func (m *mockAgendaStore) GetByID(_ context.Context, id string) (agenda.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return agenda.Item{}, errors.New("not found")
	}
	return item, nil
}

func (m *mockAgendaStore) Save(_ context.Context, item agenda.Item) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.failWhen != nil && m.failWhen(item) {
		return errors.New("simulated save failure")
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockAgendaStore) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return errors.New("not found")
	}
	delete(m.items, id)
	return nil
}

func TestExecuteCreateAgendaItem_SingleTurma(t *testing.T) {
	store := newMockAgendaStore()
	input := CreateAgendaItemInput{
		Type:        agenda.TypeTurma,
		Title:       "Jiu-Jitsu Fundamentals",
		Date:        "2025-03-10",
		StartTime:   "19:00",
		DurationMin: 90,
		MaxStudents: 20,
	}

	result, err := ExecuteCreateAgendaItem(context.Background(), input, CreateAgendaItemDeps{AgendaStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 1 || result.Failed != 0 {
		t.Fatalf("expected 1 created 0 failed, got %d/%d", result.Created, result.Failed)
	}
	if len(store.items) != 1 {
		t.Fatalf("expected 1 stored item, got %d", len(store.items))
	}
	for _, item := range store.items {
		if item.Status != agenda.StatusScheduled {
			t.Errorf("expected default status SCHEDULED, got %s", item.Status)
		}
		if got := item.EndTime.Sub(item.StartTime); got != 90*time.Minute {
			t.Errorf("expected 90m duration, got %v", got)
		}
	}
}

func TestExecuteCreateAgendaItem_RecurringPersonalBatch(t *testing.T) {
	store := newMockAgendaStore()
	input := CreateAgendaItemInput{
		Type:          agenda.TypePersonalSession,
		Title:         "Personal - João",
		StudentID:     "stu-1",
		Date:          "2025-01-06", // a Monday
		StartTime:     "09:30",
		DurationMin:   60,
		Recurring:     true,
		DaysOfWeek:    []int{1, 3, 5},
		EndRecurrence: "2025-01-20",
	}

	result, err := ExecuteCreateAgendaItem(context.Background(), input, CreateAgendaItemDeps{AgendaStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 7 {
		t.Fatalf("expected 7 sessions, got %d", result.Created)
	}
	if result.Failed != 0 {
		t.Fatalf("expected no failures, got %d", result.Failed)
	}
	for _, item := range result.Items {
		if item.IsRecurring {
			t.Error("expanded occurrences must not be flagged recurring")
		}
		if item.Type != agenda.TypePersonalSession {
			t.Errorf("unexpected type %s", item.Type)
		}
	}
}

func TestExecuteCreateAgendaItem_BatchCountsPartialFailures(t *testing.T) {
	store := newMockAgendaStore()
	// Fail every occurrence that lands on a Wednesday.
	store.failWhen = func(item agenda.Item) bool {
		return item.StartTime.Weekday() == time.Wednesday
	}
	input := CreateAgendaItemInput{
		Type:          agenda.TypePersonalSession,
		Title:         "Personal - Maria",
		StudentID:     "stu-2",
		Date:          "2025-01-06",
		StartTime:     "09:30",
		DurationMin:   60,
		Recurring:     true,
		DaysOfWeek:    []int{1, 3, 5},
		EndRecurrence: "2025-01-20",
	}

	result, err := ExecuteCreateAgendaItem(context.Background(), input, CreateAgendaItemDeps{AgendaStore: store})
	if err != nil {
		t.Fatalf("batch must not abort on individual failures: %v", err)
	}
	// 7 occurrences total, Wednesdays are Jan 8 and 15.
	if result.Created != 5 {
		t.Errorf("expected 5 created, got %d", result.Created)
	}
	if result.Failed != 2 {
		t.Errorf("expected 2 failed, got %d", result.Failed)
	}
	if len(store.items) != 5 {
		t.Errorf("expected 5 persisted items, got %d", len(store.items))
	}
}

func TestExecuteCreateAgendaItem_InvalidInput(t *testing.T) {
	store := newMockAgendaStore()
	tests := []struct {
		name  string
		input CreateAgendaItemInput
	}{
		{"bad date", CreateAgendaItemInput{Type: agenda.TypeTurma, Title: "X", Date: "not-a-date", StartTime: "19:00"}},
		{"empty title", CreateAgendaItemInput{Type: agenda.TypeTurma, Date: "2025-03-10", StartTime: "19:00"}},
		{"personal without student", CreateAgendaItemInput{Type: agenda.TypePersonalSession, Title: "X", Date: "2025-03-10", StartTime: "19:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExecuteCreateAgendaItem(context.Background(), tt.input, CreateAgendaItemDeps{AgendaStore: store}); err == nil {
				t.Error("expected error")
			}
		})
	}
	if len(store.items) != 0 {
		t.Errorf("nothing should be persisted, got %d items", len(store.items))
	}
}

func TestExecuteUpdateAgendaItem(t *testing.T) {
	store := newMockAgendaStore()
	start := time.Date(2025, 3, 10, 19, 0, 0, 0, time.Local)
	store.items["item-1"] = agenda.Item{
		ID: "item-1", Type: agenda.TypeTurma, Title: "Old",
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: agenda.StatusScheduled,
	}

	updated, err := ExecuteUpdateAgendaItem(context.Background(), UpdateAgendaItemInput{
		ID: "item-1", Title: "New", Status: agenda.StatusConfirmed,
	}, CreateAgendaItemDeps{AgendaStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "New" || updated.Status != agenda.StatusConfirmed {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.StartTime.Equal(start) {
		t.Error("start time must be preserved when no reschedule given")
	}

	if _, err := ExecuteUpdateAgendaItem(context.Background(), UpdateAgendaItemInput{ID: "missing"}, CreateAgendaItemDeps{AgendaStore: store}); err == nil {
		t.Error("expected error for unknown item")
	}
}

func TestExecuteDeleteAgendaItem(t *testing.T) {
	store := newMockAgendaStore()
	store.items["item-1"] = agenda.Item{ID: "item-1"}
	if err := ExecuteDeleteAgendaItem(context.Background(), "item-1", CreateAgendaItemDeps{AgendaStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.items) != 0 {
		t.Error("item not deleted")
	}
}
