package agendanav_test

import (
	"testing"
	"time"

	"academia/internal/application/agendanav"
	"academia/internal/application/agendarender"
	"academia/internal/domain/calendar"
)

var now = time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local)

// TestTransition_ShiftsByView tests prev/next step sizes per view.
func TestTransition_ShiftsByView(t *testing.T) {
	anchor := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	tests := []struct {
		name   string
		view   string
		action string
		want   time.Time
	}{
		{"day prev", agendarender.ViewDay, agendanav.ActionPrev, anchor.AddDate(0, 0, -1)},
		{"day next", agendarender.ViewDay, agendanav.ActionNext, anchor.AddDate(0, 0, 1)},
		{"week prev", agendarender.ViewWeek, agendanav.ActionPrev, anchor.AddDate(0, 0, -7)},
		{"week next", agendarender.ViewWeek, agendanav.ActionNext, anchor.AddDate(0, 0, 7)},
		{"month prev", agendarender.ViewMonth, agendanav.ActionPrev, anchor.AddDate(0, -1, 0)},
		{"month next", agendarender.ViewMonth, agendanav.ActionNext, anchor.AddDate(0, 1, 0)},
		{"list next moves a week", agendarender.ViewList, agendanav.ActionNext, anchor.AddDate(0, 0, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := agendanav.State{View: tt.view, Current: anchor}
			got := s.Transition(tt.action, time.Time{}, now)
			if !got.Current.Equal(tt.want) {
				t.Errorf("Transition(%s) date = %v, want %v", tt.action, got.Current, tt.want)
			}
			if got.View != tt.view {
				t.Errorf("Transition(%s) changed view to %q", tt.action, got.View)
			}
		})
	}
}

// TestTransition_TodayResets tests the today action.
func TestTransition_TodayResets(t *testing.T) {
	s := agendanav.State{View: agendarender.ViewWeek, Current: now.AddDate(0, -2, 0)}
	got := s.Transition(agendanav.ActionToday, time.Time{}, now)
	if !got.Current.Equal(now) {
		t.Errorf("today = %v, want %v", got.Current, now)
	}
}

// TestTransition_SelectFromMonthDrillsToDay tests the month→day
// auto-transition on direct date selection.
func TestTransition_SelectFromMonthDrillsToDay(t *testing.T) {
	selected := time.Date(2025, 3, 20, 0, 0, 0, 0, time.Local)

	s := agendanav.State{View: agendarender.ViewMonth, Current: now}
	got := s.Transition(agendanav.ActionSelect, selected, now)
	if got.View != agendarender.ViewDay {
		t.Errorf("select from month view = %q, want day", got.View)
	}
	if !got.Current.Equal(selected) {
		t.Errorf("select date = %v, want %v", got.Current, selected)
	}

	s = agendanav.State{View: agendarender.ViewWeek, Current: now}
	if got := s.Transition(agendanav.ActionSelect, selected, now); got.View != agendarender.ViewWeek {
		t.Errorf("select from week view switched to %q", got.View)
	}
}

// TestTransition_ZeroDateResets tests the defensive reset of an invalid
// current date.
func TestTransition_ZeroDateResets(t *testing.T) {
	s := agendanav.State{View: agendarender.ViewDay}
	got := s.Transition(agendanav.ActionNext, time.Time{}, now)
	if got.Current.IsZero() {
		t.Error("zero current date was not reset before arithmetic")
	}
}

// TestWindow tests per-view load windows.
func TestWindow(t *testing.T) {
	anchor := time.Date(2025, 3, 12, 15, 30, 0, 0, time.Local)

	s := agendanav.State{View: agendarender.ViewDay, Current: anchor}
	start, end := s.Window()
	if start.Hour() != 0 || !calendar.SameDay(start, anchor) || !calendar.SameDay(end, anchor) {
		t.Errorf("day window = [%v, %v]", start, end)
	}

	s.View = agendarender.ViewWeek
	start, end = s.Window()
	if !start.Equal(calendar.WeekStart(anchor)) || !end.Equal(calendar.WeekEnd(anchor)) {
		t.Errorf("week window = [%v, %v]", start, end)
	}

	s.View = agendarender.ViewMonth
	start, end = s.Window()
	wantStart, wantEnd := calendar.MonthGridRange(anchor)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Errorf("month window = [%v, %v]", start, end)
	}
}

