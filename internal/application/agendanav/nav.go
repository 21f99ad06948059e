// Package agendanav holds the agenda's navigation state machine: which
// view is shown, which date anchors it, and the window each view spans.
package agendanav

import (
	"time"

	"academia/internal/application/agendarender"
	"academia/internal/domain/calendar"
)

// Navigation actions
const (
	ActionPrev   = "prev"
	ActionNext   = "next"
	ActionToday  = "today"
	ActionSelect = "select"
)

// State is the agenda's navigation state: which view is shown and which
// date anchors it.
type State struct {
	View    string
	Current time.Time
}

// NewState returns the default state: week view anchored on now.
func NewState(now time.Time) State {
	return State{View: agendarender.ViewWeek, Current: calendar.SafeDate(now)}
}

// Transition applies a navigation action and returns the new state.
// Prev/next shift by one day, seven days, or one calendar month
// depending on the view (list behaves like week). Selecting a date from
// the month view drills down into the day view.
func (s State) Transition(action string, selected, now time.Time) State {
	s.Current = calendar.SafeDate(s.Current)
	switch action {
	case ActionToday:
		s.Current = calendar.SafeDate(now)
	case ActionSelect:
		if !selected.IsZero() {
			s.Current = selected
			if s.View == agendarender.ViewMonth {
				s.View = agendarender.ViewDay
			}
		}
	case ActionPrev:
		s.Current = s.shift(-1)
	case ActionNext:
		s.Current = s.shift(1)
	}
	return s
}

// WithView switches the view mode, keeping the anchor date.
func (s State) WithView(view string) State {
	if agendarender.ValidView(view) {
		s.View = view
	}
	return s
}

func (s State) shift(direction int) time.Time {
	switch s.View {
	case agendarender.ViewDay:
		return s.Current.AddDate(0, 0, direction)
	case agendarender.ViewMonth:
		return s.Current.AddDate(0, direction, 0)
	default: // week and list move by whole weeks
		return s.Current.AddDate(0, 0, 7*direction)
	}
}

// Window returns the inclusive load window for the current state: the
// anchored day, the ISO week, or the full month grid.
func (s State) Window() (time.Time, time.Time) {
	current := calendar.SafeDate(s.Current)
	switch s.View {
	case agendarender.ViewDay:
		start := calendar.DayStart(current)
		return start, start.Add(24*time.Hour - time.Millisecond)
	case agendarender.ViewMonth:
		return calendar.MonthGridRange(current)
	default:
		return calendar.WeekStart(current), calendar.WeekEnd(current)
	}
}

