package calendar

import "time"

// Default visible hour window when a day or week has no events.
const (
	DefaultMinHour = 6
	DefaultMaxHour = 22
)

// MinBlockHeight is the minimum rendered height in pixels for an event
// block. Zero or negative durations still produce a visible block.
const MinBlockHeight = 20

// Span is a start/end instant pair, the minimal shape the layout math needs.
type Span struct {
	Start time.Time
	End   time.Time
}

// HourWindow is the vertical hour range of a timeline grid.
type HourWindow struct {
	MinHour int
	MaxHour int
}

// HoursVisible returns the number of hour rows the grid spans, at least 1.
func (w HourWindow) HoursVisible() int {
	if h := w.MaxHour - w.MinHour; h > 1 {
		return h
	}
	return 1
}

// FitHourWindow widens the default 06–22 window to contain every span's
// start and end hours, clamped to [0, 23]. An end with minutes past the
// hour counts as reaching into the next hour.
func FitHourWindow(spans []Span) HourWindow {
	w := HourWindow{MinHour: DefaultMinHour, MaxHour: DefaultMaxHour}
	for _, s := range spans {
		startHour := s.Start.Hour()
		endHour := s.End.Hour()
		if s.End.Minute() > 0 {
			endHour++
		}
		if startHour < w.MinHour {
			w.MinHour = startHour
		}
		if endHour > w.MaxHour {
			w.MaxHour = endHour
		}
	}
	if w.MinHour < 0 {
		w.MinHour = 0
	}
	if w.MaxHour > 23 {
		w.MaxHour = 23
	}
	return w
}

// Block is the pixel placement of an event on a timeline grid, at one
// pixel per minute.
type Block struct {
	Top    int
	Height int
}

// Layout positions a span inside the window: top is minutes from the top
// of the grid, height is the duration clamped to MinBlockHeight so that
// malformed spans (end before start) still render visibly.
func (w HourWindow) Layout(s Span) Block {
	top := (s.Start.Hour()-w.MinHour)*60 + s.Start.Minute()
	height := int(s.End.Sub(s.Start).Minutes())
	if height < MinBlockHeight {
		height = MinBlockHeight
	}
	return Block{Top: top, Height: height}
}

// WeekDays returns the seven days of the week containing d, Monday first,
// each at midnight.
func WeekDays(d time.Time) []time.Time {
	start := WeekStart(d)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
