package agenda

import (
	"time"

	"github.com/teambition/rrule-go"
)

// MaxOccurrences is the hard safety cap on expanded occurrences, bounding
// worst-case request volume for bulk creation.
const MaxOccurrences = 52

// DefaultRecurrenceSpan is how far expansion runs when the rule has no
// end date.
const DefaultRecurrenceSpan = 30 * 24 * time.Hour

// weekdayTable maps 0=Sunday..6=Saturday onto rrule weekdays.
var weekdayTable = []rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// Occurrence is one concrete expanded instance of a recurring session.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ExpandRule enumerates the concrete occurrences of a recurring session:
// every day between start and the rule's end date (inclusive) whose
// weekday is in the rule's set, each keeping start's time-of-day and the
// given duration. Without an end date the range defaults to 30 days.
// At most MaxOccurrences instances are emitted.
//
// Both WEEKLY and MONTHLY rules expand by weekday set; the type only
// distinguishes how the rule is described, not how personal-session bulk
// creation enumerates days.
func ExpandRule(start time.Time, duration time.Duration, rule Rule) ([]Occurrence, error) {
	days := rule.DaysOfWeek
	if len(days) == 0 {
		// Sensible default: the weekday of the start date itself.
		days = []int{int(start.Weekday())}
	}

	byweekday := make([]rrule.Weekday, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			continue
		}
		byweekday = append(byweekday, weekdayTable[d])
	}
	if len(byweekday) == 0 {
		byweekday = append(byweekday, weekdayTable[int(start.Weekday())])
	}

	until := start.Add(DefaultRecurrenceSpan)
	if rule.EndDate != "" {
		end, err := time.ParseInLocation("2006-01-02", rule.EndDate, start.Location())
		if err != nil {
			return nil, err
		}
		// Inclusive: an occurrence on the end date itself still counts.
		until = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, start.Location())
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: byweekday,
		Dtstart:   start,
		Until:     until,
	})
	if err != nil {
		return nil, err
	}

	var out []Occurrence
	it := r.Iterator()
	for {
		t, ok := it()
		if !ok || len(out) >= MaxOccurrences {
			break
		}
		out = append(out, Occurrence{Start: t, End: t.Add(duration)})
	}
	return out, nil
}
