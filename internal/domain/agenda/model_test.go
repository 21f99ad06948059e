package agenda_test

import (
	"testing"
	"time"

	"academia/internal/domain/agenda"
)

// TestStatusLabel_CoversEveryStatus tests that each status in the enum
// maps to a non-empty localized label.
func TestStatusLabel_CoversEveryStatus(t *testing.T) {
	for _, status := range agenda.Statuses {
		label := agenda.StatusLabel(status)
		if label == "" {
			t.Errorf("StatusLabel(%q) returned empty string", status)
		}
		if label == status {
			t.Errorf("StatusLabel(%q) returned the raw status, want a localized label", status)
		}
	}
}

// TestStatusLabel_UnknownPassesThrough tests the raw fallback for values
// the enum does not know.
func TestStatusLabel_UnknownPassesThrough(t *testing.T) {
	for _, raw := range []string{"ARCHIVED", "whatever", ""} {
		if got := agenda.StatusLabel(raw); got != raw {
			t.Errorf("StatusLabel(%q) = %q, want passthrough", raw, got)
		}
	}
}

func validItem() agenda.Item {
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.Local)
	return agenda.Item{
		ID:        "item-1",
		Type:      agenda.TypeTurma,
		Title:     "Jiu-Jitsu Adulto",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    agenda.StatusScheduled,
	}
}

// TestItem_Validate tests validation of agenda items.
func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*agenda.Item)
		wantErr error
	}{
		{"valid turma", func(i *agenda.Item) {}, nil},
		{"valid personal session", func(i *agenda.Item) {
			i.Type = agenda.TypePersonalSession
			i.StudentID = "stu-1"
		}, nil},
		{"empty title", func(i *agenda.Item) { i.Title = "  " }, agenda.ErrEmptyTitle},
		{"bad type", func(i *agenda.Item) { i.Type = "EVENT" }, agenda.ErrInvalidType},
		{"bad status", func(i *agenda.Item) { i.Status = "DONE" }, agenda.ErrInvalidStatus},
		{"missing start", func(i *agenda.Item) { i.StartTime = time.Time{} }, agenda.ErrMissingStart},
		{"missing end", func(i *agenda.Item) { i.EndTime = time.Time{} }, agenda.ErrMissingEnd},
		{"personal without student", func(i *agenda.Item) {
			i.Type = agenda.TypePersonalSession
		}, agenda.ErrMissingStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)
			if err := item.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestItem_Validate_DoesNotEnforceOrdering tests that end-before-start is
// accepted; the renderer clamps instead.
func TestItem_Validate_DoesNotEnforceOrdering(t *testing.T) {
	item := validItem()
	item.EndTime = item.StartTime.Add(-time.Hour)
	if err := item.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for mis-ordered times", err)
	}
}

// TestParseRule tests decoding of JSON recurrence rules.
func TestParseRule(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantDays []int
		wantErr  bool
	}{
		{"weekly", `{"type":"WEEKLY","daysOfWeek":[1,3,5],"endDate":"2025-01-20"}`, agenda.RecurrenceWeekly, []int{1, 3, 5}, false},
		{"monthly", `{"type":"MONTHLY","daysOfWeek":[6]}`, agenda.RecurrenceMonthly, []int{6}, false},
		{"unknown type defaults to weekly", `{"type":"DAILY","daysOfWeek":[2]}`, agenda.RecurrenceWeekly, []int{2}, false},
		{"empty string is no rule", "", "", nil, false},
		{"malformed json", `{"type":`, "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := agenda.ParseRule(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRule() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if r.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", r.Type, tt.wantType)
			}
			if len(r.DaysOfWeek) != len(tt.wantDays) {
				t.Fatalf("DaysOfWeek = %v, want %v", r.DaysOfWeek, tt.wantDays)
			}
			for i := range tt.wantDays {
				if r.DaysOfWeek[i] != tt.wantDays[i] {
					t.Errorf("DaysOfWeek = %v, want %v", r.DaysOfWeek, tt.wantDays)
				}
			}
		})
	}
}

// TestRule_EncodeRoundTrip tests that an encoded rule parses back.
func TestRule_EncodeRoundTrip(t *testing.T) {
	rule := agenda.Rule{Type: agenda.RecurrenceWeekly, DaysOfWeek: []int{1, 3}, EndDate: "2025-06-30"}
	raw, err := rule.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	back, err := agenda.ParseRule(raw)
	if err != nil {
		t.Fatalf("ParseRule() error = %v", err)
	}
	if back.Type != rule.Type || back.EndDate != rule.EndDate || len(back.DaysOfWeek) != 2 {
		t.Errorf("round trip = %+v, want %+v", back, rule)
	}
}
