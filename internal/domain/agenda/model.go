package agenda

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Item types
const (
	TypeTurma           = "TURMA"
	TypePersonalSession = "PERSONAL_SESSION"
)

// Item statuses
const (
	StatusScheduled  = "SCHEDULED"
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
	StatusPostponed  = "POSTPONED"
)

// Statuses contains every valid status value.
var Statuses = []string{
	StatusScheduled, StatusConfirmed, StatusInProgress,
	StatusCompleted, StatusCancelled, StatusPostponed,
}

// statusLabels maps statuses to the pt-BR labels shown to users.
var statusLabels = map[string]string{
	StatusScheduled:  "Agendado",
	StatusConfirmed:  "Confirmado",
	StatusInProgress: "Em Andamento",
	StatusCompleted:  "Concluído",
	StatusCancelled:  "Cancelado",
	StatusPostponed:  "Adiado",
}

// StatusLabel returns the localized label for a status. Unrecognized
// values pass through unchanged so an unexpected backend status still
// renders something.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// TypeIcon returns the display icon for an item type.
func TypeIcon(itemType string) string {
	if itemType == TypeTurma {
		return "🥋"
	}
	return "🧍"
}

// Domain errors
var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrInvalidType    = errors.New("type must be TURMA or PERSONAL_SESSION")
	ErrInvalidStatus  = errors.New("status is not a recognized value")
	ErrMissingStart   = errors.New("start time must be set")
	ErrMissingEnd     = errors.New("end time must be set")
	ErrMissingStudent = errors.New("personal sessions must reference a student")
)

// Ref is a named reference to another entity (instructor, unit, area).
type Ref struct {
	ID   string
	Name string
}

// Item is one scheduled entry on the hybrid agenda: either a collective
// class occurrence (TURMA) or a personal training session.
//
// EndTime >= StartTime holds for real data; a violated pair is rendered
// with a clamped minimum height rather than rejected, so Validate does
// not enforce ordering.
type Item struct {
	ID             string
	Type           string
	Title          string
	Description    string
	StartTime      time.Time
	EndTime        time.Time
	Status         string
	Instructor     Ref
	TrainingArea   Ref
	Unit           Ref
	StudentID      string // personal sessions only
	MaxStudents    int
	ActualStudents int
	IsRecurring    bool
	RecurrenceRule string // JSON-encoded Rule, empty when not recurring
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if i.Type != TypeTurma && i.Type != TypePersonalSession {
		return ErrInvalidType
	}
	if _, ok := statusLabels[i.Status]; !ok {
		return ErrInvalidStatus
	}
	if i.StartTime.IsZero() {
		return ErrMissingStart
	}
	if i.EndTime.IsZero() {
		return ErrMissingEnd
	}
	if i.Type == TypePersonalSession && i.StudentID == "" {
		return ErrMissingStudent
	}
	return nil
}

// Duration returns the scheduled length of the item. Malformed pairs
// yield a non-positive duration; the renderer clamps, not the model.
func (i *Item) Duration() time.Duration {
	return i.EndTime.Sub(i.StartTime)
}

// Recurrence types
const (
	RecurrenceWeekly  = "WEEKLY"
	RecurrenceMonthly = "MONTHLY"
)

// Rule describes how a recurring item repeats: which weekdays it falls
// on (0=Sunday..6=Saturday) and until when.
type Rule struct {
	Type       string `json:"type"`
	DaysOfWeek []int  `json:"daysOfWeek"`
	EndDate    string `json:"endDate,omitempty"` // YYYY-MM-DD, empty = open-ended
}

// ParseRule decodes a JSON-encoded recurrence rule. An empty string is
// not an error: it simply means the item does not recur.
func ParseRule(raw string) (Rule, error) {
	var r Rule
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r, nil
	}
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Rule{}, err
	}
	if r.Type != RecurrenceWeekly && r.Type != RecurrenceMonthly {
		r.Type = RecurrenceWeekly
	}
	return r, nil
}

// Encode serializes the rule back to its JSON wire form.
func (r Rule) Encode() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
