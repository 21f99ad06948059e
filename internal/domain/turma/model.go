package turma

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"academia/internal/domain/agenda"
)

// Turma statuses reuse the agenda status vocabulary (SCHEDULED,
// IN_PROGRESS, COMPLETED, CANCELLED); lessons additionally use
// CONFIRMED/POSTPONED.

// Class types
const (
	ClassRegular   = "REGULAR"
	ClassWorkshop  = "WORKSHOP"
	ClassIntensive = "INTENSIVE"
)

// Domain errors
var (
	ErrEmptyName        = errors.New("turma name cannot be empty")
	ErrEmptyCourse      = errors.New("turma must reference a course")
	ErrEmptyInstructor  = errors.New("turma must reference an instructor")
	ErrNoScheduleDays   = errors.New("schedule must include at least one weekday")
	ErrBadScheduleTime  = errors.New("schedule time must be HH:MM")
	ErrBadDuration      = errors.New("schedule duration must be positive")
	ErrDatesOutOfOrder  = errors.New("end date cannot be before start date")
	ErrAlreadyEnrolled  = errors.New("student already enrolled in this turma")
	ErrCapacityExceeded = errors.New("turma is at maximum capacity")
)

// WeeklySchedule describes when a turma meets: weekday indices
// (0=Sunday..6=Saturday), a start time of day, and a duration in minutes.
type WeeklySchedule struct {
	DaysOfWeek []int  `json:"daysOfWeek"`
	Time       string `json:"time"` // HH:MM
	Duration   int    `json:"duration"`
}

// Turma is a class cohort: a course taught by an instructor on a weekly
// schedule between two dates, with a roster and generated lessons.
type Turma struct {
	ID             string
	Name           string
	CourseID       string
	InstructorID   string
	OrganizationID string
	UnitID         string
	ClassType      string
	Status         string
	MaxStudents    int
	Schedule       WeeklySchedule
	StartDate      time.Time
	EndDate        time.Time
}

// Validate checks if the Turma has valid data.
// PRE: Turma struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Turma) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.CourseID == "" {
		return ErrEmptyCourse
	}
	if t.InstructorID == "" {
		return ErrEmptyInstructor
	}
	if len(t.Schedule.DaysOfWeek) == 0 {
		return ErrNoScheduleDays
	}
	if _, err := time.Parse("15:04", t.Schedule.Time); err != nil {
		return ErrBadScheduleTime
	}
	if t.Schedule.Duration <= 0 {
		return ErrBadDuration
	}
	if !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
		return ErrDatesOutOfOrder
	}
	return nil
}

// Lesson is one generated occurrence of a turma.
type Lesson struct {
	ID            string
	TurmaID       string
	LessonNumber  int
	ScheduledDate time.Time
	Status        string
	LessonPlan    string // markdown
}

// GenerateLessons expands the turma's weekly schedule into numbered
// lessons between its start and end dates, using the same weekday
// enumeration and safety cap as agenda recurrence expansion.
// PRE: Turma has been validated
// POST: Returns lessons ordered by date, numbered from 1
func (t *Turma) GenerateLessons(newID func() string) ([]Lesson, error) {
	tod, err := time.Parse("15:04", t.Schedule.Time)
	if err != nil {
		return nil, ErrBadScheduleTime
	}
	start := time.Date(t.StartDate.Year(), t.StartDate.Month(), t.StartDate.Day(),
		tod.Hour(), tod.Minute(), 0, 0, t.StartDate.Location())

	rule := agenda.Rule{
		Type:       agenda.RecurrenceWeekly,
		DaysOfWeek: t.Schedule.DaysOfWeek,
	}
	if !t.EndDate.IsZero() {
		rule.EndDate = t.EndDate.Format("2006-01-02")
	}

	occs, err := agenda.ExpandRule(start, time.Duration(t.Schedule.Duration)*time.Minute, rule)
	if err != nil {
		return nil, fmt.Errorf("generating lessons for turma %s: %w", t.ID, err)
	}

	lessons := make([]Lesson, 0, len(occs))
	for i, occ := range occs {
		lessons = append(lessons, Lesson{
			ID:            newID(),
			TurmaID:       t.ID,
			LessonNumber:  i + 1,
			ScheduledDate: occ.Start,
			Status:        agenda.StatusScheduled,
		})
	}
	return lessons, nil
}

// Progress summarizes lesson completion for a turma.
type Progress struct {
	TotalLessons     int
	CompletedLessons int
	Percent          int
}

// ComputeProgress aggregates lesson statuses into a completion fraction.
// Cancelled lessons are excluded from the total.
func ComputeProgress(lessons []Lesson) Progress {
	var p Progress
	for _, l := range lessons {
		if l.Status == agenda.StatusCancelled {
			continue
		}
		p.TotalLessons++
		if l.Status == agenda.StatusCompleted {
			p.CompletedLessons++
		}
	}
	if p.TotalLessons > 0 {
		p.Percent = p.CompletedLessons * 100 / p.TotalLessons
	}
	return p
}

// NextLesson returns the earliest lesson scheduled at or after now that
// is not completed or cancelled, or nil when none remains.
func NextLesson(lessons []Lesson, now time.Time) *Lesson {
	var next *Lesson
	for i := range lessons {
		l := &lessons[i]
		if l.Status == agenda.StatusCompleted || l.Status == agenda.StatusCancelled {
			continue
		}
		if l.ScheduledDate.Before(now) {
			continue
		}
		if next == nil || l.ScheduledDate.Before(next.ScheduledDate) {
			next = l
		}
	}
	return next
}

// Enrollment links a student to a turma.
type Enrollment struct {
	ID         string
	TurmaID    string
	StudentID  string
	EnrolledAt time.Time
}
