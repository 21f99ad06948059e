package attendance

import (
	"errors"
	"time"
)

// How the attendance was recorded.
const (
	MethodKiosk  = "kiosk"
	MethodManual = "manual"
)

// Attendance records a student's presence: either a kiosk check-in for a
// class happening now, or a manual per-lesson mark from the turma screen.
type Attendance struct {
	ID          string
	StudentID   string
	TurmaID     string
	LessonID    string // empty for kiosk check-ins not tied to a lesson
	CheckInTime time.Time
	Method      string
	Present     bool
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: StudentID must not be empty, CheckInTime must be set
func (a *Attendance) Validate() error {
	if a.StudentID == "" {
		return errors.New("attendance must be associated with a student")
	}
	if a.TurmaID == "" && a.LessonID == "" {
		return errors.New("attendance must reference a turma or a lesson")
	}
	if a.CheckInTime.IsZero() {
		return errors.New("check-in time must be set")
	}
	if a.Method != MethodKiosk && a.Method != MethodManual {
		return errors.New("method must be 'kiosk' or 'manual'")
	}
	return nil
}
