package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"academia/internal/domain/attendance"
	"academia/internal/domain/kiosk"
	"academia/internal/domain/student"
	"academia/internal/domain/turma"
)

// AttendanceStore defines the interface for attendance persistence.
type AttendanceStore interface {
	Save(ctx context.Context, a attendance.Attendance) error
}

// CheckInSearchStore defines the student store interface needed for name search.
type CheckInSearchStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	SearchByName(ctx context.Context, query string, limit int) ([]student.Student, error)
}

// LessonLookupStore defines the turma store interface needed to resolve
// the lesson a kiosk check-in targets.
type LessonLookupStore interface {
	GetLessonByID(ctx context.Context, id string) (turma.Lesson, error)
}

// SearchStudentsInput carries input for name-based student search.
type SearchStudentsInput struct {
	Query string
	Limit int
}

// SearchStudentsResult carries the shortlist of matching students.
type SearchStudentsResult struct {
	Students []student.Student
}

// SearchStudentsDeps holds dependencies for SearchStudents.
type SearchStudentsDeps struct {
	StudentStore CheckInSearchStore
}

// ExecuteSearchStudents performs a fuzzy name search and returns a shortlist
// of matching active students for the kiosk autocomplete.
// PRE: Query must be non-empty
// POST: Returns up to Limit matching active students
func ExecuteSearchStudents(ctx context.Context, input SearchStudentsInput, deps SearchStudentsDeps) (SearchStudentsResult, error) {
	if input.Query == "" {
		return SearchStudentsResult{Students: []student.Student{}}, nil
	}
	if input.Limit <= 0 {
		input.Limit = 10
	}

	students, err := deps.StudentStore.SearchByName(ctx, input.Query, input.Limit)
	if err != nil {
		return SearchStudentsResult{}, err
	}
	if students == nil {
		students = []student.Student{}
	}

	return SearchStudentsResult{Students: students}, nil
}

// Check-in errors surfaced to the kiosk screen.
var (
	ErrStudentNotSelected = errors.New("student must be selected from the search results")
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentArchived    = errors.New("archived students cannot check in")
	ErrWindowClosed       = errors.New("check-in window for this class is closed")
	ErrWindowNotOpen      = errors.New("check-in for this class has not opened yet")
)

// CheckInStudentInput carries input for the check-in orchestrator.
// StudentID is obtained by the caller after the user selects from the
// name-search shortlist, never typed directly.
type CheckInStudentInput struct {
	StudentID string
	TurmaID   string // optional: which turma they're checking into
	LessonID  string // optional: specific lesson occurrence
	Method    string // kiosk or manual; defaults to kiosk
}

// CheckInStudentDeps holds dependencies for CheckInStudent.
type CheckInStudentDeps struct {
	StudentStore    CheckInSearchStore
	AttendanceStore AttendanceStore
	TurmaStore      LessonLookupStore // optional: used to enforce the check-in window
	Now             func() time.Time  // nil means time.Now
}

// ExecuteCheckInStudent coordinates a student check-in. When the input
// names a lesson and a turma store is wired, the kiosk window (30
// minutes before start to 15 after) is enforced; manual check-ins from
// the turma screen skip the window.
// PRE: StudentID is a valid student selected from the name-search shortlist
// POST: Attendance record created with CheckInTime=now
func ExecuteCheckInStudent(ctx context.Context, input CheckInStudentInput, deps CheckInStudentDeps) error {
	if input.StudentID == "" {
		return ErrStudentNotSelected
	}
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	method := input.Method
	if method == "" {
		method = attendance.MethodKiosk
	}

	s, err := deps.StudentStore.GetByID(ctx, input.StudentID)
	if err != nil {
		return ErrStudentNotFound
	}
	if s.IsArchived() {
		return ErrStudentArchived
	}

	if method == attendance.MethodKiosk && input.LessonID != "" && deps.TurmaStore != nil {
		lesson, err := deps.TurmaStore.GetLessonByID(ctx, input.LessonID)
		if err != nil {
			return err
		}
		switch kiosk.ClassifyStart(lesson.ScheduledDate, now) {
		case kiosk.Upcoming:
			return ErrWindowNotOpen
		case kiosk.Closed:
			return ErrWindowClosed
		}
		if input.TurmaID == "" {
			input.TurmaID = lesson.TurmaID
		}
	}

	a := attendance.Attendance{
		ID:          uuid.New().String(),
		StudentID:   input.StudentID,
		TurmaID:     input.TurmaID,
		LessonID:    input.LessonID,
		CheckInTime: now,
		Method:      method,
		Present:     true,
	}

	if err := a.Validate(); err != nil {
		return err
	}

	if err := deps.AttendanceStore.Save(ctx, a); err != nil {
		return err
	}

	slog.Info("checkin_event", "event", "student_checked_in", "student_id", input.StudentID, "name", s.Name, "turma_id", input.TurmaID, "lesson_id", input.LessonID, "method", method)
	return nil
}
