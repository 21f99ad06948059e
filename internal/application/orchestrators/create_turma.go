package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"academia/internal/domain/agenda"
	"academia/internal/domain/turma"
)

// TurmaStore defines the turma persistence interface for class
// orchestrators.
type TurmaStore interface {
	GetByID(ctx context.Context, id string) (turma.Turma, error)
	Save(ctx context.Context, t turma.Turma) error
	SaveLesson(ctx context.Context, l turma.Lesson) error
	GetLessonByID(ctx context.Context, id string) (turma.Lesson, error)
	ListLessons(ctx context.Context, turmaID string) ([]turma.Lesson, error)
	ListEnrollments(ctx context.Context, turmaID string) ([]turma.Enrollment, error)
	SaveEnrollment(ctx context.Context, e turma.Enrollment) error
}

// CreateTurmaInput carries the turma creation form payload.
type CreateTurmaInput struct {
	Name           string
	CourseID       string
	InstructorID   string
	OrganizationID string
	UnitID         string
	ClassType      string
	MaxStudents    int
	DaysOfWeek     []int  // 0=Sunday..6=Saturday
	Time           string // HH:MM
	DurationMin    int
	StartDate      string // YYYY-MM-DD
	EndDate        string // YYYY-MM-DD, optional
}

// CreateTurmaResult reports the created turma and its generated lessons.
type CreateTurmaResult struct {
	Turma   turma.Turma
	Lessons []turma.Lesson
}

// CreateTurmaDeps holds dependencies for CreateTurma.
type CreateTurmaDeps struct {
	TurmaStore TurmaStore
}

// ExecuteCreateTurma creates a class cohort and expands its weekly
// schedule into numbered lessons up front, so attendance and lesson
// plans have concrete rows to attach to.
// PRE: input has passed transport-level validation
// POST: turma and all generated lessons are persisted
func ExecuteCreateTurma(ctx context.Context, input CreateTurmaInput, deps CreateTurmaDeps) (CreateTurmaResult, error) {
	startDate, err := time.ParseInLocation("2006-01-02", input.StartDate, time.Local)
	if err != nil {
		return CreateTurmaResult{}, fmt.Errorf("invalid start date: %w", err)
	}
	var endDate time.Time
	if input.EndDate != "" {
		endDate, err = time.ParseInLocation("2006-01-02", input.EndDate, time.Local)
		if err != nil {
			return CreateTurmaResult{}, fmt.Errorf("invalid end date: %w", err)
		}
	}

	classType := input.ClassType
	if classType == "" {
		classType = turma.ClassRegular
	}
	t := turma.Turma{
		ID:             uuid.New().String(),
		Name:           input.Name,
		CourseID:       input.CourseID,
		InstructorID:   input.InstructorID,
		OrganizationID: input.OrganizationID,
		UnitID:         input.UnitID,
		ClassType:      classType,
		Status:         agenda.StatusScheduled,
		MaxStudents:    input.MaxStudents,
		Schedule: turma.WeeklySchedule{
			DaysOfWeek: input.DaysOfWeek,
			Time:       input.Time,
			Duration:   input.DurationMin,
		},
		StartDate: startDate,
		EndDate:   endDate,
	}
	if err := t.Validate(); err != nil {
		return CreateTurmaResult{}, err
	}

	lessons, err := t.GenerateLessons(func() string { return uuid.New().String() })
	if err != nil {
		return CreateTurmaResult{}, err
	}

	if err := deps.TurmaStore.Save(ctx, t); err != nil {
		return CreateTurmaResult{}, err
	}
	for _, l := range lessons {
		if err := deps.TurmaStore.SaveLesson(ctx, l); err != nil {
			return CreateTurmaResult{}, fmt.Errorf("saving lesson %d: %w", l.LessonNumber, err)
		}
	}

	slog.Info("turma_event", "event", "turma_created", "turma_id", t.ID, "name", t.Name, "lessons", len(lessons))
	return CreateTurmaResult{Turma: t, Lessons: lessons}, nil
}

// EnrollStudentInput carries input for enrollment.
type EnrollStudentInput struct {
	TurmaID   string
	StudentID string
}

// ExecuteEnrollStudent adds a student to a turma's roster, enforcing
// the capacity limit and rejecting duplicates.
// PRE: TurmaID and StudentID reference existing rows
// POST: an enrollment exists linking the student to the turma
func ExecuteEnrollStudent(ctx context.Context, input EnrollStudentInput, deps CreateTurmaDeps) (turma.Enrollment, error) {
	if input.TurmaID == "" || input.StudentID == "" {
		return turma.Enrollment{}, errors.New("turma and student must be identified")
	}

	t, err := deps.TurmaStore.GetByID(ctx, input.TurmaID)
	if err != nil {
		return turma.Enrollment{}, fmt.Errorf("turma not found: %w", err)
	}

	enrollments, err := deps.TurmaStore.ListEnrollments(ctx, input.TurmaID)
	if err != nil {
		return turma.Enrollment{}, err
	}
	for _, e := range enrollments {
		if e.StudentID == input.StudentID {
			return turma.Enrollment{}, turma.ErrAlreadyEnrolled
		}
	}
	if t.MaxStudents > 0 && len(enrollments) >= t.MaxStudents {
		return turma.Enrollment{}, turma.ErrCapacityExceeded
	}

	e := turma.Enrollment{
		ID:         uuid.New().String(),
		TurmaID:    input.TurmaID,
		StudentID:  input.StudentID,
		EnrolledAt: time.Now(),
	}
	if err := deps.TurmaStore.SaveEnrollment(ctx, e); err != nil {
		return turma.Enrollment{}, err
	}

	slog.Info("turma_event", "event", "student_enrolled", "turma_id", input.TurmaID, "student_id", input.StudentID)
	return e, nil
}

// UpdateLessonInput carries editable lesson fields.
type UpdateLessonInput struct {
	LessonID   string
	Status     string // empty keeps current
	LessonPlan string // markdown; empty keeps current
	ClearPlan  bool
}

// ExecuteUpdateLesson updates a lesson's status or plan.
// PRE: LessonID references an existing lesson
// POST: lesson persisted with the new values
func ExecuteUpdateLesson(ctx context.Context, input UpdateLessonInput, deps CreateTurmaDeps) (turma.Lesson, error) {
	l, err := deps.TurmaStore.GetLessonByID(ctx, input.LessonID)
	if err != nil {
		return turma.Lesson{}, fmt.Errorf("lesson not found: %w", err)
	}

	if input.Status != "" {
		valid := false
		for _, s := range agenda.Statuses {
			if s == input.Status {
				valid = true
				break
			}
		}
		if !valid {
			return turma.Lesson{}, agenda.ErrInvalidStatus
		}
		l.Status = input.Status
	}
	if input.ClearPlan {
		l.LessonPlan = ""
	} else if input.LessonPlan != "" {
		l.LessonPlan = input.LessonPlan
	}

	if err := deps.TurmaStore.SaveLesson(ctx, l); err != nil {
		return turma.Lesson{}, err
	}
	slog.Info("turma_event", "event", "lesson_updated", "lesson_id", l.ID, "status", l.Status)
	return l, nil
}

// ExecuteCancelTurma cancels a turma and every lesson of it that has
// not already happened.
// PRE: id references an existing turma
// POST: turma is CANCELLED; pending lessons are CANCELLED
func ExecuteCancelTurma(ctx context.Context, id string, deps CreateTurmaDeps) error {
	t, err := deps.TurmaStore.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("turma not found: %w", err)
	}
	t.Status = agenda.StatusCancelled
	if err := deps.TurmaStore.Save(ctx, t); err != nil {
		return err
	}

	lessons, err := deps.TurmaStore.ListLessons(ctx, id)
	if err != nil {
		return err
	}
	var cancelled int
	for _, l := range lessons {
		if l.Status == agenda.StatusCompleted || l.Status == agenda.StatusCancelled {
			continue
		}
		l.Status = agenda.StatusCancelled
		if err := deps.TurmaStore.SaveLesson(ctx, l); err != nil {
			return err
		}
		cancelled++
	}

	slog.Info("turma_event", "event", "turma_cancelled", "turma_id", id, "lessons_cancelled", cancelled)
	return nil
}
