package projections

import (
	"context"
	"sort"
	"time"

	"academia/internal/domain/instructor"
	"academia/internal/domain/student"
	"academia/internal/domain/turma"
)

// TurmaDetailStore defines the turma store interface needed by this projection.
type TurmaDetailStore interface {
	GetByID(ctx context.Context, id string) (turma.Turma, error)
	ListLessons(ctx context.Context, turmaID string) ([]turma.Lesson, error)
	ListEnrollments(ctx context.Context, turmaID string) ([]turma.Enrollment, error)
}

// TurmaDetailStudentStore resolves roster members.
type TurmaDetailStudentStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// TurmaDetailInstructorStore resolves the instructor.
type TurmaDetailInstructorStore interface {
	GetByID(ctx context.Context, id string) (instructor.Instructor, error)
}

// GetTurmaDetailDeps holds dependencies for the projection.
type GetTurmaDetailDeps struct {
	TurmaStore      TurmaDetailStore
	StudentStore    TurmaDetailStudentStore
	InstructorStore TurmaDetailInstructorStore
}

// TurmaDetailResult is everything the turma management screen shows:
// the cohort, its ordered lessons, the roster, and aggregate progress.
type TurmaDetailResult struct {
	Turma          turma.Turma
	InstructorName string
	Lessons        []turma.Lesson
	Students       []student.Student
	Progress       turma.Progress
	NextLessonAt   time.Time // zero when no lesson remains
}

// QueryGetTurmaDetail assembles the turma detail view. Roster entries
// whose student row has vanished are skipped rather than failing the
// whole screen.
func QueryGetTurmaDetail(ctx context.Context, turmaID string, now time.Time, deps GetTurmaDetailDeps) (TurmaDetailResult, error) {
	t, err := deps.TurmaStore.GetByID(ctx, turmaID)
	if err != nil {
		return TurmaDetailResult{}, err
	}

	lessons, err := deps.TurmaStore.ListLessons(ctx, turmaID)
	if err != nil {
		return TurmaDetailResult{}, err
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].LessonNumber < lessons[j].LessonNumber
	})

	enrollments, err := deps.TurmaStore.ListEnrollments(ctx, turmaID)
	if err != nil {
		return TurmaDetailResult{}, err
	}
	var students []student.Student
	for _, e := range enrollments {
		s, err := deps.StudentStore.GetByID(ctx, e.StudentID)
		if err != nil {
			continue
		}
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })

	instructorName := ""
	if deps.InstructorStore != nil {
		if ins, err := deps.InstructorStore.GetByID(ctx, t.InstructorID); err == nil {
			instructorName = ins.Name
		}
	}

	result := TurmaDetailResult{
		Turma:          t,
		InstructorName: instructorName,
		Lessons:        lessons,
		Students:       students,
		Progress:       turma.ComputeProgress(lessons),
	}
	if next := turma.NextLesson(lessons, now); next != nil {
		result.NextLessonAt = next.ScheduledDate
	}
	return result, nil
}
