package projections

import (
	"context"
	"time"

	"academia/internal/domain/refdata"
	"academia/internal/domain/turma"
)

// CourseProgressTurmaStore defines the store interface needed by this projection.
type CourseProgressTurmaStore interface {
	GetByID(ctx context.Context, id string) (turma.Turma, error)
	ListLessons(ctx context.Context, turmaID string) ([]turma.Lesson, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]turma.Enrollment, error)
}

// CourseProgressCourseStore defines the store interface needed by this projection.
type CourseProgressCourseStore interface {
	GetCourseByID(ctx context.Context, id string) (refdata.Course, error)
}

// CourseProgressAttendanceStore counts a student's presences per turma.
type CourseProgressAttendanceStore interface {
	CountPresent(ctx context.Context, studentID, turmaID string) (int, error)
}

// GetCourseProgressDeps holds dependencies for the projection.
type GetCourseProgressDeps struct {
	TurmaStore      CourseProgressTurmaStore
	CourseStore     CourseProgressCourseStore
	AttendanceStore CourseProgressAttendanceStore
}

// CourseProgressResult summarizes one enrollment for the student's
// progress screen: how far the turma has advanced, how many lessons
// the student actually attended, and what comes next.
type CourseProgressResult struct {
	TurmaID        string
	TurmaName      string
	CourseName     string
	Progress       turma.Progress
	LessonsPresent int
	NextLessonAt   time.Time // zero when no lesson remains
}

// QueryGetCourseProgress builds the per-turma progress list for a
// student. Enrollments whose turma has vanished are skipped.
func QueryGetCourseProgress(ctx context.Context, studentID string, now time.Time, deps GetCourseProgressDeps) ([]CourseProgressResult, error) {
	enrollments, err := deps.TurmaStore.ListEnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var results []CourseProgressResult
	for _, e := range enrollments {
		t, err := deps.TurmaStore.GetByID(ctx, e.TurmaID)
		if err != nil {
			continue // Skip if turma not found
		}
		lessons, err := deps.TurmaStore.ListLessons(ctx, e.TurmaID)
		if err != nil {
			return nil, err
		}

		courseName := ""
		if c, err := deps.CourseStore.GetCourseByID(ctx, t.CourseID); err == nil {
			courseName = c.Name
		}

		present := 0
		if deps.AttendanceStore != nil {
			if n, err := deps.AttendanceStore.CountPresent(ctx, studentID, e.TurmaID); err == nil {
				present = n
			}
		}

		result := CourseProgressResult{
			TurmaID:        t.ID,
			TurmaName:      t.Name,
			CourseName:     courseName,
			Progress:       turma.ComputeProgress(lessons),
			LessonsPresent: present,
		}
		if next := turma.NextLesson(lessons, now); next != nil {
			result.NextLessonAt = next.ScheduledDate
		}
		results = append(results, result)
	}
	return results, nil
}
