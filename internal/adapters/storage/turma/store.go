package turma

import (
	"context"
	"time"

	"academia/internal/domain/turma"
)

// Store defines the interface for turma, lesson and enrollment persistence.
type Store interface {
	GetByID(ctx context.Context, id string) (turma.Turma, error)
	Save(ctx context.Context, t turma.Turma) error
	List(ctx context.Context) ([]turma.Turma, error)
	ListByStatus(ctx context.Context, statuses []string) ([]turma.Turma, error)

	GetLessonByID(ctx context.Context, id string) (turma.Lesson, error)
	SaveLesson(ctx context.Context, l turma.Lesson) error
	ListLessons(ctx context.Context, turmaID string) ([]turma.Lesson, error)
	ListLessonsByDate(ctx context.Context, day time.Time) ([]turma.Lesson, error)

	SaveEnrollment(ctx context.Context, e turma.Enrollment) error
	ListEnrollments(ctx context.Context, turmaID string) ([]turma.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]turma.Enrollment, error)
}
