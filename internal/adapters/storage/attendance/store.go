package attendance

import (
	"context"

	domain "academia/internal/domain/attendance"
)

// Store persists Attendance state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Attendance, error)
	Save(ctx context.Context, value domain.Attendance) error
	Delete(ctx context.Context, id string) error
	ListByStudentID(ctx context.Context, studentID string) ([]domain.Attendance, error)
	ListByStudentIDAndDate(ctx context.Context, studentID string, date string) ([]domain.Attendance, error)
	ListByLessonID(ctx context.Context, lessonID string) ([]domain.Attendance, error)
	CountPresent(ctx context.Context, studentID, turmaID string) (int, error)
}
