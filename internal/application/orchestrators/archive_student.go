package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"academia/internal/domain/student"
)

// StudentStore defines the student persistence interface for lifecycle
// orchestrators.
type StudentStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	Save(ctx context.Context, s student.Student) error
}

// ArchiveStudentDeps holds dependencies for ArchiveStudent.
type ArchiveStudentDeps struct {
	StudentStore StudentStore
}

// ExecuteArchiveStudent archives a student, removing them from search
// and check-in without deleting their history.
// PRE: id references an existing, non-archived student
// POST: student status is archived
func ExecuteArchiveStudent(ctx context.Context, id string, deps ArchiveStudentDeps) error {
	if id == "" {
		return errors.New("student ID is required")
	}
	s, err := deps.StudentStore.GetByID(ctx, id)
	if err != nil {
		return errors.New("student not found")
	}
	if err := s.Archive(); err != nil {
		return err
	}
	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return err
	}
	slog.Info("student_event", "event", "student_archived", "student_id", id)
	return nil
}

// ExecuteReactivateStudent returns an inactive or archived student to
// active status.
// PRE: id references an existing, non-active student
// POST: student status is active
func ExecuteReactivateStudent(ctx context.Context, id string, deps ArchiveStudentDeps) error {
	if id == "" {
		return errors.New("student ID is required")
	}
	s, err := deps.StudentStore.GetByID(ctx, id)
	if err != nil {
		return errors.New("student not found")
	}
	if err := s.Reactivate(); err != nil {
		return err
	}
	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return err
	}
	slog.Info("student_event", "event", "student_reactivated", "student_id", id)
	return nil
}
