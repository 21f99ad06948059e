package student

import (
	"context"

	"academia/internal/domain/student"
)

// Store defines the interface for student data persistence.
type Store interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	Save(ctx context.Context, s student.Student) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]student.Student, error)
	SearchByName(ctx context.Context, query string, limit int) ([]student.Student, error)
}
