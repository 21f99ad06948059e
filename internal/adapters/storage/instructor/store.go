package instructor

import (
	"context"

	"academia/internal/domain/instructor"
)

// Store defines the interface for instructor data persistence.
type Store interface {
	GetByID(ctx context.Context, id string) (instructor.Instructor, error)
	Save(ctx context.Context, i instructor.Instructor) error
	List(ctx context.Context) ([]instructor.Instructor, error)
	ListActive(ctx context.Context) ([]instructor.Instructor, error)
}
