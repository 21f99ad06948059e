package agenda

import (
	"context"
	"time"

	domain "academia/internal/domain/agenda"
)

// Store persists agenda Item state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Save(ctx context.Context, value domain.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Item, error)
	ListByRange(ctx context.Context, start, end time.Time) ([]domain.Item, error)
	ListByStudentID(ctx context.Context, studentID string) ([]domain.Item, error)
}
