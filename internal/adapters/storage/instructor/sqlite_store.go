package instructor

import (
	"context"
	"database/sql"
	"fmt"

	"academia/internal/adapters/storage"
	domain "academia/internal/domain/instructor"
)

const instructorColumns = `id, name, email, specialty, organization_id, active`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new instructor store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Instructor by their ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Instructor, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+instructorColumns+" FROM instructor WHERE id = ?", id)
	entity, err := scanInstructor(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Instructor{}, fmt.Errorf("instructor not found: %w", err)
	}
	return entity, err
}

// Save persists an Instructor to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Instructor) error {
	active := 0
	if entity.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO instructor (`+instructorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, email=excluded.email, specialty=excluded.specialty,
			organization_id=excluded.organization_id, active=excluded.active`,
		entity.ID, entity.Name, entity.Email, entity.Specialty, entity.OrganizationID, active,
	)
	return err
}

// List retrieves all Instructors ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Instructor, error) {
	return s.queryInstructors(ctx, "SELECT "+instructorColumns+" FROM instructor ORDER BY name")
}

// ListActive retrieves active Instructors ordered by name.
func (s *SQLiteStore) ListActive(ctx context.Context) ([]domain.Instructor, error) {
	return s.queryInstructors(ctx, "SELECT "+instructorColumns+" FROM instructor WHERE active = 1 ORDER BY name")
}

func (s *SQLiteStore) queryInstructors(ctx context.Context, query string, args ...interface{}) ([]domain.Instructor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Instructor
	for rows.Next() {
		entity, err := scanInstructor(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanInstructor(scan func(dest ...any) error) (domain.Instructor, error) {
	var entity domain.Instructor
	var active int
	err := scan(&entity.ID, &entity.Name, &entity.Email, &entity.Specialty,
		&entity.OrganizationID, &active)
	if err != nil {
		return domain.Instructor{}, err
	}
	entity.Active = active != 0
	return entity, nil
}
