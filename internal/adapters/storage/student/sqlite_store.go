package student

import (
	"context"
	"database/sql"
	"fmt"

	"academia/internal/adapters/storage"
	domain "academia/internal/domain/student"
)

const studentColumns = `id, name, email, phone, organization_id, billing_plan_id, status`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new student store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Student by their ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studentColumns+" FROM student WHERE id = ?", id)
	entity, err := scanStudent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO student (`+studentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, email=excluded.email, phone=excluded.phone,
			organization_id=excluded.organization_id,
			billing_plan_id=excluded.billing_plan_id, status=excluded.status`,
		entity.ID, entity.Name, entity.Email, entity.Phone,
		entity.OrganizationID, nullable(entity.BillingPlanID), entity.Status,
	)
	return err
}

// Delete removes a Student from the database.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM student WHERE id = ?", id)
	return err
}

// List retrieves all Students ordered by name, active first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Student, error) {
	return s.queryStudents(ctx,
		"SELECT "+studentColumns+" FROM student ORDER BY CASE status WHEN 'active' THEN 0 WHEN 'inactive' THEN 1 ELSE 2 END, name")
}

// SearchByName finds students whose name matches the query (case-insensitive LIKE).
// PRE: query is non-empty, limit > 0
// POST: Returns matching students ordered by name, archived excluded
func (s *SQLiteStore) SearchByName(ctx context.Context, query string, limit int) ([]domain.Student, error) {
	return s.queryStudents(ctx,
		"SELECT "+studentColumns+" FROM student WHERE name LIKE ? AND status != 'archived' ORDER BY name LIMIT ?",
		"%"+query+"%", limit)
}

func (s *SQLiteStore) queryStudents(ctx context.Context, query string, args ...interface{}) ([]domain.Student, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Student
	for rows.Next() {
		entity, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanStudent(scan func(dest ...any) error) (domain.Student, error) {
	var entity domain.Student
	var planID sql.NullString
	err := scan(&entity.ID, &entity.Name, &entity.Email, &entity.Phone,
		&entity.OrganizationID, &planID, &entity.Status)
	if err != nil {
		return domain.Student{}, err
	}
	entity.BillingPlanID = planID.String
	return entity, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
