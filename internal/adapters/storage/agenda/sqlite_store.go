package agenda

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"academia/internal/adapters/storage"
	domain "academia/internal/domain/agenda"
)

const itemColumns = `id, type, title, description, start_time, end_time, status,
	instructor_id, instructor_name, training_area_id, training_area_name,
	unit_id, unit_name, student_id, max_students, actual_students,
	is_recurring, recurrence_rule`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new agenda item store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Item by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM agenda_item WHERE id = ?", id)
	entity, err := scanItem(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Item{}, fmt.Errorf("agenda item not found: %w", err)
	}
	return entity, err
}

// Save persists an Item to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Item) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO agenda_item (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type=excluded.type, title=excluded.title, description=excluded.description,
			start_time=excluded.start_time, end_time=excluded.end_time, status=excluded.status,
			instructor_id=excluded.instructor_id, instructor_name=excluded.instructor_name,
			training_area_id=excluded.training_area_id, training_area_name=excluded.training_area_name,
			unit_id=excluded.unit_id, unit_name=excluded.unit_name,
			student_id=excluded.student_id, max_students=excluded.max_students,
			actual_students=excluded.actual_students,
			is_recurring=excluded.is_recurring, recurrence_rule=excluded.recurrence_rule`,
		entity.ID, entity.Type, entity.Title, entity.Description,
		entity.StartTime.Format(time.RFC3339Nano), entity.EndTime.Format(time.RFC3339Nano),
		entity.Status,
		nullable(entity.Instructor.ID), entity.Instructor.Name,
		nullable(entity.TrainingArea.ID), entity.TrainingArea.Name,
		nullable(entity.Unit.ID), entity.Unit.Name,
		nullable(entity.StudentID), entity.MaxStudents, entity.ActualStudents,
		boolToInt(entity.IsRecurring), entity.RecurrenceRule,
	)
	return err
}

// Delete removes an Item from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM agenda_item WHERE id = ?", id)
	return err
}

// List retrieves all Items ordered by start time.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Item, error) {
	return s.queryItems(ctx, "SELECT "+itemColumns+" FROM agenda_item ORDER BY start_time")
}

// ListByRange retrieves Items whose start falls inside [start, end].
// PRE: start <= end
// POST: Returns matching items ordered by start time
func (s *SQLiteStore) ListByRange(ctx context.Context, start, end time.Time) ([]domain.Item, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM agenda_item WHERE start_time >= ? AND start_time <= ? ORDER BY start_time",
		start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
}

// ListByStudentID retrieves the personal sessions of a student.
func (s *SQLiteStore) ListByStudentID(ctx context.Context, studentID string) ([]domain.Item, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM agenda_item WHERE student_id = ? ORDER BY start_time", studentID)
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...interface{}) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Item
	for rows.Next() {
		entity, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanItem reads one agenda_item row through any Scan function.
func scanItem(scan func(dest ...any) error) (domain.Item, error) {
	var entity domain.Item
	var startStr, endStr string
	var instructorID, areaID, unitID, studentID sql.NullString
	var recurring int
	err := scan(
		&entity.ID, &entity.Type, &entity.Title, &entity.Description,
		&startStr, &endStr, &entity.Status,
		&instructorID, &entity.Instructor.Name,
		&areaID, &entity.TrainingArea.Name,
		&unitID, &entity.Unit.Name,
		&studentID, &entity.MaxStudents, &entity.ActualStudents,
		&recurring, &entity.RecurrenceRule,
	)
	if err != nil {
		return domain.Item{}, err
	}
	entity.Instructor.ID = instructorID.String
	entity.TrainingArea.ID = areaID.String
	entity.Unit.ID = unitID.String
	entity.StudentID = studentID.String
	entity.IsRecurring = recurring != 0
	if entity.StartTime, err = storage.ParseStoredTime(startStr); err != nil {
		return domain.Item{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if entity.EndTime, err = storage.ParseStoredTime(endStr); err != nil {
		return domain.Item{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	return entity, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
