package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"academia/internal/adapters/storage"
	domain "academia/internal/domain/attendance"
)

const attendanceColumns = `id, student_id, turma_id, lesson_id, check_in_time, method, present`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AttendanceStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Attendance by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Attendance, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+attendanceColumns+" FROM attendance WHERE id = ?", id)
	entity, err := scanAttendance(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Attendance{}, fmt.Errorf("attendance not found: %w", err)
	}
	return entity, err
}

// Save persists an Attendance to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Attendance) error {
	present := 0
	if entity.Present {
		present = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO attendance (`+attendanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			student_id=excluded.student_id, turma_id=excluded.turma_id,
			lesson_id=excluded.lesson_id, check_in_time=excluded.check_in_time,
			method=excluded.method, present=excluded.present`,
		entity.ID, entity.StudentID, nullable(entity.TurmaID), nullable(entity.LessonID),
		storage.FormatStoredTime(entity.CheckInTime), entity.Method, present,
	)
	return err
}

// Delete removes an Attendance from the database.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM attendance WHERE id = ?", id)
	return err
}

// ListByStudentID retrieves a student's attendance, newest first.
func (s *SQLiteStore) ListByStudentID(ctx context.Context, studentID string) ([]domain.Attendance, error) {
	return s.queryAttendance(ctx,
		"SELECT "+attendanceColumns+" FROM attendance WHERE student_id = ? ORDER BY check_in_time DESC",
		studentID)
}

// ListByStudentIDAndDate retrieves a student's attendance on a specific date.
// PRE: date is YYYY-MM-DD format
// POST: Returns records whose check-in falls on that date, newest first
func (s *SQLiteStore) ListByStudentIDAndDate(ctx context.Context, studentID string, date string) ([]domain.Attendance, error) {
	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance
		WHERE student_id = ? AND SUBSTR(check_in_time, 1, 10) = ?
		ORDER BY check_in_time DESC`,
		studentID, date)
}

// ListByLessonID retrieves the attendance marks of a single lesson.
func (s *SQLiteStore) ListByLessonID(ctx context.Context, lessonID string) ([]domain.Attendance, error) {
	return s.queryAttendance(ctx,
		"SELECT "+attendanceColumns+" FROM attendance WHERE lesson_id = ? ORDER BY check_in_time",
		lessonID)
}

// CountPresent counts a student's present marks in one turma.
// PRE: studentID and turmaID are non-empty
// POST: Returns the count (>= 0)
func (s *SQLiteStore) CountPresent(ctx context.Context, studentID, turmaID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendance WHERE student_id = ? AND turma_id = ? AND present = 1",
		studentID, turmaID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) queryAttendance(ctx context.Context, query string, args ...interface{}) ([]domain.Attendance, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Attendance
	for rows.Next() {
		entity, err := scanAttendance(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanAttendance reads one attendance row through any Scan function.
func scanAttendance(scan func(dest ...any) error) (domain.Attendance, error) {
	var entity domain.Attendance
	var checkInStr string
	var turmaID, lessonID sql.NullString
	var present int
	err := scan(&entity.ID, &entity.StudentID, &turmaID, &lessonID,
		&checkInStr, &entity.Method, &present)
	if err != nil {
		return domain.Attendance{}, err
	}
	entity.TurmaID = turmaID.String
	entity.LessonID = lessonID.String
	entity.Present = present != 0
	if entity.CheckInTime, err = storage.ParseStoredTime(checkInStr); err != nil {
		return domain.Attendance{}, fmt.Errorf("parsing check_in_time for %s: %w", entity.ID, err)
	}
	return entity, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
