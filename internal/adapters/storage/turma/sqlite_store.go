package turma

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"academia/internal/adapters/storage"
	domain "academia/internal/domain/turma"
)

const turmaColumns = `id, name, course_id, instructor_id, organization_id, unit_id,
	class_type, status, max_students, schedule_days, schedule_time, schedule_duration,
	start_date, end_date`

const lessonColumns = `id, turma_id, lesson_number, scheduled_date, status, lesson_plan`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new turma store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Turma by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Turma, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+turmaColumns+" FROM turma WHERE id = ?", id)
	entity, err := scanTurma(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Turma{}, fmt.Errorf("turma not found: %w", err)
	}
	return entity, err
}

// Save persists a Turma to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Turma) error {
	days, err := json.Marshal(entity.Schedule.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("encoding schedule days: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO turma (`+turmaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, course_id=excluded.course_id,
			instructor_id=excluded.instructor_id, organization_id=excluded.organization_id,
			unit_id=excluded.unit_id, class_type=excluded.class_type, status=excluded.status,
			max_students=excluded.max_students, schedule_days=excluded.schedule_days,
			schedule_time=excluded.schedule_time, schedule_duration=excluded.schedule_duration,
			start_date=excluded.start_date, end_date=excluded.end_date`,
		entity.ID, entity.Name, entity.CourseID, entity.InstructorID,
		entity.OrganizationID, nullable(entity.UnitID),
		entity.ClassType, entity.Status, entity.MaxStudents,
		string(days), entity.Schedule.Time, entity.Schedule.Duration,
		storage.FormatStoredTime(entity.StartDate), storage.FormatNullableTime(entity.EndDate),
	)
	return err
}

// List retrieves all Turmas ordered by start date.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Turma, error) {
	return s.queryTurmas(ctx, "SELECT "+turmaColumns+" FROM turma ORDER BY start_date")
}

// ListByStatus retrieves Turmas whose status is one of the given values.
func (s *SQLiteStore) ListByStatus(ctx context.Context, statuses []string) ([]domain.Turma, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := "SELECT " + turmaColumns + " FROM turma WHERE status IN (?" +
		repeatPlaceholder(len(statuses)-1) + ") ORDER BY start_date"
	args := make([]interface{}, len(statuses))
	for i, st := range statuses {
		args[i] = st
	}
	return s.queryTurmas(ctx, query, args...)
}

// GetLessonByID retrieves a Lesson by its ID.
func (s *SQLiteStore) GetLessonByID(ctx context.Context, id string) (domain.Lesson, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+lessonColumns+" FROM lesson WHERE id = ?", id)
	entity, err := scanLesson(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Lesson{}, fmt.Errorf("lesson not found: %w", err)
	}
	return entity, err
}

// SaveLesson persists a Lesson to the database.
// PRE: lesson belongs to an existing turma
// POST: Lesson is persisted (insert or update)
func (s *SQLiteStore) SaveLesson(ctx context.Context, entity domain.Lesson) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO lesson (`+lessonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			turma_id=excluded.turma_id, lesson_number=excluded.lesson_number,
			scheduled_date=excluded.scheduled_date, status=excluded.status,
			lesson_plan=excluded.lesson_plan`,
		entity.ID, entity.TurmaID, entity.LessonNumber,
		storage.FormatStoredTime(entity.ScheduledDate), entity.Status, entity.LessonPlan,
	)
	return err
}

// ListLessons retrieves the lessons of a turma ordered by lesson number.
func (s *SQLiteStore) ListLessons(ctx context.Context, turmaID string) ([]domain.Lesson, error) {
	return s.queryLessons(ctx,
		"SELECT "+lessonColumns+" FROM lesson WHERE turma_id = ? ORDER BY lesson_number", turmaID)
}

// ListLessonsByDate retrieves lessons scheduled on the given calendar day.
// PRE: day carries the location the lessons were written in
// POST: Returns lessons ordered by scheduled time
func (s *SQLiteStore) ListLessonsByDate(ctx context.Context, day time.Time) ([]domain.Lesson, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return s.queryLessons(ctx,
		"SELECT "+lessonColumns+" FROM lesson WHERE scheduled_date >= ? AND scheduled_date < ? ORDER BY scheduled_date",
		storage.FormatStoredTime(dayStart), storage.FormatStoredTime(dayEnd))
}

// SaveEnrollment persists an Enrollment to the database.
// PRE: the (turma, student) pair is not already enrolled
// POST: Enrollment is persisted
func (s *SQLiteStore) SaveEnrollment(ctx context.Context, entity domain.Enrollment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrollment (id, turma_id, student_id, enrolled_at) VALUES (?, ?, ?, ?)`,
		entity.ID, entity.TurmaID, entity.StudentID, storage.FormatStoredTime(entity.EnrolledAt))
	return err
}

// ListEnrollments retrieves the roster of a turma.
func (s *SQLiteStore) ListEnrollments(ctx context.Context, turmaID string) ([]domain.Enrollment, error) {
	return s.queryEnrollments(ctx,
		"SELECT id, turma_id, student_id, enrolled_at FROM enrollment WHERE turma_id = ? ORDER BY enrolled_at", turmaID)
}

// ListEnrollmentsByStudent retrieves every turma a student is enrolled in.
func (s *SQLiteStore) ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]domain.Enrollment, error) {
	return s.queryEnrollments(ctx,
		"SELECT id, turma_id, student_id, enrolled_at FROM enrollment WHERE student_id = ? ORDER BY enrolled_at", studentID)
}

func (s *SQLiteStore) queryTurmas(ctx context.Context, query string, args ...interface{}) ([]domain.Turma, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Turma
	for rows.Next() {
		entity, err := scanTurma(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) queryLessons(ctx context.Context, query string, args ...interface{}) ([]domain.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Lesson
	for rows.Next() {
		entity, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) queryEnrollments(ctx context.Context, query string, args ...interface{}) ([]domain.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Enrollment
	for rows.Next() {
		var entity domain.Enrollment
		var enrolledAt string
		if err := rows.Scan(&entity.ID, &entity.TurmaID, &entity.StudentID, &enrolledAt); err != nil {
			return nil, err
		}
		parsed, err := storage.ParseStoredTime(enrolledAt)
		if err != nil {
			return nil, fmt.Errorf("parsing enrolled_at for %s: %w", entity.ID, err)
		}
		entity.EnrolledAt = parsed
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanTurma reads one turma row through any Scan function.
func scanTurma(scan func(dest ...any) error) (domain.Turma, error) {
	var entity domain.Turma
	var unitID, endDate sql.NullString
	var days, startDate string
	err := scan(
		&entity.ID, &entity.Name, &entity.CourseID, &entity.InstructorID,
		&entity.OrganizationID, &unitID,
		&entity.ClassType, &entity.Status, &entity.MaxStudents,
		&days, &entity.Schedule.Time, &entity.Schedule.Duration,
		&startDate, &endDate,
	)
	if err != nil {
		return domain.Turma{}, err
	}
	entity.UnitID = unitID.String
	if err := json.Unmarshal([]byte(days), &entity.Schedule.DaysOfWeek); err != nil {
		return domain.Turma{}, fmt.Errorf("decoding schedule days for %s: %w", entity.ID, err)
	}
	if entity.StartDate, err = storage.ParseStoredTime(startDate); err != nil {
		return domain.Turma{}, fmt.Errorf("parsing start_date for %s: %w", entity.ID, err)
	}
	if endDate.Valid {
		if entity.EndDate, err = storage.ParseStoredTime(endDate.String); err != nil {
			return domain.Turma{}, fmt.Errorf("parsing end_date for %s: %w", entity.ID, err)
		}
	}
	return entity, nil
}

// scanLesson reads one lesson row through any Scan function.
func scanLesson(scan func(dest ...any) error) (domain.Lesson, error) {
	var entity domain.Lesson
	var scheduled string
	err := scan(&entity.ID, &entity.TurmaID, &entity.LessonNumber,
		&scheduled, &entity.Status, &entity.LessonPlan)
	if err != nil {
		return domain.Lesson{}, err
	}
	if entity.ScheduledDate, err = storage.ParseStoredTime(scheduled); err != nil {
		return domain.Lesson{}, fmt.Errorf("parsing scheduled_date for %s: %w", entity.ID, err)
	}
	return entity, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}
