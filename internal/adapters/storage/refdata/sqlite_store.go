package refdata

import (
	"context"
	"database/sql"
	"fmt"

	"academia/internal/adapters/storage"
	domain "academia/internal/domain/refdata"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new reference data store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListUnits retrieves all Units ordered by name.
func (s *SQLiteStore) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, address, organization_id FROM unit ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Unit
	for rows.Next() {
		var entity domain.Unit
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.Address, &entity.OrganizationID); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// SaveUnit persists a Unit to the database.
func (s *SQLiteStore) SaveUnit(ctx context.Context, entity domain.Unit) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO unit (id, name, address, organization_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, address=excluded.address,
			organization_id=excluded.organization_id`,
		entity.ID, entity.Name, entity.Address, entity.OrganizationID)
	return err
}

// ListTrainingAreas retrieves all TrainingAreas ordered by name.
func (s *SQLiteStore) ListTrainingAreas(ctx context.Context) ([]domain.TrainingArea, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, unit_id FROM training_area ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.TrainingArea
	for rows.Next() {
		var entity domain.TrainingArea
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.UnitID); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// SaveTrainingArea persists a TrainingArea to the database.
func (s *SQLiteStore) SaveTrainingArea(ctx context.Context, entity domain.TrainingArea) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO training_area (id, name, unit_id)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, unit_id=excluded.unit_id`,
		entity.ID, entity.Name, entity.UnitID)
	return err
}

// ListCourses retrieves all Courses ordered by name.
func (s *SQLiteStore) ListCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, total_lessons FROM course ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Course
	for rows.Next() {
		var entity domain.Course
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.Description, &entity.TotalLessons); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// GetCourseByID retrieves a Course by its ID.
func (s *SQLiteStore) GetCourseByID(ctx context.Context, id string) (domain.Course, error) {
	var entity domain.Course
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, total_lessons FROM course WHERE id = ?", id).
		Scan(&entity.ID, &entity.Name, &entity.Description, &entity.TotalLessons)
	if err == sql.ErrNoRows {
		return domain.Course{}, fmt.Errorf("course not found: %w", err)
	}
	return entity, err
}

// SaveCourse persists a Course to the database.
func (s *SQLiteStore) SaveCourse(ctx context.Context, entity domain.Course) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO course (id, name, description, total_lessons)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, description=excluded.description,
			total_lessons=excluded.total_lessons`,
		entity.ID, entity.Name, entity.Description, entity.TotalLessons)
	return err
}

// ListBillingPlans retrieves all BillingPlans, active first, by price.
func (s *SQLiteStore) ListBillingPlans(ctx context.Context) ([]domain.BillingPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price_cents, interval_days, active FROM billing_plan ORDER BY active DESC, price_cents")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.BillingPlan
	for rows.Next() {
		entity, err := scanBillingPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// GetBillingPlanByID retrieves a BillingPlan by its ID.
func (s *SQLiteStore) GetBillingPlanByID(ctx context.Context, id string) (domain.BillingPlan, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, price_cents, interval_days, active FROM billing_plan WHERE id = ?", id)
	entity, err := scanBillingPlan(row.Scan)
	if err == sql.ErrNoRows {
		return domain.BillingPlan{}, fmt.Errorf("billing plan not found: %w", err)
	}
	return entity, err
}

// SaveBillingPlan persists a BillingPlan to the database.
func (s *SQLiteStore) SaveBillingPlan(ctx context.Context, entity domain.BillingPlan) error {
	active := 0
	if entity.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO billing_plan (id, name, price_cents, interval_days, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, price_cents=excluded.price_cents,
			interval_days=excluded.interval_days, active=excluded.active`,
		entity.ID, entity.Name, entity.PriceCents, entity.IntervalDays, active)
	return err
}

func scanBillingPlan(scan func(dest ...any) error) (domain.BillingPlan, error) {
	var entity domain.BillingPlan
	var active int
	err := scan(&entity.ID, &entity.Name, &entity.PriceCents, &entity.IntervalDays, &active)
	if err != nil {
		return domain.BillingPlan{}, err
	}
	entity.Active = active != 0
	return entity, nil
}
