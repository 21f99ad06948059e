package subscription

import (
	"context"
	"database/sql"
	"fmt"

	"academia/internal/adapters/storage"
	domain "academia/internal/domain/subscription"
)

const subscriptionColumns = `id, student_id, billing_plan_id, status, started_at, suspended_at`

const paymentColumns = `id, subscription_id, amount_cents, status, invoice_url, pix_code, created_at, confirmed_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new subscription store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Subscription by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Subscription, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+subscriptionColumns+" FROM subscription WHERE id = ?", id)
	entity, err := scanSubscription(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Subscription{}, fmt.Errorf("subscription not found: %w", err)
	}
	return entity, err
}

// GetByStudentID retrieves the most recent subscription of a student.
func (s *SQLiteStore) GetByStudentID(ctx context.Context, studentID string) (domain.Subscription, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+subscriptionColumns+" FROM subscription WHERE student_id = ? ORDER BY started_at DESC LIMIT 1",
		studentID)
	entity, err := scanSubscription(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Subscription{}, fmt.Errorf("subscription not found for student %s: %w", studentID, err)
	}
	return entity, err
}

// Save persists a Subscription to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Subscription) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO subscription (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			student_id=excluded.student_id, billing_plan_id=excluded.billing_plan_id,
			status=excluded.status, started_at=excluded.started_at,
			suspended_at=excluded.suspended_at`,
		entity.ID, entity.StudentID, entity.BillingPlanID, entity.Status,
		storage.FormatStoredTime(entity.StartedAt), storage.FormatNullableTime(entity.SuspendedAt),
	)
	return err
}

// GetPayment retrieves a Payment by its ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment WHERE id = ?", id)
	entity, err := scanPayment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Payment{}, fmt.Errorf("payment not found: %w", err)
	}
	return entity, err
}

// SavePayment persists a Payment to the database.
func (s *SQLiteStore) SavePayment(ctx context.Context, entity domain.Payment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO payment (`+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subscription_id=excluded.subscription_id, amount_cents=excluded.amount_cents,
			status=excluded.status, invoice_url=excluded.invoice_url,
			pix_code=excluded.pix_code, created_at=excluded.created_at,
			confirmed_at=excluded.confirmed_at`,
		entity.ID, entity.SubscriptionID, entity.AmountCents, entity.Status,
		entity.InvoiceURL, entity.PixCode,
		storage.FormatStoredTime(entity.CreatedAt), storage.FormatNullableTime(entity.ConfirmedAt),
	)
	return err
}

// ListPayments retrieves the payments of a subscription, newest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, subscriptionID string) ([]domain.Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE subscription_id = ? ORDER BY created_at DESC",
		subscriptionID)
}

// ListPaymentsByStatus retrieves payments in the given status, oldest first.
func (s *SQLiteStore) ListPaymentsByStatus(ctx context.Context, status string) ([]domain.Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE status = ? ORDER BY created_at", status)
}

// GetEmailBySubscriptionID resolves the name and email of the student a
// subscription belongs to.
// PRE: subscriptionID is non-empty
// POST: Returns the student's name and email, or an error if not found
func (s *SQLiteStore) GetEmailBySubscriptionID(ctx context.Context, subscriptionID string) (string, string, error) {
	var name, email string
	err := s.db.QueryRowContext(ctx, `SELECT st.name, st.email
		FROM subscription sub JOIN student st ON st.id = sub.student_id
		WHERE sub.id = ?`, subscriptionID).Scan(&name, &email)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("subscription not found: %w", err)
	}
	return name, email, err
}

func (s *SQLiteStore) queryPayments(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		entity, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanSubscription(scan func(dest ...any) error) (domain.Subscription, error) {
	var entity domain.Subscription
	var startedAt string
	var suspendedAt sql.NullString
	err := scan(&entity.ID, &entity.StudentID, &entity.BillingPlanID, &entity.Status,
		&startedAt, &suspendedAt)
	if err != nil {
		return domain.Subscription{}, err
	}
	if entity.StartedAt, err = storage.ParseStoredTime(startedAt); err != nil {
		return domain.Subscription{}, fmt.Errorf("parsing started_at for %s: %w", entity.ID, err)
	}
	if suspendedAt.Valid {
		if entity.SuspendedAt, err = storage.ParseStoredTime(suspendedAt.String); err != nil {
			return domain.Subscription{}, fmt.Errorf("parsing suspended_at for %s: %w", entity.ID, err)
		}
	}
	return entity, nil
}

func scanPayment(scan func(dest ...any) error) (domain.Payment, error) {
	var entity domain.Payment
	var createdAt string
	var confirmedAt sql.NullString
	err := scan(&entity.ID, &entity.SubscriptionID, &entity.AmountCents, &entity.Status,
		&entity.InvoiceURL, &entity.PixCode, &createdAt, &confirmedAt)
	if err != nil {
		return domain.Payment{}, err
	}
	if entity.CreatedAt, err = storage.ParseStoredTime(createdAt); err != nil {
		return domain.Payment{}, fmt.Errorf("parsing created_at for %s: %w", entity.ID, err)
	}
	if confirmedAt.Valid {
		if entity.ConfirmedAt, err = storage.ParseStoredTime(confirmedAt.String); err != nil {
			return domain.Payment{}, fmt.Errorf("parsing confirmed_at for %s: %w", entity.ID, err)
		}
	}
	return entity, nil
}
