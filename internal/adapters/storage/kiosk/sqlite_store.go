package kiosk

import (
	"context"
	"database/sql"
	"fmt"

	"academia/internal/adapters/storage"
	domain "academia/internal/domain/kiosk"
)

const sessionColumns = `id, device_name, pin_hash, started_at, ended_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new kiosk session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Session by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM kiosk_session WHERE id = ?", id)
	entity, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Session{}, fmt.Errorf("kiosk session not found: %w", err)
	}
	return entity, err
}

// GetActive retrieves the open session on a device, if any.
// PRE: deviceName is non-empty
// POST: Returns the newest session without an end time, or an error
func (s *SQLiteStore) GetActive(ctx context.Context, deviceName string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM kiosk_session WHERE device_name = ? AND ended_at IS NULL ORDER BY started_at DESC LIMIT 1",
		deviceName)
	entity, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Session{}, fmt.Errorf("no active kiosk session on %s: %w", deviceName, err)
	}
	return entity, err
}

// Save persists a Session to the database.
// POST: Session is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Session) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO kiosk_session (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			device_name=excluded.device_name, pin_hash=excluded.pin_hash,
			started_at=excluded.started_at, ended_at=excluded.ended_at`,
		entity.ID, entity.DeviceName, entity.PINHash,
		storage.FormatStoredTime(entity.StartedAt), storage.FormatNullableTime(entity.EndedAt),
	)
	return err
}

func scanSession(scan func(dest ...any) error) (domain.Session, error) {
	var entity domain.Session
	var startedAt string
	var endedAt sql.NullString
	err := scan(&entity.ID, &entity.DeviceName, &entity.PINHash, &startedAt, &endedAt)
	if err != nil {
		return domain.Session{}, err
	}
	if entity.StartedAt, err = storage.ParseStoredTime(startedAt); err != nil {
		return domain.Session{}, fmt.Errorf("parsing started_at for %s: %w", entity.ID, err)
	}
	if endedAt.Valid {
		if entity.EndedAt, err = storage.ParseStoredTime(endedAt.String); err != nil {
			return domain.Session{}, fmt.Errorf("parsing ended_at for %s: %w", entity.ID, err)
		}
	}
	return entity, nil
}
