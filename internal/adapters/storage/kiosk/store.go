package kiosk

import (
	"context"

	"academia/internal/domain/kiosk"
)

// Store defines the interface for kiosk session persistence.
type Store interface {
	GetByID(ctx context.Context, id string) (kiosk.Session, error)
	GetActive(ctx context.Context, deviceName string) (kiosk.Session, error)
	Save(ctx context.Context, s kiosk.Session) error
}
