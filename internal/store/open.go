package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/esgtrace/internal/model"
)

// Store drivers
const (
	DriverMemory  = "memory"
	DriverDisk    = "disk"
	DriverLayered = "layered"
	DriverSQLite  = "sqlite"
)

// Open builds the backend selected by cfg.Driver
func Open(ctx context.Context, cfg model.StoreConfig) (Backend, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryBackend(0), nil
	case DriverDisk, "":
		return NewDiskBackend(cfg.Dir), nil
	case DriverLayered:
		return NewLayeredBackend(NewMemoryBackend(cfg.TTL), NewDiskBackend(cfg.Dir)), nil
	case DriverSQLite:
		if dir := filepath.Dir(cfg.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, eris.Wrapf(err, "store: create dir %s", dir)
			}
		}
		db, err := NewSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
