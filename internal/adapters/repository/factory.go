package repository

import (
	"context"

	"github.com/rotisserie/eris"
)

// Drivers accepted by New.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config selects and configures a Store.
type Config struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
	MaxConns    int32
}

// New opens the store named by cfg.Driver. A SQLite file with no sectors is
// seeded with the mock dataset so a fresh file serves data immediately.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverPostgres:
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns})
	case DriverSQLite:
		s, err := NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := s.prepare(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}
	return nil, eris.Wrapf(ErrUnknownDriver, "driver %q", cfg.Driver)
}

func (s *SQLiteStore) prepare(ctx context.Context) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sectors`).Scan(&n); err != nil {
		return eris.Wrap(err, "sqlite: count sectors")
	}
	if n > 0 {
		return nil
	}
	return s.Seed(ctx, NewMemoryStore().Dataset())
}
