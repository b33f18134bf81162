package docstore

import (
	"context"
	"fmt"

	"github.com/joao-fontenele/storefront-admin/internal/telemetry"
)

// Open builds the Store selected by driver: "postgres" (lib/pq), "pgx" or
// "memory". Reads are retried up to retries times. The returned close
// function releases the connection pool.
func Open(ctx context.Context, driver, dsn string, retries uint) (Store, func() error, error) {
	switch driver {
	case "memory":
		return NewMemoryStore(), func() error { return nil }, nil
	case "postgres", "pgx":
		db, err := telemetry.OpenDB(ctx, driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		return WithRetry(NewPostgresStore(db), retries), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown docstore driver %q", driver)
	}
}
