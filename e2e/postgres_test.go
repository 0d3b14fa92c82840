package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce      sync.Once
	pgDSN       string
	pgErr       error
	pgContainer *pgcontainer.PostgresContainer
)

// getSharedPostgresDatabase starts one PostgreSQL container for the whole run
// and returns its DSN. The container is stopped from TestMain.
func getSharedPostgresDatabase(t *testing.T) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()

		pgContainer, pgErr = pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("filekeep"),
			pgcontainer.WithUsername("filekeep"),
			pgcontainer.WithPassword("filekeep"),
			pgcontainer.BasicWaitStrategies(),
		)
		if pgErr != nil {
			return
		}

		pgDSN, pgErr = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if pgErr != nil {
			return
		}

		// The wait strategy only watches logs; make sure the server takes queries.
		var pool *pgxpool.Pool
		pool, pgErr = pgxpool.New(ctx, pgDSN)
		if pgErr != nil {
			return
		}
		defer pool.Close()
		pgErr = pool.Ping(ctx)
	})

	if pgErr != nil {
		t.Fatalf("postgres container: %v", pgErr)
	}

	return pgDSN
}

// stopPostgres terminates the shared container if one was started.
func stopPostgres() {
	if pgContainer != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
	}
}
