package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"nft-floor-twap/internal/source/schema"
)

// testDB is a throwaway Postgres with the floor_prices table created.
type testDB struct {
	pool *Pool
	dsn  string
}

// setupTestDB starts a container, applies the embedded schema and registers
// teardown with t.Cleanup. The returned pool can write, for seeding.
func setupTestDB(t *testing.T) *testDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("floors"),
		postgres.WithUsername("twap"),
		postgres.WithPassword("twap"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "connect to postgres")
	t.Cleanup(pool.Close)

	err = schema.Apply(ctx, schema.Postgres, func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	})
	require.NoError(t, err, "apply floor_prices schema")

	return &testDB{pool: pool, dsn: dsn}
}

func (db *testDB) seed(t *testing.T, collection string, rows [][2]string) {
	t.Helper()

	for _, r := range rows {
		_, err := db.pool.Exec(context.Background(),
			`INSERT INTO floor_prices (collection, timestamp, value) VALUES ($1, $2::timestamptz, $3::numeric)`,
			collection, r[0], r[1],
		)
		require.NoError(t, err)
	}
}
