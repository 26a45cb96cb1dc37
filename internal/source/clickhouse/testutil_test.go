package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"nft-floor-twap/internal/source/schema"
)

// setupTestDB starts a ClickHouse container, applies the embedded schema and
// registers teardown with t.Cleanup.
func setupTestDB(t *testing.T) *Conn {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "clickhouse/clickhouse-server:24.1-alpine",
			ExposedPorts: []string{nativePort + "/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Application: Ready for connections").
					WithStartupTimeout(60*time.Second),
				wait.ForListeningPort(nativePort+"/tcp"),
			),
			Env: map[string]string{
				"CLICKHOUSE_DB":       "floors",
				"CLICKHOUSE_USER":     "twap",
				"CLICKHOUSE_PASSWORD": "twap",
			},
		},
		Started: true,
	})
	require.NoError(t, err, "start clickhouse container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate clickhouse container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nativePort)
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://twap:twap@%s:%s/floors?dial_timeout=10s&max_execution_time=30", host, port.Port())
	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err, "connect to clickhouse")
	t.Cleanup(func() { _ = conn.Close() })

	err = schema.Apply(ctx, schema.ClickHouse, func(ctx context.Context, stmt string) error {
		return conn.Exec(ctx, stmt)
	})
	require.NoError(t, err, "apply floor_prices schema")

	return conn
}
