package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	for _, dialect := range []string{Postgres, ClickHouse} {
		t.Run(dialect, func(t *testing.T) {
			stmts, err := Statements(dialect)
			require.NoError(t, err)

			require.Len(t, stmts, 1)
			assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS floor_prices")
			assert.NotContains(t, stmts[0], "--")
			assert.NotContains(t, stmts[0], ";")
		})
	}
}

func TestStatements_UnknownDialect(t *testing.T) {
	_, err := Statements("sqlite")
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- header\nCREATE TABLE a (x INT);\n\n  -- note\nCREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, got)
}

func TestApply(t *testing.T) {
	var ran []string
	err := Apply(context.Background(), Postgres, func(_ context.Context, stmt string) error {
		ran = append(ran, stmt)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, ran, 1)

	boom := errors.New("boom")
	err = Apply(context.Background(), ClickHouse, func(context.Context, string) error { return boom })
	assert.ErrorIs(t, err, boom)
}
