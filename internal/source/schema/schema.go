// Package schema embeds the floor_prices DDL for the SQL-backed sources.
package schema

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Dialects with embedded DDL.
const (
	Postgres   = "postgres"
	ClickHouse = "clickhouse"
)

//go:embed postgres/*.sql clickhouse/*.sql
var files embed.FS

// Statements returns the DDL statements for dialect, ordered by file name
// and then by position within the file. Comment lines are dropped.
func Statements(dialect string) ([]string, error) {
	entries, err := fs.ReadDir(files, dialect)
	if err != nil {
		return nil, fmt.Errorf("unknown schema dialect %q: %w", dialect, err)
	}

	var stmts []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		data, err := fs.ReadFile(files, path.Join(dialect, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s/%s: %w", dialect, e.Name(), err)
		}
		stmts = append(stmts, splitStatements(string(data))...)
	}
	return stmts, nil
}

// Apply runs every statement for dialect through exec.
func Apply(ctx context.Context, dialect string, exec func(ctx context.Context, stmt string) error) error {
	stmts, err := Statements(dialect)
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if err := exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply %s statement %d: %w", dialect, i+1, err)
		}
	}
	return nil
}

// splitStatements splits on ';'. The DDL has no string literals containing one.
func splitStatements(sql string) []string {
	var lines []string
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(lines, "\n"), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
