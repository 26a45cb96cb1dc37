package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-floor-twap/internal/source"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFloorDir_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "azuki.json", `[{"timestamp":"2022-04-01T00:00:00Z","value":"9000000000000000000"}]`)

	src := NewFloorDir(dir)
	records, err := src.Fetch(context.Background(), "azuki")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "9000000000000000000", records[0].Value)
	assert.Equal(t, "file", src.Name())
}

func TestFloorDir_NotFound(t *testing.T) {
	src := NewFloorDir(t.TempDir())

	_, err := src.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestFloorDir_RejectsPathTraversal(t *testing.T) {
	src := NewFloorDir(t.TempDir())

	for _, name := range []string{"../etc/passwd", "a/b", ""} {
		_, err := src.Fetch(context.Background(), name)
		assert.ErrorIs(t, err, source.ErrNotFound, "name %q", name)
	}
}

func TestFloorDir_Empty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.json", `[]`)

	_, err := NewFloorDir(dir).Fetch(context.Background(), "empty")
	assert.ErrorIs(t, err, source.ErrEmpty)
}

func TestFloorDir_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `[{"timestamp":`)

	_, err := NewFloorDir(dir).Fetch(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, source.ErrNotFound)
}
