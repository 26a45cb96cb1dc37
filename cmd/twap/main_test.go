package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-floor-twap/internal/config"
	"nft-floor-twap/internal/pipeline"
)

func TestRun_MemorySourceCSV(t *testing.T) {
	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-env-file", filepath.Join(t.TempDir(), "none.env"),
		"-source", "memory",
		"-collection", pipeline.DemoCollection,
		"-windows", "1,4",
		"-log-level", "error",
	}, &stdout)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Equal(t, "timestamp_ms,time,price,twap_1h,twap_4h", lines[0])
	assert.Greater(t, len(lines), 48)
}

func TestRun_OutputFileAndDir(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "report.md")
	outDir := filepath.Join(dir, "all")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-env-file", filepath.Join(dir, "none.env"),
		"-source", "memory",
		"-collection", pipeline.DemoCollection,
		"-format", "markdown",
		"-output", outFile,
		"-output-dir", outDir,
		"-verify",
		"-log-level", "error",
	}, &stdout)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Floor TWAP Report: "+pipeline.DemoCollection)

	for _, f := range []string{pipeline.FileCSV, pipeline.FileChart, pipeline.FileMarkdown} {
		_, err := os.Stat(filepath.Join(outDir, f))
		assert.NoError(t, err, f)
	}
}

func TestRun_UnknownCollection(t *testing.T) {
	err := run(context.Background(), []string{
		"-env-file", filepath.Join(t.TempDir(), "none.env"),
		"-source", "memory",
		"-collection", "does-not-exist",
		"-log-level", "error",
	}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_InvalidConfig(t *testing.T) {
	err := run(context.Background(), []string{
		"-env-file", filepath.Join(t.TempDir(), "none.env"),
		"-source", "file",
		"-collection", "bayc",
	}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "source.dir is required")
}

func TestOptionsApply_OnlyExplicitFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-format", "json", "-windows", "2,6"})
	require.NoError(t, err)

	cfg := &config.Config{Collection: "from-config"}
	cfg.Source.Kind = config.SourceFile
	require.NoError(t, opts.apply(cfg))

	assert.Equal(t, "from-config", cfg.Collection)
	assert.Equal(t, config.SourceFile, cfg.Source.Kind)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.Equal(t, []int{2, 6}, cfg.Twap.WindowHours)
}

func TestOptionsApply_BadWindows(t *testing.T) {
	opts, err := parseFlags([]string{"-windows", "1,four"})
	require.NoError(t, err)
	assert.Error(t, opts.apply(&config.Config{}))
}
