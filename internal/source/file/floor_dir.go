// Package file reads floor records from JSON files on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/source"
)

// FloorDir implements source.Source over a directory of <collection>.json files.
type FloorDir struct {
	dir string
}

// NewFloorDir creates a source rooted at dir.
func NewFloorDir(dir string) *FloorDir {
	return &FloorDir{dir: dir}
}

// Name implements source.Source.
func (d *FloorDir) Name() string {
	return "file"
}

// Path returns the file path backing collection.
func (d *FloorDir) Path(collection string) string {
	return filepath.Join(d.dir, collection+".json")
}

// Fetch reads <dir>/<collection>.json.
func (d *FloorDir) Fetch(_ context.Context, collection string) ([]domain.FloorRecord, error) {
	if collection == "" || strings.ContainsAny(collection, `/\`) || collection != filepath.Base(collection) {
		return nil, fmt.Errorf("%w: invalid collection name %q", source.ErrNotFound, collection)
	}

	f, err := os.Open(d.Path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", source.ErrNotFound, collection)
		}
		return nil, fmt.Errorf("open floor file: %w", err)
	}
	defer f.Close()

	records, err := source.DecodeRecords(f)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, source.ErrEmpty
	}
	return records, nil
}

var _ source.Source = (*FloorDir)(nil)
