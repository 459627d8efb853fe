package pebble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Repair is not implemented by pebble.
func Repair(string, *db.Options) error {
	return db.ErrNotSupported
}

// Destroy removes the database at path. It refuses to touch a directory
// that does not look like a pebble store.
func Destroy(path string, _ *db.Options) error {
	manifests, err := filepath.Glob(filepath.Join(path, "MANIFEST-*"))
	if err != nil {
		return err
	}
	markers, err := filepath.Glob(filepath.Join(path, "marker.manifest.*"))
	if err != nil {
		return err
	}
	if len(manifests) == 0 && len(markers) == 0 {
		return fmt.Errorf("destroy %s: not a pebble database", path)
	}
	return os.RemoveAll(path)
}
