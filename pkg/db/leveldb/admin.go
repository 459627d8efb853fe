package leveldb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Repair rebuilds a damaged database from whatever table files survive.
func Repair(path string, o *db.Options) error {
	ldb, err := leveldb.RecoverFile(path, engineOpts(o))
	if err != nil {
		return fmt.Errorf("recover leveldb: %w", mapError(err))
	}
	return ldb.Close()
}

// Destroy removes the database at path. It refuses to touch a directory
// that does not look like a leveldb store.
func Destroy(path string, _ *db.Options) error {
	if _, err := os.Stat(filepath.Join(path, "CURRENT")); err != nil {
		return fmt.Errorf("destroy %s: not a leveldb database", path)
	}
	return os.RemoveAll(path)
}
