// Command keyspan is a small administrative tool for keyspan stores:
// point reads and writes, range scans and engine maintenance.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/pixelglow/keyspan"
	"github.com/pixelglow/keyspan/pkg/db"
	ldb "github.com/pixelglow/keyspan/pkg/db/leveldb"
	pdb "github.com/pixelglow/keyspan/pkg/db/pebble"
	"github.com/pixelglow/keyspan/pkg/log"
)

const usage = `usage: keyspan --db PATH [flags] COMMAND [args]

commands:
  get KEY              print the value stored for KEY
  put KEY VALUE        store VALUE under KEY
  delete KEY           delete KEY
  scan                 list entries (honors --prefix/--start/--stop/--reverse)
  stats                print engine statistics
  compact [START STOP] compact the whole store or a key range
  sizes START STOP     approximate on-disk size of a key range
  repair               rebuild a damaged store (leveldb backend only)
  destroy              remove the store from disk
`

func main() {
	var (
		path     = pflag.String("db", "", "database directory")
		backend  = pflag.String("backend", "pebble", "storage backend: pebble or leveldb")
		logLevel = pflag.String("log-level", "info", "log level")
		prefix   = pflag.String("prefix", "", "scan: key prefix")
		start    = pflag.String("start", "", "scan: start key (inclusive)")
		stop     = pflag.String("stop", "", "scan: stop key (exclusive)")
		reverse  = pflag.Bool("reverse", false, "scan: descending order")
		sync     = pflag.Bool("sync", false, "sync writes")
	)
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	level, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		fatalf("invalid log level %q: %v", *logLevel, err)
	}
	log.Init(log.Options{LogLevel: level, Type: log.ConsoleLogger})

	args := pflag.Args()
	if *path == "" || len(args) == 0 {
		pflag.Usage()
		os.Exit(2)
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "repair":
		if err := repair(*backend, *path); err != nil {
			fatalf("repair: %v", err)
		}
		return
	case "destroy":
		if err := destroy(*backend, *path); err != nil {
			fatalf("destroy: %v", err)
		}
		return
	}

	store, err := keyspan.Open(*path, &keyspan.Options{Backend: keyspan.Backend(*backend)})
	if err != nil {
		fatalf("open: %v", err)
	}
	defer store.Close()

	wo := &db.WriteOptions{Sync: *sync}

	switch cmd {
	case "get":
		requireArgs(args, 1)
		value, err := store.Get([]byte(args[0]), nil)
		if err != nil {
			fatalf("get: %v", err)
		}
		if value == nil {
			fatalf("get: key %q not found", args[0])
		}
		fmt.Printf("%s\n", value)

	case "put":
		requireArgs(args, 2)
		if err := store.Put([]byte(args[0]), []byte(args[1]), wo); err != nil {
			fatalf("put: %v", err)
		}

	case "delete":
		requireArgs(args, 1)
		if err := store.Delete([]byte(args[0]), wo); err != nil {
			fatalf("delete: %v", err)
		}

	case "scan":
		opts := &keyspan.IterOptions{Reverse: *reverse}
		if *prefix != "" {
			opts.Prefix = []byte(*prefix)
		}
		if *start != "" {
			opts.Start = []byte(*start)
		}
		if *stop != "" {
			opts.Stop = []byte(*stop)
		}
		it, err := store.NewIterator(opts)
		if err != nil {
			fatalf("scan: %v", err)
		}
		defer it.Close()
		for it.Next() {
			fmt.Printf("%s\t%s\n", it.Key(), it.Value())
		}
		if err := it.Err(); err != nil {
			fatalf("scan: %v", err)
		}

	case "stats":
		value, ok := store.Property("stats")
		if !ok {
			fatalf("stats: property not available")
		}
		fmt.Println(value)

	case "compact":
		var start, limit []byte
		if len(args) == 2 {
			start, limit = []byte(args[0]), []byte(args[1])
		} else if len(args) != 0 {
			requireArgs(args, 2)
		}
		if err := store.CompactRange(start, limit); err != nil {
			fatalf("compact: %v", err)
		}

	case "sizes":
		requireArgs(args, 2)
		sizes, err := store.ApproximateSizes([]db.Range{
			{Start: []byte(args[0]), Limit: []byte(args[1])},
		})
		if err != nil {
			fatalf("sizes: %v", err)
		}
		fmt.Printf("%d\n", sizes[0])

	default:
		fatalf("unknown command %q", cmd)
	}
}

func repair(backend, path string) error {
	switch backend {
	case "leveldb":
		return ldb.Repair(path, nil)
	case "pebble":
		return pdb.Repair(path, nil)
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
}

func destroy(backend, path string) error {
	switch backend {
	case "leveldb":
		return ldb.Destroy(path, nil)
	case "pebble":
		return pdb.Destroy(path, nil)
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "keyspan: "+format+"\n", args...)
	os.Exit(1)
}

func requireArgs(args []string, n int) {
	if len(args) != n {
		pflag.Usage()
		os.Exit(2)
	}
}
