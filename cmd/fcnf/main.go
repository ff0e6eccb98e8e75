// main.go -- fcnf CLI: build and query a which-provides-this-command index
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	flag "github.com/opencoff/pflag"
	"go.uber.org/zap"

	fcnf "github.com/opencoff/go-fcnf"
)

// exitNotFound is the CLI's distinct exit code for a query miss, kept
// apart from the usage (2) and error (1) exit codes so scripts can tell "no such command"
// from a real failure.
const exitNotFound = 3

var (
	dbPath   string
	offline  bool
	useStdin bool
)

func main() {
	usage := fmt.Sprintf("%s [options] build|query ...", os.Args[0])
	flag.Usage = func() {
		fmt.Printf("fcnf - which-provides-this-command index\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}
	flag.StringVarP(&dbPath, "db", "d", "/var/cache/fcnf/fcnf.db", "database file")
	flag.BoolVarP(&offline, "offline", "o", false, "skip 'pacman -Fy' sync before building")
	flag.BoolVarP(&useStdin, "stdin", "s", false, "read the line listing from stdin instead of spawning pacman")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	log, _ := zap.NewProduction()
	defer log.Sync()

	var err error
	switch args[0] {
	case "build":
		err = runBuild(log)
	case "query":
		if len(args) < 2 {
			err = errors.New("query requires a command name")
		} else {
			err = runQuery(log, args[1])
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "fcnf: %s\n", err)
		os.Exit(1)
	}
}

// runBuild drives the out-of-core concerns the index format itself
// stays silent about: obtaining a line source (pacman or stdin),
// writing to a temp file, and atomically replacing the database.
func runBuild(log *zap.Logger) error {
	var src io.Reader
	if useStdin {
		src = os.Stdin
	} else {
		r, cleanup, err := pacmanFileList(offline)
		if err != nil {
			return errors.Wrap(err, "spawn pacman")
		}
		defer cleanup()
		src = r
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".fcnf-build-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := fcnf.Build(src, tmp); err != nil {
		tmp.Close()
		return errors.Wrap(err, "build index")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "fsync")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}

	st, err := os.Stat(tmpName)
	if err != nil {
		return errors.Wrap(err, "stat temp file")
	}

	if err := os.Rename(tmpName, dbPath); err != nil {
		return errors.Wrapf(err, "rename %s -> %s", tmpName, dbPath)
	}

	log.Info("build complete",
		zap.String("db", dbPath),
		zap.String("size", humanize.Bytes(uint64(st.Size()))),
	)
	return nil
}

// runQuery maps the database and looks up a single command.
func runQuery(log *zap.Logger, cmd string) error {
	fd, err := os.Open(dbPath)
	if err != nil {
		return errors.Wrapf(err, "open %s", dbPath)
	}
	defer fd.Close()

	m, err := mmap.Map(fd, mmap.RDONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "mmap %s", dbPath)
	}
	defer m.Unmap()

	report, found, err := fcnf.Search([]byte(m), []byte(cmd))
	if err != nil {
		return errors.Wrap(err, "search")
	}

	if !found {
		log.Debug("not found", zap.String("command", cmd))
		fmt.Printf("%s: command not found in any package\n", cmd)
		os.Exit(exitNotFound)
	}

	fmt.Print(report)
	return nil
}

// pacmanFileList spawns pacman to produce a machine-readable file
// listing, optionally syncing the database first. The returned reader
// streams pacman's stdout; cleanup waits for the child to exit.
func pacmanFileList(offline bool) (io.Reader, func(), error) {
	if !offline {
		sync := exec.Command("pacman", "-Fy")
		if err := sync.Run(); err != nil {
			return nil, nil, errors.Wrap(err, "pacman -Fy")
		}
	}

	cmd := exec.Command("pacman", "-Fl", "--machinereadable")
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		cmd.Wait()
	}
	return out, cleanup, nil
}
