package mysqlserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ephemeraldb/mysqltest/pkg/execbg"
	"go.uber.org/zap"
)

// ArchiveDirEnv names the environment variable pointing at the directory
// holding the bundled server archives.
const ArchiveDirEnv = "MYSQLTEST_ARCHIVE_DIR"

// DefaultResources returns the archive lookup used when Config.Resources is
// unset: the directory named by MYSQLTEST_ARCHIVE_DIR, or an empty filesystem
// when the variable is unset.
func DefaultResources() fs.FS {
	dir := os.Getenv(ArchiveDirEnv)
	if dir == "" {
		return emptyFS{}
	}
	return os.DirFS(dir)
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// SupportsSubprocess reports whether a bundled archive exists for the
// running platform in the default resources.
func SupportsSubprocess() bool {
	return HasArchive(DefaultResources())
}

// HasArchive reports whether resources contains an archive for the
// running platform.
func HasArchive(resources fs.FS) bool {
	f, err := resources.Open(archiveName(Platform()))
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func archiveName(platform string) string {
	return fmt.Sprintf("mysql-%s.tar.gz", platform)
}

// unpackArchive extracts the bundled server archive for platform into target.
// The archive is staged to a local temp file so the extraction tool can read
// it; the staged copy is removed whether or not extraction succeeds.
func unpackArchive(log *zap.Logger, resources fs.FS, platform, target string, timeout time.Duration) error {
	name := archiveName(platform)
	src, err := resources.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ResourceNotFoundError{Resource: name}
		}
		return fmt.Errorf("opening archive %s: %w", name, err)
	}
	defer src.Close()

	staged, err := ioutil.TempFile("", "mysql-*.tar.gz")
	if err != nil {
		return fmt.Errorf("staging archive: %w", err)
	}
	defer func() {
		if err := os.Remove(staged.Name()); err != nil {
			log.Warn("Failed to delete staged archive", zap.String("path", staged.Name()), zap.Error(err))
		}
	}()
	if _, err := io.Copy(staged, src); err != nil {
		staged.Close()
		return fmt.Errorf("staging archive: %w", err)
	}
	if err := staged.Close(); err != nil {
		return fmt.Errorf("staging archive: %w", err)
	}

	return runCommand(log, timeout, "tar", "-xzf", staged.Name(), "-C", target)
}

// runCommand runs a one-shot subprocess under a wall-clock timeout,
// forwarding its merged output to the logger.
func runCommand(log *zap.Logger, timeout time.Duration, argv ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out := &execbg.LineWriter{Log: log.Named(filepath.Base(argv[0]))}
	cmd.Stdout = out
	cmd.Stderr = out
	err := cmd.Run()
	out.Flush()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return &CommandError{Argv: argv, Err: fmt.Errorf("timed out after %s", timeout)}
		}
		return &CommandError{Argv: argv, Err: err}
	}
	return nil
}
