package mysqlserver

import (
	"database/sql"
	"fmt"
	"io/fs"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/ephemeraldb/mysqltest/pkg/execbg"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// Config parameterizes an embedded server.
// The zero value uses DefaultResources, DefaultOptions and a no-op logger.
type Config struct {
	// Resources is where bundled server archives are looked up.
	Resources fs.FS
	// Options bounds the lifecycle phases.
	Options Options
	// Log receives lifecycle events and forwarded mysqld output.
	Log *zap.Logger
}

// EmbeddedMySQL is one running (or torn-down) embedded MySQL server.
// It exclusively owns a private temp directory, a TCP port and the mysqld
// child process, all released by Close.
type EmbeddedMySQL struct {
	dir  string
	port int
	opts Options
	res  fs.FS
	log  *zap.Logger

	bg     *execbg.Background
	closed int32
}

// NewEmbeddedMySQL unpacks, initializes and starts a MySQL server, returning
// once it answers queries. On any failure the instance is fully torn down
// before the error is returned.
func NewEmbeddedMySQL(config Config) (*EmbeddedMySQL, error) {
	if config.Resources == nil {
		config.Resources = DefaultResources()
	}
	if config.Options == (Options{}) {
		config.Options = DefaultOptions()
	}
	if config.Log == nil {
		config.Log = zap.NewNop()
	}

	port, err := RandomPort()
	if err != nil {
		return nil, fmt.Errorf("allocating port: %w", err)
	}
	dir, err := ioutil.TempDir("", "testing-mysql-server-")
	if err != nil {
		return nil, fmt.Errorf("creating server directory: %w", err)
	}

	s := &EmbeddedMySQL{
		dir:  dir,
		port: port,
		opts: config.Options,
		res:  config.Resources,
		log:  config.Log,
	}
	s.log.Info("Starting MySQL server",
		zap.String("dir", s.dir),
		zap.Int("port", s.port))
	if err := s.boot(); err != nil {
		s.Close()
		return nil, err
	}
	s.log.Info("mysqld startup finished", zap.Int("port", s.port))
	return s, nil
}

// boot runs the construction sequence. Steps are strictly sequential;
// the caller tears down on the first failure.
func (s *EmbeddedMySQL) boot() error {
	if err := unpackArchive(s.log, s.res, Platform(), s.dir, s.opts.CommandTimeout); err != nil {
		return err
	}
	if err := s.initialize(); err != nil {
		return err
	}
	if err := s.start(); err != nil {
		return err
	}
	return s.waitReady()
}

// initialize creates an empty data directory with no root password.
func (s *EmbeddedMySQL) initialize() error {
	return runCommand(s.log, s.opts.CommandTimeout,
		s.binPath(),
		"--no-defaults",
		"--initialize-insecure",
		"--datadir", s.dataDir())
}

// start spawns mysqld. It does not wait for readiness.
func (s *EmbeddedMySQL) start() error {
	cmd := exec.Command(s.binPath(),
		"--no-defaults",
		"--skip-ssl",
		"--disable-partition-engine-check",
		"--explicit_defaults_for_timestamp",
		"--lc_messages_dir", filepath.Join(s.dir, "share"),
		"--socket", s.SocketPath(),
		"--port", strconv.Itoa(s.port),
		"--datadir", s.dataDir())
	bg := execbg.New(s.log, cmd)
	bg.Name = "mysqld"
	bg.LogOutput = true
	if err := bg.Start(); err != nil {
		return fmt.Errorf("starting mysqld: %w", err)
	}
	s.bg = bg
	s.log.Info("mysqld started",
		zap.Int("port", s.port),
		zap.Duration("startup_wait", s.opts.StartupWait))
	return nil
}

func (s *EmbeddedMySQL) binPath() string {
	return filepath.Join(s.dir, "bin", "mysqld")
}

func (s *EmbeddedMySQL) dataDir() string {
	return filepath.Join(s.dir, "data")
}

// SocketPath returns the path of the server's Unix socket file.
func (s *EmbeddedMySQL) SocketPath() string {
	return filepath.Join(s.dir, "mysql.sock")
}

// Dir returns the private server directory.
func (s *EmbeddedMySQL) Dir() string {
	return s.dir
}

// Port returns the TCP port mysqld listens on.
func (s *EmbeddedMySQL) Port() int {
	return s.port
}

// Running reports whether the mysqld process is alive.
func (s *EmbeddedMySQL) Running() bool {
	return atomic.LoadInt32(&s.closed) == 0 && s.bg != nil && !s.bg.Exited()
}

// AdminConfig returns a client config for the bootstrap root account.
// An empty dbName selects no default database.
func (s *EmbeddedMySQL) AdminConfig(dbName string) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("localhost:%d", s.port)
	cfg.User = "root"
	cfg.DBName = dbName
	cfg.AllowNativePasswords = true
	return cfg
}

// AdminDB opens a root connection to the built-in mysql database.
func (s *EmbeddedMySQL) AdminDB() (*sql.DB, error) {
	return sql.Open("mysql", s.AdminConfig("mysql").FormatDSN())
}

// Close kills mysqld and removes the server directory. It is idempotent and
// never fails; teardown problems are logged as warnings. Each step runs even
// if the previous one failed.
func (s *EmbeddedMySQL) Close() {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return
	}
	if s.bg != nil {
		s.log.Info("Shutting down mysqld",
			zap.Duration("shutdown_wait", s.opts.ShutdownWait))
		if !s.bg.Kill(s.opts.ShutdownWait) {
			s.log.Error("mysqld is still running", zap.String("dir", s.dir))
		}
	}
	if err := os.RemoveAll(s.dir); err != nil {
		s.log.Warn("Failed to delete server directory",
			zap.String("dir", s.dir), zap.Error(err))
	}
}

func (s *EmbeddedMySQL) String() string {
	return fmt.Sprintf("EmbeddedMySQL{dir=%s, port=%d}", s.dir, s.port)
}
