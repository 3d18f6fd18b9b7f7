package mysqltest

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/ephemeraldb/mysqltest/pkg/mysqlserver"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Server is an embedded MySQL server with a provisioned user and databases.
// Either every requested database exists, or construction failed and the
// underlying instance was torn down; a half-provisioned Server never escapes.
type Server struct {
	embedded  *mysqlserver.EmbeddedMySQL
	user      string
	password  string
	databases []string
	version   string
	log       *zap.Logger
}

// NewServer starts an embedded MySQL server with default configuration and
// provisions the given user and databases.
func NewServer(user, password string, databases ...string) (*Server, error) {
	return NewServerWithConfig(mysqlserver.Config{}, user, password, databases...)
}

// NewServerWithConfig is NewServer with explicit server configuration.
func NewServerWithConfig(config mysqlserver.Config, user, password string, databases ...string) (*Server, error) {
	if user == "" {
		return nil, errors.New("user is empty")
	}
	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}
	embedded, err := mysqlserver.NewEmbeddedMySQL(config)
	if err != nil {
		return nil, err
	}
	s := &Server{
		embedded:  embedded,
		user:      user,
		password:  password,
		databases: uniqueSorted(databases),
		log:       log,
	}
	if err := s.provision(); err != nil {
		embedded.Close()
		return nil, err
	}
	log.Info("MySQL server ready",
		zap.String("url", s.ConnectionString("")),
		zap.String("version", s.version))
	return s, nil
}

// provision creates the user, grants and databases over one admin
// connection. Statements run in order; the first failure aborts.
func (s *Server) provision() error {
	db, err := sqlx.Open("mysql", s.embedded.AdminConfig("mysql").FormatDSN())
	if err != nil {
		return &ProvisioningError{Err: err}
	}
	defer db.Close()

	if err := db.Get(&s.version, "SELECT VERSION()"); err != nil {
		return &ProvisioningError{Stmt: "SELECT VERSION()", Err: err}
	}

	stmts := []string{
		fmt.Sprintf("CREATE USER '%s'@'%%' IDENTIFIED BY '%s'", s.user, s.password),
	}
	if len(s.databases) == 0 {
		// No databases requested: the user gets global admin rights so it
		// can create databases itself.
		stmts = append(stmts,
			fmt.Sprintf("GRANT ALL ON *.* TO '%s'@'%%' WITH GRANT OPTION", s.user))
	} else {
		for _, name := range s.databases {
			stmts = append(stmts,
				fmt.Sprintf("CREATE DATABASE %s", name),
				fmt.Sprintf("GRANT ALL ON %s.* TO '%s'@'%%'", name, s.user))
		}
	}
	for _, stmt := range stmts {
		s.log.Debug("Executing", zap.String("stmt", stmt))
		if _, err := db.Exec(stmt); err != nil {
			return &ProvisioningError{Stmt: stmt, Err: err}
		}
	}
	return nil
}

// User returns the provisioned user name.
func (s *Server) User() string {
	return s.user
}

// Password returns the provisioned user's password.
func (s *Server) Password() string {
	return s.password
}

// Databases returns the provisioned database names, sorted.
func (s *Server) Databases() []string {
	out := make([]string, len(s.databases))
	copy(out, s.databases)
	return out
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.embedded.Port()
}

// Version returns the server version string, read at provisioning time.
func (s *Server) Version() string {
	return s.version
}

// Running reports whether the mysqld process is alive.
func (s *Server) Running() bool {
	return s.embedded.Running()
}

// ReadyForConnections reports whether the server currently answers pings
// with the provisioned credentials.
func (s *Server) ReadyForConnections() bool {
	db, err := s.DB("")
	if err != nil {
		return false
	}
	defer db.Close()
	return db.Ping() == nil
}

// MySQLConfig returns a client config for the provisioned user.
// An empty database selects no default database.
func (s *Server) MySQLConfig(database string) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("localhost:%d", s.Port())
	cfg.User = s.user
	cfg.Passwd = s.password
	cfg.DBName = database
	cfg.AllowNativePasswords = true
	return cfg
}

// DB opens the specified database as the provisioned user.
// An empty string opens no default database.
func (s *Server) DB(database string) (*sql.DB, error) {
	return sql.Open("mysql", s.MySQLConfig(database).FormatDSN())
}

// ConnectionString returns a URL-style connection string for the provisioned
// user. The database path segment is present only when database is non-empty.
func (s *Server) ConnectionString(database string) string {
	return connectionURL(s.Port(), database, s.user, s.password)
}

func connectionURL(port int, database, user, password string) string {
	target := fmt.Sprintf("mysql://localhost:%d", port)
	if database != "" {
		target += "/" + database
	}
	return fmt.Sprintf("%s?user=%s&password=%s&useSSL=false", target, user, password)
}

// Close tears down the underlying server. Idempotent, never fails.
func (s *Server) Close() {
	s.embedded.Close()
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
