package mysqltest

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"testing"

	"github.com/ephemeraldb/mysqltest/pkg/mysqlserver"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// defaultDatabase is the database provisioned by the test backends.
const defaultDatabase = "mysqltest"

// Subprocess runs a local embedded MySQL server in a temp directory.
type Subprocess struct {
	Server *Server
}

// Assert Subprocess implements Backend.
var _ Backend = (*Subprocess)(nil)

// NewSubprocess spawns the embedded MySQL server from the bundled archive.
// It terminates the test if creation fails.
func NewSubprocess(t testing.TB) *Subprocess {
	config := mysqlserver.Config{Log: zaptest.NewLogger(t)}
	server, err := NewServerWithConfig(config, "mysqltest", randomPassword(t), defaultDatabase)
	require.NoError(t, err, "Starting embedded MySQL")
	t.Log("mysqltest: server path:", server.ConnectionString(defaultDatabase))
	return &Subprocess{Server: server}
}

// MySQLConfig returns the base config for connecting to the local server.
func (s *Subprocess) MySQLConfig() *mysql.Config {
	return s.Server.MySQLConfig(defaultDatabase)
}

// DB opens the specified database.
// An empty string opens the default database.
func (s *Subprocess) DB(name string) (*sql.DB, error) {
	if name == "" {
		name = defaultDatabase
	}
	return s.Server.DB(name)
}

// Close kills the subprocess and removes the temp dir.
func (s *Subprocess) Close(t testing.TB) {
	s.Server.Close()
}

func randomPassword(t testing.TB) string {
	var passBytes [16]byte
	_, err := rand.Read(passBytes[:])
	require.NoError(t, err, "Getting random password bytes")
	return hex.EncodeToString(passBytes[:])
}
