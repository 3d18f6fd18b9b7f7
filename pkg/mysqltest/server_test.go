package mysqltest

import (
	"errors"
	"testing"

	"github.com/ephemeraldb/mysqltest/pkg/mysqlserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConnectionURL(t *testing.T) {
	assert.Equal(t,
		"mysql://localhost:13306/d1?user=t&password=p&useSSL=false",
		connectionURL(13306, "d1", "t", "p"))
	assert.Equal(t,
		"mysql://localhost:13306?user=t&password=p&useSSL=false",
		connectionURL(13306, "", "t", "p"),
		"No database path segment without a database")
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, uniqueSorted([]string{"c", "a", "b", "a", "c"}))
	assert.Empty(t, uniqueSorted(nil))
}

func TestNewServerEmptyUser(t *testing.T) {
	s, err := NewServer("", "p")
	require.Nil(t, s)
	require.EqualError(t, err, "user is empty")
}

func TestProvisioningErrorUnwrap(t *testing.T) {
	cause := errors.New("syntax error")
	err := &ProvisioningError{Stmt: "CREATE DATABASE bad", Err: cause}
	assert.EqualError(t, err, `provisioning failed at "CREATE DATABASE bad": syntax error`)
	assert.True(t, errors.Is(err, cause))
}

// TestServer covers the full provisioning scenario against a real bundled
// archive. Skipped when no archive is available for this platform.
func TestServer(t *testing.T) {
	if !mysqlserver.SupportsSubprocess() {
		t.Skip("No MySQL server archive for this platform")
	}
	config := mysqlserver.Config{Log: zaptest.NewLogger(t)}
	server, err := NewServerWithConfig(config, "t", "p", "d2", "d1")
	require.NoError(t, err)
	defer server.Close()

	assert.Equal(t, "t", server.User())
	assert.Equal(t, "p", server.Password())
	assert.Equal(t, []string{"d1", "d2"}, server.Databases())
	assert.NotEmpty(t, server.Version())
	assert.True(t, server.Running())
	assert.True(t, server.ReadyForConnections())

	db, err := server.DB("d1")
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("CREATE TABLE things (id BIGINT PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO things (id) VALUES (1)")
	require.NoError(t, err)
	var count int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM things").Scan(&count))
	assert.Equal(t, 1, count)

	server.Close()
	server.Close()
	assert.False(t, server.Running())
}

// TestServerNoDatabases verifies that a user provisioned without databases
// gets admin rights and can create databases afterwards.
func TestServerNoDatabases(t *testing.T) {
	if !mysqlserver.SupportsSubprocess() {
		t.Skip("No MySQL server archive for this platform")
	}
	config := mysqlserver.Config{Log: zaptest.NewLogger(t)}
	server, err := NewServerWithConfig(config, "admin", "secret")
	require.NoError(t, err)
	defer server.Close()

	assert.Empty(t, server.Databases())
	db, err := server.DB("")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())
	_, err = db.Exec("CREATE DATABASE afterthought")
	require.NoError(t, err)
}

// TestProvisioningFailureCleanup injects a bad database name and verifies
// the instance does not survive construction.
func TestProvisioningFailureCleanup(t *testing.T) {
	if !mysqlserver.SupportsSubprocess() {
		t.Skip("No MySQL server archive for this platform")
	}
	config := mysqlserver.Config{Log: zaptest.NewLogger(t)}
	server, err := NewServerWithConfig(config, "t", "p", "bad-name!")
	require.Nil(t, server)
	var provErr *ProvisioningError
	require.True(t, errors.As(err, &provErr), "got %v", err)
}
