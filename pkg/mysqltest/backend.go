package mysqltest

import (
	"database/sql"
	"testing"

	"github.com/ephemeraldb/mysqltest/pkg/mysqlserver"
	"github.com/go-sql-driver/mysql"
)

// Backend is an available MySQL test backend.
type Backend interface {
	MySQLConfig() *mysql.Config
	DB(name string) (*sql.DB, error)
	Close(t testing.TB)
}

// Default constructs a MySQL server/client session
// from the fastest available backend.
func Default(t testing.TB) Backend {
	if mysqlserver.SupportsSubprocess() {
		t.Log("mysqltest: server archive available, using subprocess")
		return NewSubprocess(t)
	}
	t.Log("mysqltest: Falling back to Docker")
	return NewDocker(t)
}
