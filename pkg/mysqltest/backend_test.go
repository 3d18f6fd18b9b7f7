package mysqltest

import (
	"testing"

	"github.com/ephemeraldb/mysqltest/pkg/mysqlserver"
	"github.com/stretchr/testify/require"
)

func TestSubprocess(t *testing.T) {
	if !mysqlserver.SupportsSubprocess() {
		t.Skip("No MySQL server archive for this platform")
	}
	sub := NewSubprocess(t)
	defer sub.Close(t)
	db, err := sub.DB("")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())
}
