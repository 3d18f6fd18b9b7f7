package mysqlserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 10*time.Second, opts.StartupWait)
	assert.Equal(t, 10*time.Second, opts.ShutdownWait)
	assert.Equal(t, 30*time.Second, opts.CommandTimeout)
}

func TestOptionsBuilder(t *testing.T) {
	opts := NewOptionsBuilder().
		StartupWait(time.Minute).
		CommandTimeout(5 * time.Second).
		Build()
	assert.Equal(t, time.Minute, opts.StartupWait)
	assert.Equal(t, 10*time.Second, opts.ShutdownWait, "Unset fields keep defaults")
	assert.Equal(t, 5*time.Second, opts.CommandTimeout)
}
