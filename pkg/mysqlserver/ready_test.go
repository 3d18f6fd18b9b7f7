package mysqlserver

import (
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/ephemeraldb/mysqltest/pkg/execbg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// probeTarget builds a server value pointing at a port nobody listens on,
// supervising the given command instead of a real mysqld.
func probeTarget(t *testing.T, startupWait time.Duration, argv ...string) *EmbeddedMySQL {
	port, err := RandomPort()
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.StartupWait = startupWait
	bg := execbg.New(zaptest.NewLogger(t), exec.Command(argv[0], argv[1:]...))
	require.NoError(t, bg.Start())
	t.Cleanup(func() { bg.Kill(5 * time.Second) })
	return &EmbeddedMySQL{
		port: port,
		opts: opts,
		log:  zaptest.NewLogger(t),
		bg:   bg,
	}
}

func TestWaitReadyTimeout(t *testing.T) {
	const wait = 500 * time.Millisecond
	s := probeTarget(t, wait, "sleep", "60")
	start := time.Now()
	err := s.waitReady()
	elapsed := time.Since(start)

	var timeout *StartupTimeoutError
	require.True(t, errors.As(err, &timeout), "got %v", err)
	assert.Equal(t, wait, timeout.Wait)
	assert.Error(t, errors.Unwrap(timeout), "Timeout should carry the last probe failure")
	assert.GreaterOrEqual(t, elapsed, wait)
	assert.Less(t, elapsed, wait+5*time.Second, "Should not overshoot the wait by much")
}

func TestWaitReadyProcessExited(t *testing.T) {
	s := probeTarget(t, 10*time.Second, "sh", "-c", "exit 7")
	<-s.bg.Done()
	start := time.Now()
	err := s.waitReady()
	elapsed := time.Since(start)

	var exited *ProcessExitedError
	require.True(t, errors.As(err, &exited), "got %v", err)
	assert.Equal(t, 7, exited.ExitCode)
	assert.Less(t, elapsed, 5*time.Second, "Dead process should fail fast, not wait out the timeout")
}
