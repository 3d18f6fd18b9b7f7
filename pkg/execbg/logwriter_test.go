package execbg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLines(logs *observer.ObservedLogs) []string {
	entries := logs.All()
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.Message
	}
	return lines
}

func TestLineWriterSplitsLines(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := &LineWriter{Log: zap.New(core)}
	_, err := w.Write([]byte("one\ntwo\nthr"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, observedLines(logs))
	_, err = w.Write([]byte("ee\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, observedLines(logs))
}

func TestLineWriterFlush(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := &LineWriter{Log: zap.New(core)}
	_, err := w.Write([]byte("partial"))
	require.NoError(t, err)
	assert.Empty(t, observedLines(logs))
	w.Flush()
	assert.Equal(t, []string{"partial"}, observedLines(logs))
	w.Flush()
	assert.Equal(t, []string{"partial"}, observedLines(logs), "Second flush logs nothing")
}

func TestLineWriterSkipsEmptyLines(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := &LineWriter{Log: zap.New(core)}
	_, err := w.Write([]byte("\n\na\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, observedLines(logs))
}
