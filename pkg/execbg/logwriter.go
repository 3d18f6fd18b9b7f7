package execbg

import (
	"bytes"
	"sync"

	"go.uber.org/zap"
)

// LineWriter forwards writes to a logger, one line per entry.
// Partial lines are buffered until terminated or flushed.
// Safe for concurrent use, so stdout and stderr may share one writer.
type LineWriter struct {
	Log *zap.Logger

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *LineWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Put the partial line back and wait for more.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.line(line[:len(line)-1])
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.line(w.buf.String())
		w.buf.Reset()
	}
}

func (w *LineWriter) line(s string) {
	if len(s) > 0 {
		w.Log.Info(s)
	}
}
