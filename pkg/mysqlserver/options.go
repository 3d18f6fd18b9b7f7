package mysqlserver

import "time"

// Options bounds the blocking phases of the server lifecycle.
// Immutable once a server is constructed with them.
type Options struct {
	// StartupWait bounds the readiness polling after mysqld starts.
	StartupWait time.Duration
	// ShutdownWait bounds the wait for mysqld to die after a kill.
	ShutdownWait time.Duration
	// CommandTimeout bounds one-shot subprocess steps (unpack, initialize).
	CommandTimeout time.Duration
}

// DefaultOptions returns the default lifecycle timeouts.
func DefaultOptions() Options {
	return Options{
		StartupWait:    10 * time.Second,
		ShutdownWait:   10 * time.Second,
		CommandTimeout: 30 * time.Second,
	}
}

// OptionsBuilder assembles Options, starting from the defaults.
type OptionsBuilder struct {
	opts Options
}

// NewOptionsBuilder returns a builder seeded with DefaultOptions.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{opts: DefaultOptions()}
}

// StartupWait sets the readiness polling bound.
func (b *OptionsBuilder) StartupWait(d time.Duration) *OptionsBuilder {
	b.opts.StartupWait = d
	return b
}

// ShutdownWait sets the kill wait bound.
func (b *OptionsBuilder) ShutdownWait(d time.Duration) *OptionsBuilder {
	b.opts.ShutdownWait = d
	return b
}

// CommandTimeout sets the one-shot subprocess bound.
func (b *OptionsBuilder) CommandTimeout(d time.Duration) *OptionsBuilder {
	b.opts.CommandTimeout = d
	return b
}

// Build returns the assembled Options.
func (b *OptionsBuilder) Build() Options {
	return b.opts
}
