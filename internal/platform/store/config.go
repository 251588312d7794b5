package store

import "time"

// Config is the full store configuration for a process
type Config struct {
	// AppName names the process for connection metadata and tracing
	AppName string

	PG PGConfig
}

// PGConfig controls the postgres pool
type PGConfig struct {
	Enabled bool
	URL     string

	// MaxConns caps the pool, zero means driver default
	MaxConns int32

	// LogSQL emits per query logs through the store logger
	LogSQL bool

	// SlowQueryMs marks queries slower than this as slow in logs
	// zero disables the marker
	SlowQueryMs int

	// Guard/boot knobs:
	ConnectRetries int           // default 20 attempts before Open gives up
	PingTimeout    time.Duration // default 2s per attempt
}
