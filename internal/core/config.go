package core

import "time"

// RuntimeConfig contains configuration passed to a console at start.
// Hosts fill it from flags and the YAML config.
type RuntimeConfig struct {
	TickRate    int           // Display refreshes per second requested by terminal hosts
	Seed        int64         // RNG seed for rnd(); 0 means use current time
	FrameBudget time.Duration // Max time one script callback may run; 0 disables the limit
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// RunState describes where a loaded program is in its lifecycle.
type RunState int

const (
	StateIdle RunState = iota
	StateCompiling
	StateCompileFailed
	StateReady
	StateInitializing
	StateInitFailed
	StateLooping
	StateHalted
)

// String returns a human-readable name for the state.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCompiling:
		return "compiling"
	case StateCompileFailed:
		return "compile-failed"
	case StateReady:
		return "ready"
	case StateInitializing:
		return "initializing"
	case StateInitFailed:
		return "init-failed"
	case StateLooping:
		return "looping"
	case StateHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state can only be left by loading a new program.
func (s RunState) Terminal() bool {
	return s == StateCompileFailed || s == StateInitFailed || s == StateHalted
}
