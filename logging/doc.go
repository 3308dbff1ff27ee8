// Package logging provides a minimal logging interface and adapters for stride.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the agent loop, actions and the server use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - RunLogger adding per-run context and domain helpers
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json")
//	ag, err := agent.New(m, actions, func(o *agent.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
