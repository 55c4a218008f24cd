package hooks

import "context"

// Hook represents a handler invoked when a lifecycle event occurs.
type Hook interface {
	Execute(ctx context.Context, event Event) error
	Type() string
	ID() string
}

// Config configures the hook manager.
type Config struct {
	// Timeout is a duration string (default: 30s). NewManager only checks
	// that it parses and logs a warning if not; it is not applied to hook
	// executions (a WebhookHook bounds its requests with its own timeout).
	Timeout string

	// Concurrency bounds simultaneous hook executions (default: 10).
	Concurrency int

	// StdioFormat enables structured stdout/stderr output: "json", "env", or "".
	StdioFormat string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     "30s",
		Concurrency: 10,
		StdioFormat: "",
	}
}
