package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// StdioHook writes event data to stdout/stderr in a chosen format.
type StdioHook struct {
	id     string
	format string // "json" or "env"
	output *os.File
}

// NewStdioHook creates a stdio hook, defaulting output to stderr so it does
// not interleave with normal server output.
func NewStdioHook(id, format string) *StdioHook {
	return &StdioHook{id: id, format: format, output: os.Stderr}
}

// SetOutput overrides the output destination.
func (h *StdioHook) SetOutput(output *os.File) *StdioHook {
	h.output = output
	return h
}

func (h *StdioHook) Execute(ctx context.Context, event Event) error {
	switch h.format {
	case "json":
		return h.outputJSON(event)
	case "env":
		return h.outputEnv(event)
	default:
		return fmt.Errorf("stdio hook %s: unsupported format: %s", h.id, h.format)
	}
}

func (h *StdioHook) Type() string { return "stdio" }
func (h *StdioHook) ID() string   { return h.id }

func (h *StdioHook) outputJSON(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("stdio hook %s: marshal: %w", h.id, err)
	}
	_, err = fmt.Fprintf(h.output, "NDIBRIDGE_EVENT: %s\n", string(data))
	return err
}

func (h *StdioHook) outputEnv(event Event) error {
	lines := []string{
		"# event: " + string(event.Type),
		fmt.Sprintf("NDIBRIDGE_EVENT_TYPE=%s", event.Type),
		fmt.Sprintf("NDIBRIDGE_TIMESTAMP=%d", event.Timestamp),
	}
	if event.Source != "" {
		lines = append(lines, "NDIBRIDGE_SOURCE="+event.Source)
	}
	if event.SessionID != "" {
		lines = append(lines, "NDIBRIDGE_SESSION_ID="+event.SessionID)
	}
	for key, value := range event.Data {
		lines = append(lines, "NDIBRIDGE_"+strings.ToUpper(key)+"="+fmt.Sprintf("%v", value))
	}
	lines = append(lines, "")

	for _, line := range lines {
		if _, err := fmt.Fprintln(h.output, line); err != nil {
			return fmt.Errorf("stdio hook %s: write: %w", h.id, err)
		}
	}
	return nil
}
