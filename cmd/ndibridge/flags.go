package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

// cliConfig holds user-supplied flag values: a plain struct, explicit range
// validation, no config file.
type cliConfig struct {
	command string // "list" or "serve"

	port        uint
	maxFPS      int
	jpegQuality int
	logInterval int
	logLevel    string
	showVersion bool

	hooksStdio   string // "json", "env", or ""
	hooksWebhook string // webhook URL, or ""
}

func parseFlags(args []string) (*cliConfig, error) {
	if len(args) == 0 {
		return nil, errors.New("expected a subcommand: list or serve")
	}

	cfg := &cliConfig{command: args[0]}
	rest := args[1:]

	fs := flag.NewFlagSet(cfg.command, flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	fs.UintVar(&cfg.port, "port", 9550, "TCP port to bind the HTTP/WebSocket server")
	fs.IntVar(&cfg.maxFPS, "max-fps", 25, "Maximum outgoing frame rate per source (0 disables the cap)")
	fs.IntVar(&cfg.jpegQuality, "jpeg-quality", 75, "JPEG encode quality (1-100)")
	fs.IntVar(&cfg.logInterval, "log-interval", 20, "Seconds between stats log lines (0 disables)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")
	fs.StringVar(&cfg.hooksStdio, "hooks-stdio", "", "Enable structured lifecycle event output: json|env (empty=disabled)")
	fs.StringVar(&cfg.hooksWebhook, "hooks-webhook", "", "POST lifecycle events to this URL (empty=disabled)")

	if err := fs.Parse(rest); err != nil {
		return nil, err
	}

	switch cfg.command {
	case "list", "serve":
	default:
		return nil, fmt.Errorf("unknown subcommand %q: expected list or serve", cfg.command)
	}

	if cfg.command == "serve" {
		if cfg.port == 0 || cfg.port > 65535 {
			return nil, errors.New("port must be between 1 and 65535")
		}
		if cfg.jpegQuality < 1 || cfg.jpegQuality > 100 {
			return nil, errors.New("jpeg-quality must be between 1 and 100")
		}
		if cfg.maxFPS < 0 {
			return nil, errors.New("max-fps must be >= 0")
		}
		if cfg.logInterval < 0 {
			return nil, errors.New("log-interval must be >= 0")
		}
		switch cfg.logLevel {
		case "debug", "info", "warn", "error":
		default:
			return nil, fmt.Errorf("invalid log-level %q", cfg.logLevel)
		}
		if cfg.hooksStdio != "" && cfg.hooksStdio != "json" && cfg.hooksStdio != "env" {
			return nil, fmt.Errorf("invalid hooks-stdio %q, must be json or env", cfg.hooksStdio)
		}
	}

	return cfg, nil
}
