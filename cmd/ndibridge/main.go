package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hassler-labs/streambridge/internal/discovery"
	"github.com/hassler-labs/streambridge/internal/hooks"
	"github.com/hassler-labs/streambridge/internal/httpapi"
	"github.com/hassler-labs/streambridge/internal/logger"
	"github.com/hassler-labs/streambridge/internal/ndiapi"
	"github.com/hassler-labs/streambridge/internal/receivermgr"
	"github.com/hassler-labs/streambridge/internal/subscriber"
	"github.com/hassler-labs/streambridge/internal/worker"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.showVersion {
		fmt.Println(version)
		return
	}

	switch cfg.command {
	case "list":
		cmdList()
	case "serve":
		cmdServe(cfg)
	}
}

func printBanner(port uint) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  StreamBridge %s\n", version)
	fmt.Fprintln(os.Stderr, "  Powered by NDI® — https://ndi.video")
	fmt.Fprintln(os.Stderr, "  NDI® is a registered trademark of Vizrt NDI AB.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  Server: http://localhost:%d\n", port)
	fmt.Fprintln(os.Stderr, "  Press Ctrl+C to stop.")
	fmt.Fprintln(os.Stderr)
}

func loadNDIOrExit() *ndiapi.Instance {
	ndi, err := ndiapi.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: NDI runtime not found.")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Download and install it from: https://ndi.video/tools/")
		os.Exit(1)
	}
	return ndi
}

func cmdList() {
	ndi := loadNDIOrExit()
	defer ndi.Close()

	logger.Info("NDI version", "version", ndi.Version())

	finder, err := ndi.CreateFinder(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create finder:", err)
		os.Exit(1)
	}
	defer finder.Close()

	fmt.Fprintln(os.Stderr, "Searching for NDI sources...")
	finder.WaitForSources(5000)
	sources := finder.CurrentSources()

	if len(sources) == 0 {
		fmt.Println("No NDI sources found.")
		return
	}

	fmt.Fprintf(os.Stderr, "Found %d source(s):\n", len(sources))
	for _, s := range sources {
		if s.URL != "" {
			fmt.Printf("  %s (%s)\n", s.Name, s.URL)
		} else {
			fmt.Printf("  %s\n", s.Name)
		}
	}
}

func cmdServe(cfg *cliConfig) {
	printBanner(cfg.port)

	logger.Init()
	if err := logger.SetLevel(cfg.logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid log level %q, using default\n", cfg.logLevel)
	}
	log := logger.Logger().With("component", "cli")

	ndi := loadNDIOrExit()
	defer ndi.Close()
	log.Info("NDI version", "version", ndi.Version())

	finder, err := ndi.CreateFinder(true)
	if err != nil {
		log.Error("failed to create finder", "error", err)
		os.Exit(1)
	}
	defer finder.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources := discovery.Start(ctx, finder, log)

	hookCfg := hooks.DefaultConfig()
	hookCfg.StdioFormat = cfg.hooksStdio
	hookMgr := hooks.NewManager(hookCfg, log)
	defer hookMgr.Close()
	if cfg.hooksWebhook != "" {
		_ = hookMgr.RegisterHook(hooks.WorkerStarted, hooks.NewWebhookHook("cli-webhook-worker-started", cfg.hooksWebhook, 10*time.Second))
		_ = hookMgr.RegisterHook(hooks.WorkerStopped, hooks.NewWebhookHook("cli-webhook-worker-stopped", cfg.hooksWebhook, 10*time.Second))
		_ = hookMgr.RegisterHook(hooks.SourceLost, hooks.NewWebhookHook("cli-webhook-source-lost", cfg.hooksWebhook, 10*time.Second))
		_ = hookMgr.RegisterHook(hooks.ClientConnected, hooks.NewWebhookHook("cli-webhook-client-connected", cfg.hooksWebhook, 10*time.Second))
		_ = hookMgr.RegisterHook(hooks.ClientDisconnected, hooks.NewWebhookHook("cli-webhook-client-disconnected", cfg.hooksWebhook, 10*time.Second))
	}

	workerCfg := worker.Config{MaxFPS: cfg.maxFPS, JPEGQuality: cfg.jpegQuality}
	spawn := func(spawnCtx context.Context, rec *receivermgr.Record, recv *ndiapi.ReceiveInstance, onExit func()) {
		go worker.Run(spawnCtx, rec, recv, workerCfg, hookMgr, onExit)
	}
	manager := receivermgr.New(ctx, ndi, spawn, log)

	if cfg.logInterval > 0 {
		go runStatsLogger(ctx, manager, time.Duration(cfg.logInterval)*time.Second, log)
	}

	deps := subscriber.Deps{Sources: sources, Manager: manager, Hooks: hookMgr}
	router := httpapi.NewRouter(sources, deps, log)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.port)
	httpServer := &http.Server{Addr: addr, Handler: router}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("forced exit after timeout", "error", err)
	} else {
		log.Info("server stopped cleanly")
	}
}

func runStatsLogger(ctx context.Context, manager *receivermgr.Manager, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	intervalSecs := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, rec := range manager.ActiveStats() {
				snap := rec.Stats.SnapshotAndReset(intervalSecs)
				if snap.Clients > 0 || snap.FPSOut > 0 {
					log.Info(fmt.Sprintf("[%s] %s", rec.SourceName, snap.String()))
				}
			}
		}
	}
}
