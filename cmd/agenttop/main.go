// agenttop is a terminal observability dashboard for AI coding-assistant
// CLIs: it receives their OTLP telemetry over HTTP, persists it locally, and
// renders a live view of tool usage, token consumption, cost, and session
// productivity.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agenttop/agenttop/pkg/api"
	"github.com/agenttop/agenttop/pkg/config"
	"github.com/agenttop/agenttop/pkg/logging"
	"github.com/agenttop/agenttop/pkg/provider"
	"github.com/agenttop/agenttop/pkg/storage"
	"github.com/agenttop/agenttop/pkg/tui"
	"github.com/agenttop/agenttop/pkg/version"
)

var headless bool

func main() {
	root := &cobra.Command{
		Use:          "agenttop",
		Short:        "A terminal observability dashboard for AI coding agents",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVarP(&headless, "headless", "H", false, "run the OTLP receiver without the TUI")
	root.AddCommand(newSetupCommand())

	if err := root.Execute(); err != nil {
		slog.Error("agenttop exited with error", "error", err)
		os.Exit(1)
	}
}

func newSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "setup <provider>",
		Short:     "Configure an AI coding CLI to emit OTLP telemetry to agenttop",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"claude", "gemini", "qwen", "codex", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(args[0])
		},
	}
}

func runSetup(target string) error {
	switch target {
	case "all":
		for _, id := range []string{"claude_code", "gemini_cli", "qwen_code"} {
			p, _ := provider.DefaultRegistry.Get(id)
			if err := setupProvider(p); err != nil {
				return err
			}
		}
		return nil
	case "claude":
		p, _ := provider.DefaultRegistry.Get("claude_code")
		return setupProvider(p)
	case "gemini":
		p, _ := provider.DefaultRegistry.Get("gemini_cli")
		return setupProvider(p)
	case "qwen":
		p, _ := provider.DefaultRegistry.Get("qwen_code")
		return setupProvider(p)
	case "codex":
		p, _ := provider.DefaultRegistry.Get("openai_codex")
		return setupProvider(p)
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownProvider, target)
	}
}

func setupProvider(p provider.Provider) error {
	mutated, err := p.EnsureConfigured()
	if err != nil {
		return fmt.Errorf("configuring %s: %w", p.Name(), err)
	}
	if mutated {
		fmt.Printf("%s: settings updated to enable OTLP telemetry.\n", p.Name())
	} else if path, pathErr := p.SettingsPath(); pathErr == nil {
		fmt.Printf("%s: %s already configured, or must be configured manually. See %s.\n", p.Name(), p.Name(), path)
	} else {
		fmt.Printf("%s: no automatic configuration available; see provider documentation.\n", p.Name())
	}
	return nil
}

func runDashboard(ctx context.Context) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	_, closeLog, err := logging.Setup(cfg.LogEnv, cfg.DataDir, headless)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer closeLog()

	slog.Info("starting", "version", version.Full())

	if claude, ok := provider.DefaultRegistry.Get("claude_code"); ok {
		if _, err := claude.EnsureConfigured(); err != nil {
			slog.Warn("best-effort claude code telemetry setup failed", "error", err)
		}
	}

	engine, err := storage.NewEngine(ctx, storage.Config{Path: storage.DBPath(cfg.DataDir)})
	if err != nil {
		return fmt.Errorf("opening storage engine: %w", err)
	}
	if health, err := engine.Health(ctx); err != nil {
		slog.Warn("storage engine health check failed", "error", err)
	} else {
		slog.Info("storage engine opened", "status", health.Status, "response_time", health.ResponseTime)
	}
	handle := storage.Spawn(engine)
	defer handle.Shutdown()

	server := api.NewServer(handle, provider.DefaultRegistry)
	serverErrs := make(chan error, 1)
	go func() {
		serverErrs <- server.Start(cfg.BindAddr)
	}()

	if headless {
		return waitHeadless(serverErrs)
	}
	return tui.Run(handle)
}

func waitHeadless(serverErrs <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrs:
		return err
	case <-sigCh:
		slog.Info("received shutdown signal")
		return nil
	}
}
