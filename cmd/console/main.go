// invitedesk is a terminal console for an invite-code manager: it signs an
// operator in (with optional TOTP two-factor), lists, creates, disables and
// exports invite codes, and manages the administrator list.
//
// With --demo the console talks to an in-process demo backend instead of a
// real deployment. Preferences (session token, theme, API host, demo flag)
// persist in a YAML file under the user config directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"invitedesk/internal/console"
	"invitedesk/internal/display"
	"invitedesk/internal/platform/config"
	"invitedesk/internal/platform/logger"
	"invitedesk/internal/platform/tracer"
	"invitedesk/internal/prefs"
	"invitedesk/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ConsoleFromEnv()
	if err != nil {
		return err
	}

	var exportDir string
	flagSet := pflag.NewFlagSet("invitedesk", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.APIHost, "host", cfg.APIHost, "invite manager base URL")
	flagSet.BoolVar(&cfg.DemoMode, "demo", cfg.DemoMode, "use the built-in demo backend")
	flagSet.DurationVar(&cfg.DemoLatency, "demo-latency", cfg.DemoLatency, "artificial delay per demo call")
	flagSet.StringVar(&cfg.PrefsPath, "prefs", cfg.PrefsPath, "preferences file (default: <config dir>/invitedesk/prefs.yaml)")
	flagSet.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write JSON log records to this file")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flagSet.StringVar(&exportDir, "export-dir", ".", "directory exports are written to")
	flagSet.BoolVar(&cfg.TracingEnabled, "trace", cfg.TracingEnabled, "emit OpenTelemetry spans for API calls")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("invitedesk needs an interactive terminal")
	}

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore(cfg.PrefsPath)
	if err != nil {
		return err
	}
	// A persisted connection beats the environment; an explicit flag beats both.
	if flagSet.Changed("host") || flagSet.Changed("demo") {
		ctx := context.Background()
		if err := prefs.SaveConnection(ctx, store, config.NormalizeHost(cfg.APIHost), cfg.DemoMode); err != nil {
			return err
		}
	}

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		tr = tracer.NewOTel(nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resolved, notify := tui.NewResolvedSignal()
	c, err := console.New(ctx, console.Deps{
		Config:            cfg,
		Store:             store,
		Tracer:            tr,
		Logger:            log,
		Formatter:         display.Local,
		DarkDefault:       lipgloss.HasDarkBackground(),
		OnHandlesResolved: notify,
	})
	if err != nil {
		return err
	}
	// Lookups in flight still log; let them finish before the log closes.
	defer c.Wait()

	model := tui.New(tui.Options{
		Console:   c,
		Context:   ctx,
		Resolved:  resolved,
		ExportDir: exportDir,
		Logger:    log,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// openLogger writes to cfg.LogFile when set. The terminal belongs to the UI,
// so without a file logs are dropped.
func openLogger(cfg config.Console) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return logger.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logger.NewWithLevel(f, cfg.LogLevel), func() { _ = f.Close() }, nil
}

func openStore(path string) (*prefs.FileStore, error) {
	if path == "" {
		var err error
		if path, err = prefs.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return prefs.OpenFile(path)
}
