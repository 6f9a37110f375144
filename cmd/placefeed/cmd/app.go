package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	historysqlite "github.com/placefeed/placefeed/internal/adapter/outbound/history"
	"github.com/placefeed/placefeed/internal/adapter/outbound/rest"
	"github.com/placefeed/placefeed/internal/adapter/outbound/state"
	"github.com/placefeed/placefeed/internal/config"
	"github.com/placefeed/placefeed/internal/domain/history"
	"github.com/placefeed/placefeed/internal/domain/popup"
	"github.com/placefeed/placefeed/internal/service"
	"github.com/placefeed/placefeed/internal/telemetry"
)

// appContext wires the stores together for one command invocation. The
// command tree is the view layer: it dispatches intents to the services
// and renders their resulting state, nothing else.
type appContext struct {
	cfg      *config.Config
	logger   *slog.Logger
	popups   *popup.Orchestrator
	sessions *service.SessionService
	feed     *service.FeedService
	app      *service.AppService
	hist     history.Store // nil when disabled
}

// newApp builds the full object graph from config and flags. The
// returned cleanup flushes telemetry and closes the history store.
func newApp() (*appContext, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if flagServer != "" {
		cfg.Server.BaseURL = flagServer
	}

	logger := newLogger(cfg)

	stopTelemetry, err := telemetry.Setup(flagTrace, flagMetrics, logger)
	if err != nil {
		return nil, nil, err
	}

	client := rest.NewClient(cfg.Server.BaseURL,
		rest.WithAuthBaseURL(cfg.Server.AuthURL),
		rest.WithTimeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second),
		rest.WithLogger(logger),
	)
	creds := state.NewFileCredentialStore(cfg.Credential.Path, logger)
	popups := popup.NewOrchestrator()

	var hist history.Store
	if cfg.History.Enabled {
		hs, histErr := historysqlite.NewSQLiteStore(cfg.History.Path, cfg.History.MaxEntries, logger)
		if histErr != nil {
			logger.Warn("local history disabled", "error", histErr)
		} else {
			hist = hs
		}
	}

	sessions := service.NewSessionService(client, creds, popups, logger)
	feed := service.NewFeedService(client, popups, hist, logger)
	app := service.NewAppService(sessions, feed, logger)

	cleanup := func() {
		if hist != nil {
			if err := hist.Close(); err != nil {
				logger.Warn("failed to close history store", "error", err)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stopTelemetry(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}

	return &appContext{
		cfg:      cfg,
		logger:   logger,
		popups:   popups,
		sessions: sessions,
		feed:     feed,
		app:      app,
		hist:     hist,
	}, cleanup, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// requireAuth restores the session from the persisted credential and runs
// the initial load. Anonymous users are confined to login/register.
func (a *appContext) requireAuth(ctx context.Context) error {
	if !a.app.Startup(ctx) {
		return errors.New("not signed in; run 'placefeed login <email>' first")
	}
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read otherwise (pipes, tests).
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a y/N question on stderr and reads the answer from stdin.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
