// Command shopper is the terminal client for the product recommendation
// service: a search form, ranked result cards, and a follow-up chat panel.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/shopper/internal/backend"
	"github.com/abelbrown/shopper/internal/config"
	"github.com/abelbrown/shopper/internal/controller"
	"github.com/abelbrown/shopper/internal/logging"
	"github.com/abelbrown/shopper/internal/otel"
	"github.com/abelbrown/shopper/internal/render"
	"github.com/abelbrown/shopper/internal/store"
	"github.com/abelbrown/shopper/internal/ui"
)

// searchLogRetention bounds how long outcomes stay in the local search log.
const searchLogRetention = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.Dir(), logging.ParseLevel(cfg.Log.Level)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	// Diagnostic events: JSONL on disk plus a ring buffer for the ctrl+d overlay.
	ring := otel.NewRingBuffer(512)
	var events *otel.Logger
	if f, err := os.OpenFile(cfg.EventLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
		logging.Warn("Event log unavailable", "path", cfg.EventLogPath(), "error", err)
		events = otel.NewNullLogger(otel.WithRing(ring))
	} else {
		defer f.Close()
		events = otel.NewLogger(f, otel.WithRing(ring))
	}
	defer events.Close()

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStartup, Comp: "main", Msg: cfg.Backend.URL})
	logging.Info("shopper starting", "backend", cfg.Backend.URL, "session", events.SessionID())

	// The search log is optional: without it the UI still works.
	var opts []controller.Option
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		logging.Warn("Search log unavailable", "path", cfg.DBPath(), "error", err)
		events.Error(otel.KindStoreError, "main", err)
	} else {
		defer st.Close()
		if n, err := st.Prune(context.Background(), searchLogRetention); err != nil {
			logging.Warn("Prune search log", "error", err)
		} else if n > 0 {
			logging.Info("Pruned search log", "rows", n)
		}
		opts = append(opts, controller.WithSearchLog(st))
	}
	opts = append(opts, controller.WithEvents(events))

	client := backend.New(cfg.Backend.URL,
		backend.WithTimeout(cfg.Timeout()),
		backend.WithEvents(events),
	)

	ctrl := controller.New(client, controller.Config{
		Render:    render.Options{Locale: cfg.UI.Locale, Currency: cfg.UI.Currency},
		HintDelay: cfg.HintDelay(),
	}, opts...)

	app := ui.NewApp(ctrl, ui.WithEvents(events))

	var progOpts []tea.ProgramOption
	if cfg.UI.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(app, progOpts...)

	start := time.Now()
	if _, err := p.Run(); err != nil {
		events.Error(otel.KindError, "main", err)
		logging.Error("Application error", "error", err)
		events.Close()
		fatal("Error: %v", err)
	}

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShutdown, Comp: "main", Dur: time.Since(start)})
	logging.Info("shopper exiting normally")
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
