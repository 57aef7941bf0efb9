package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/abelbrown/shopper/internal/logging"
	"github.com/abelbrown/shopper/internal/mockapi"
)

func runMock() {
	fs := flag.NewFlagSet("mock", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:5000", "Listen address")
	latency := fs.Duration("latency", 0, "Delay added to every /find and /chat response")
	empty := fs.String("empty", "", "Return zero results for queries containing this text")
	fs.Parse(os.Args[1:])

	logging.InitWriter(os.Stderr, charmlog.InfoLevel)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.New(mockapi.Config{Latency: *latency, Empty: *empty}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Info("mock backend listening", "addr", *addr, "latency", *latency)

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("shutdown", "error", err)
		}
		logging.Info("mock backend stopped")
	}
}
